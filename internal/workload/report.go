package workload

import (
	"fmt"
	"strings"
	"time"
)

// Report summarizes one load-generation run.
type Report struct {
	RunID    string
	Strategy string
	Requests int64
	Admitted int64
	Denied   int64
	Elapsed  time.Duration
}

// Throughput returns admission calls per second.
func (r *Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}

	return float64(r.Requests) / r.Elapsed.Seconds()
}

// String renders the report for terminal output.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "run        %s\n", r.RunID)
	fmt.Fprintf(&b, "strategy   %s\n", r.Strategy)
	fmt.Fprintf(&b, "requests   %d\n", r.Requests)
	fmt.Fprintf(&b, "admitted   %d (%.1f%%)\n", r.Admitted, percent(r.Admitted, r.Requests))
	fmt.Fprintf(&b, "denied     %d (%.1f%%)\n", r.Denied, percent(r.Denied, r.Requests))
	fmt.Fprintf(&b, "elapsed    %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "throughput %.0f req/s", r.Throughput())

	return b.String()
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}

	return 100 * float64(part) / float64(total)
}
