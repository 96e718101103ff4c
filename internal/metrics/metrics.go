package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeAdmitted = "admitted"
	outcomeDenied   = "denied"
)

// Recorder tracks admission decisions for one limiter instance and serves
// them over a dedicated prometheus registry.
type Recorder struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
}

// NewRecorder creates a recorder labeled with the ledger strategy in use.
func NewRecorder(strategy string) *Recorder {
	registry := prometheus.NewRegistry()

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "admitd",
		Subsystem:   "ratelimit",
		Name:        "decisions_total",
		Help:        "Admission decisions partitioned by outcome.",
		ConstLabels: prometheus.Labels{"strategy": strategy},
	}, []string{"outcome"})

	registry.MustRegister(
		decisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{
		registry:  registry,
		decisions: decisions,
	}
}

// ObserveDecision counts one admission decision.
func (r *Recorder) ObserveDecision(allowed bool) {
	outcome := outcomeDenied
	if allowed {
		outcome = outcomeAdmitted
	}

	r.decisions.WithLabelValues(outcome).Inc()
}

// Handler serves the recorder's registry in prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
