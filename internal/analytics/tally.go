package analytics

import (
	"sort"
	"sync"
)

// KeyDenials is one client key's denial count.
type KeyDenials struct {
	ClientKey string `json:"clientKey"`
	Count     int64  `json:"count"`
}

// Tally accumulates denial counts per client key. It is the in-memory sink
// behind the denials endpoint; nothing is persisted.
type Tally struct {
	mu    sync.Mutex
	byKey map[string]int64
	total int64
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{byKey: make(map[string]int64)}
}

// Add counts one denial for the given client key.
func (t *Tally) Add(clientKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byKey[clientKey]++
	t.total++
}

// Total returns the number of denials observed so far.
func (t *Tally) Total() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.total
}

// Snapshot returns per-key denial counts sorted by count descending, then
// key ascending for a stable order.
func (t *Tally) Snapshot() []KeyDenials {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]KeyDenials, 0, len(t.byKey))
	for key, count := range t.byKey {
		out = append(out, KeyDenials{ClientKey: key, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].ClientKey < out[j].ClientKey
	})

	return out
}
