package ratelimit

import (
	"sync"
	"time"
)

// SnapshotLedger stores plain timestamp slices in a concurrent map with no
// per-key synchronization. Each Admit loads a snapshot of the key's history,
// prunes and extends it without holding any lock, and stores it back. Two
// callers racing on the same key can observe the same snapshot and both
// admit, or one can overwrite the other's append, so the window count is
// only probabilistically enforced under same-key contention. The map itself
// stays consistent: no lost keys, no panics.
//
// This is the weak-consistency baseline the other strategies are measured
// against. It is racy by design; do not "fix" it.
type SnapshotLedger struct {
	policy   Policy
	requests sync.Map // string -> []time.Time
}

// NewSnapshotLedger creates the unsynchronized-history ledger.
func NewSnapshotLedger(policy Policy) *SnapshotLedger {
	return &SnapshotLedger{policy: policy}
}

func (l *SnapshotLedger) Admit(key string, now time.Time) bool {
	var history []time.Time

	if v, ok := l.requests.Load(key); ok {
		stored := v.([]time.Time)

		// Work on a copy so callers still reading the stored slice never
		// observe our writes. The decision race itself remains.
		history = make([]time.Time, len(stored))
		copy(history, stored)
	}

	history = pruneBefore(history, now.Add(-l.policy.Window))

	if len(history) >= l.policy.Limit {
		l.requests.Store(key, history)

		return false
	}

	l.requests.Store(key, append(history, now))

	return true
}

// Keys reports the number of tracked client keys.
func (l *SnapshotLedger) Keys() int {
	n := 0

	l.requests.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
