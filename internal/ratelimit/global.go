package ratelimit

import (
	"sync"
	"time"
)

// GlobalLedger guards the whole key map with a single mutex held for the
// full prune-count-append sequence. Strongest consistency tier: admissions
// are linearizable across all keys and callers, at the cost of serializing
// unrelated keys under load.
type GlobalLedger struct {
	policy Policy

	mu       sync.RWMutex
	requests map[string][]time.Time
}

// NewGlobalLedger creates a ledger serialized behind one lock.
func NewGlobalLedger(policy Policy) *GlobalLedger {
	return &GlobalLedger{
		policy:   policy,
		requests: make(map[string][]time.Time),
	}
}

func (l *GlobalLedger) Admit(key string, now time.Time) bool {
	cutoff := now.Add(-l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := pruneBefore(l.requests[key], cutoff)

	if len(history) >= l.policy.Limit {
		l.requests[key] = history

		return false
	}

	l.requests[key] = append(history, now)

	return true
}

// Keys reports the number of tracked client keys. Entries are never evicted,
// so this grows monotonically with key cardinality.
func (l *GlobalLedger) Keys() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.requests)
}
