package ratelimit

import (
	"sync"
	"time"
)

// lockedHistory is one key's recent-request record together with the lock
// that guards it.
type lockedHistory struct {
	mu    sync.Mutex
	times []time.Time
}

// KeyedLedger keeps per-key histories in a concurrent map, each guarded by
// its own lock held for the full prune-count-append sequence. Admissions for
// distinct keys proceed fully in parallel; callers contend only when they
// share a key. Linearizable per key.
type KeyedLedger struct {
	policy   Policy
	requests sync.Map // string -> *lockedHistory
}

// NewKeyedLedger creates a ledger with one lock per client key.
func NewKeyedLedger(policy Policy) *KeyedLedger {
	return &KeyedLedger{policy: policy}
}

func (l *KeyedLedger) Admit(key string, now time.Time) bool {
	entry, ok := l.requests.Load(key)
	if !ok {
		entry, _ = l.requests.LoadOrStore(key, &lockedHistory{})
	}

	h := entry.(*lockedHistory)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.times = pruneBefore(h.times, now.Add(-l.policy.Window))

	if len(h.times) >= l.policy.Limit {
		return false
	}

	h.times = append(h.times, now)

	return true
}

// Keys reports the number of tracked client keys.
func (l *KeyedLedger) Keys() int {
	n := 0

	l.requests.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
