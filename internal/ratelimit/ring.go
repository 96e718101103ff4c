package ratelimit

import (
	"sync"
	"time"
)

// RingLedger gives each key a fixed-capacity lock-free queue sized to the
// policy limit. An admission is a lock-free push; when the queue is full the
// oldest entry is discarded only if it has left the window, then the push is
// retried. A key's queue can therefore never hold more than Limit entries,
// which bounds per-key memory without any blocking lock.
//
// Eviction is strict arrival order rather than a time scan, so a burst can
// be rejected where an unbounded history would still admit. That divergence
// is a policy choice of this strategy, not a defect.
type RingLedger struct {
	policy Policy
	queues sync.Map // string -> *timeRing
}

// NewRingLedger creates the fixed-capacity lock-free ledger.
func NewRingLedger(policy Policy) *RingLedger {
	return &RingLedger{policy: policy}
}

func (l *RingLedger) Admit(key string, now time.Time) bool {
	entry, ok := l.queues.Load(key)
	if !ok {
		entry, _ = l.queues.LoadOrStore(key, newTimeRing(l.policy.Limit))
	}

	ring := entry.(*timeRing)

	cutoff := now.Add(-l.policy.Window).UnixNano()
	ts := now.UnixNano()

	for {
		if ring.tryPush(ts) {
			return true
		}

		if !ring.popIfBefore(cutoff) {
			return false
		}
	}
}

// Keys reports the number of tracked client keys.
func (l *RingLedger) Keys() int {
	n := 0

	l.queues.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// occupancy returns the queue length for a key, zero when the key is
// unknown.
func (l *RingLedger) occupancy(key string) int {
	if v, ok := l.queues.Load(key); ok {
		return v.(*timeRing).len()
	}

	return 0
}
