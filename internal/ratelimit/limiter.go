package ratelimit

import (
	"context"
	"time"
)

// Limiter is the admission surface embedded in a request path.
type Limiter interface {
	// Allow reports whether a request from the given client key should be
	// admitted right now. The error is reserved for store-backed
	// implementations; in-memory ledgers always return a decision.
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter composes a Ledger with a Clock to produce admission
// decisions stamped at call time.
type SlidingWindowLimiter struct {
	ledger   Ledger
	clock    Clock
	strategy Strategy
	policy   Policy
}

// NewSlidingWindowLimiter builds a limiter for the given strategy and
// policy. A nil clock defaults to the system clock.
func NewSlidingWindowLimiter(strategy Strategy, policy Policy, clock Clock) (*SlidingWindowLimiter, error) {
	ledger, err := NewLedger(strategy, policy)
	if err != nil {
		return nil, err
	}

	if clock == nil {
		clock = SystemClock{}
	}

	return &SlidingWindowLimiter{
		ledger:   ledger,
		clock:    clock,
		strategy: strategy,
		policy:   policy,
	}, nil
}

func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.ledger.Admit(key, l.clock.Now()), nil
}

// AdmitAt applies the policy at an explicit instant, bypassing the clock.
// Workload drivers use this to replay recorded or synthetic timelines.
func (l *SlidingWindowLimiter) AdmitAt(key string, now time.Time) bool {
	return l.ledger.Admit(key, now)
}

// Strategy returns the ledger strategy selected at construction.
func (l *SlidingWindowLimiter) Strategy() Strategy { return l.strategy }

// Policy returns the window policy applied to every key.
func (l *SlidingWindowLimiter) Policy() Policy { return l.policy }

// TrackedKeys reports how many client keys the ledger currently holds.
func (l *SlidingWindowLimiter) TrackedKeys() int {
	if kc, ok := l.ledger.(KeyCounter); ok {
		return kc.Keys()
	}

	return 0
}
