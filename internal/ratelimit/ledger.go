package ratelimit

import (
	"fmt"
	"time"
)

// Ledger maps client keys to their recent-request history and applies the
// sliding-window policy. Admit reports whether the request at now should be
// accepted and, if so, records it. Admit is total: it always returns a
// decision and never fails, even for out-of-order timestamps.
//
// Entries are created lazily on a key's first request and never evicted, so
// memory grows with key cardinality. Bounding the key space is the caller's
// responsibility.
type Ledger interface {
	Admit(key string, now time.Time) bool
}

// KeyCounter is implemented by ledgers that can report how many client keys
// they currently track.
type KeyCounter interface {
	Keys() int
}

// Strategy selects the concurrency design of a Ledger. All strategies share
// the same admission algorithm; they differ in how per-key state is
// synchronized and what that costs under contention.
type Strategy string

const (
	// StrategyGlobal serializes every admission behind one lock over the
	// whole map. Linearizable across all keys.
	StrategyGlobal Strategy = "global"

	// StrategySnapshot uses a concurrent map holding unsynchronized per-key
	// histories. Callers racing on one key can both admit past the limit;
	// see SnapshotLedger.
	StrategySnapshot Strategy = "snapshot"

	// StrategyKeyed uses a concurrent map with one lock per key.
	// Linearizable per key, concurrent across keys.
	StrategyKeyed Strategy = "keyed"

	// StrategyRing uses a concurrent map of fixed-capacity lock-free queues
	// sized to the policy limit. Hard per-key memory bound, no blocking.
	StrategyRing Strategy = "ring"
)

// Strategies lists every available ledger strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyGlobal, StrategySnapshot, StrategyKeyed, StrategyRing}
}

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyGlobal, StrategySnapshot, StrategyKeyed, StrategyRing:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown ledger strategy %q", s)
	}
}

// NewLedger builds the ledger for the given strategy and policy.
func NewLedger(strategy Strategy, policy Policy) (Ledger, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	switch strategy {
	case StrategyGlobal:
		return NewGlobalLedger(policy), nil
	case StrategySnapshot:
		return NewSnapshotLedger(policy), nil
	case StrategyKeyed:
		return NewKeyedLedger(policy), nil
	case StrategyRing:
		return NewRingLedger(policy), nil
	default:
		return nil, fmt.Errorf("unknown ledger strategy %q", strategy)
	}
}

// pruneBefore drops leading timestamps strictly older than cutoff. Histories
// are ordered oldest-first, so expired entries sit at the front. A timestamp
// out of arrival order deeper in the slice is simply not reached, which may
// transiently under-count but never corrupts the history.
func pruneBefore(history []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(history) && history[i].Before(cutoff) {
		i++
	}

	return history[i:]
}
