package ratelimit

import (
	"fmt"
	"time"
)

// Policy is the sliding-window admission policy: at most Limit requests per
// client key within any trailing Window. Immutable once constructed.
type Policy struct {
	Limit  int
	Window time.Duration
}

// DefaultPolicy allows 100 requests per key per minute.
func DefaultPolicy() Policy {
	return Policy{Limit: 100, Window: time.Minute}
}

// Validate checks that the policy is usable.
func (p Policy) Validate() error {
	if p.Limit <= 0 {
		return fmt.Errorf("policy limit must be positive, got %d", p.Limit)
	}

	if p.Window <= 0 {
		return fmt.Errorf("policy window must be positive, got %s", p.Window)
	}

	return nil
}
