package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admitd/internal/ratelimit"
)

// manualClock is a settable clock for driving window expiry in tests.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	return &manualClock{now: start}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestSlidingWindowLimiter(t *testing.T) {
	policy := ratelimit.Policy{Limit: 3, Window: 10 * time.Second}

	t.Run("allows requests under the limit", func(t *testing.T) {
		clock := newManualClock(base)
		limiter, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyKeyed, policy, clock)
		require.NoError(t, err)

		for range 3 {
			allowed, err := limiter.Allow(context.Background(), "client1")

			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("denies requests over the limit", func(t *testing.T) {
		clock := newManualClock(base)
		limiter, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyKeyed, policy, clock)
		require.NoError(t, err)

		for range 3 {
			_, _ = limiter.Allow(context.Background(), "client1")
		}

		allowed, err := limiter.Allow(context.Background(), "client1")

		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("allows again after the window passes", func(t *testing.T) {
		clock := newManualClock(base)
		limiter, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyGlobal, policy, clock)
		require.NoError(t, err)

		for range 3 {
			_, _ = limiter.Allow(context.Background(), "client1")
		}

		allowed, _ := limiter.Allow(context.Background(), "client1")
		assert.False(t, allowed, "window still full")

		clock.Advance(11 * time.Second)

		allowed, err = limiter.Allow(context.Background(), "client1")

		require.NoError(t, err)
		assert.True(t, allowed, "all entries expired")
	})

	t.Run("defaults to the system clock", func(t *testing.T) {
		limiter, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyRing, policy, nil)
		require.NoError(t, err)

		allowed, err := limiter.Allow(context.Background(), "client1")

		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("rejects an invalid policy", func(t *testing.T) {
		_, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyKeyed, ratelimit.Policy{}, nil)

		assert.Error(t, err)
	})

	t.Run("exposes strategy, policy and key count", func(t *testing.T) {
		clock := newManualClock(base)
		limiter, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyRing, policy, clock)
		require.NoError(t, err)

		_, _ = limiter.Allow(context.Background(), "a")
		_, _ = limiter.Allow(context.Background(), "b")

		assert.Equal(t, ratelimit.StrategyRing, limiter.Strategy())
		assert.Equal(t, policy, limiter.Policy())
		assert.Equal(t, 2, limiter.TrackedKeys())
	})
}

func TestSlidingWindowLimiterAdmitAt(t *testing.T) {
	limiter, err := ratelimit.NewSlidingWindowLimiter(
		ratelimit.StrategyGlobal,
		ratelimit.Policy{Limit: 1, Window: 5 * time.Second},
		newManualClock(base),
	)
	require.NoError(t, err)

	assert.True(t, limiter.AdmitAt("k", base))
	assert.False(t, limiter.AdmitAt("k", base.Add(1*time.Second)))
	assert.True(t, limiter.AdmitAt("k", base.Add(6*time.Second)))
}
