package health_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admitd/internal/health"
	"admitd/internal/ratelimit"
)

func TestHandler_Check(t *testing.T) {
	policy := ratelimit.Policy{Limit: 5, Window: 30 * time.Second}

	limiter, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyRing, policy, nil)
	require.NoError(t, err)

	handler := health.NewHandler(limiter)

	resp, err := handler.Check(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Body.Status)
	assert.Equal(t, "ring", resp.Body.Strategy)
	assert.Equal(t, 5, resp.Body.Limit)
	assert.Equal(t, 30, resp.Body.WindowSeconds)
	assert.Zero(t, resp.Body.TrackedKeys)
}

func TestHandler_Check_TrackedKeys(t *testing.T) {
	limiter, err := ratelimit.NewSlidingWindowLimiter(
		ratelimit.StrategyGlobal, ratelimit.DefaultPolicy(), nil)
	require.NoError(t, err)

	_, _ = limiter.Allow(context.Background(), "10.0.0.1")
	_, _ = limiter.Allow(context.Background(), "10.0.0.2")

	handler := health.NewHandler(limiter)

	resp, err := handler.Check(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Body.TrackedKeys)
}
