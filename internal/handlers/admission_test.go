package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"admitd/internal/analytics"
	"admitd/internal/handlers"
	"admitd/internal/ratelimit"
)

func newHandler(t *testing.T, limit int) (*handlers.AdmissionHandler, *analytics.Tally) {
	t.Helper()

	policy := ratelimit.Policy{Limit: limit, Window: time.Minute}

	limiter, err := ratelimit.NewSlidingWindowLimiter(ratelimit.StrategyKeyed, policy, nil)
	require.NoError(t, err)

	tally := analytics.NewTally()

	return handlers.NewAdmissionHandler(limiter, tally, zap.NewNop()), tally
}

func TestAdmissionHandler_Check(t *testing.T) {
	t.Run("admits up to the limit for an explicit key", func(t *testing.T) {
		handler, _ := newHandler(t, 2)

		req := &handlers.CheckRequest{}
		req.Body.Key = "203.0.113.7"

		for range 2 {
			resp, err := handler.Check(context.Background(), req)

			require.NoError(t, err)
			assert.True(t, resp.Body.Allowed)
			assert.Equal(t, "203.0.113.7", resp.Body.Key)
			assert.Equal(t, "keyed", resp.Body.Strategy)
		}

		resp, err := handler.Check(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, resp.Body.Allowed)
	})

	t.Run("falls back to the caller's IP when no key is given", func(t *testing.T) {
		handler, _ := newHandler(t, 1)

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP: "198.51.100.4",
		})

		resp, err := handler.Check(ctx, &handlers.CheckRequest{})

		require.NoError(t, err)
		assert.Equal(t, "198.51.100.4", resp.Body.Key)
		assert.True(t, resp.Body.Allowed)
	})

	t.Run("rejects when neither key nor client address is known", func(t *testing.T) {
		handler, _ := newHandler(t, 1)

		_, err := handler.Check(context.Background(), &handlers.CheckRequest{})

		assert.Error(t, err)
	})

	t.Run("keys are limited independently", func(t *testing.T) {
		handler, _ := newHandler(t, 1)

		first := &handlers.CheckRequest{}
		first.Body.Key = "10.0.0.1"
		second := &handlers.CheckRequest{}
		second.Body.Key = "10.0.0.2"

		resp, err := handler.Check(context.Background(), first)
		require.NoError(t, err)
		assert.True(t, resp.Body.Allowed)

		resp, err = handler.Check(context.Background(), second)
		require.NoError(t, err)
		assert.True(t, resp.Body.Allowed)

		resp, err = handler.Check(context.Background(), first)
		require.NoError(t, err)
		assert.False(t, resp.Body.Allowed)
	})
}

func TestAdmissionHandler_Denials(t *testing.T) {
	handler, tally := newHandler(t, 1)

	tally.Add("203.0.113.7")
	tally.Add("203.0.113.7")
	tally.Add("198.51.100.4")

	resp, err := handler.Denials(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Body.Total)
	require.Len(t, resp.Body.ByKey, 2)
	assert.Equal(t, "203.0.113.7", resp.Body.ByKey[0].ClientKey)
	assert.Equal(t, int64(2), resp.Body.ByKey[0].Count)
}
