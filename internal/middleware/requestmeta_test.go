package middleware_test

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"

	"admitd/internal/handlers"
	"admitd/internal/middleware"
)

func TestRequestMeta(t *testing.T) {
	t.Run("stamps request ID and populates context", func(t *testing.T) {
		api := newTestAPI()
		mw := middleware.RequestMeta(api)

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.headers["User-Agent"] = testUserAgent

		var meta handlers.RequestMeta

		mw(ctx, func(c huma.Context) {
			meta = handlers.RequestMetaFromContext(c.Context())
		})

		assert.NotEmpty(t, meta.RequestID)
		assert.Equal(t, meta.RequestID, ctx.setHeaders["X-Request-Id"])
		assert.Equal(t, "192.168.1.1", meta.ClientIP)
		assert.Equal(t, testUserAgent, meta.UserAgent)
	})

	t.Run("generates a fresh ID per request", func(t *testing.T) {
		api := newTestAPI()
		mw := middleware.RequestMeta(api)

		ids := make(map[string]bool)

		for range 3 {
			ctx := newMockHumaContext()
			ctx.host = testHostAddr

			mw(ctx, func(c huma.Context) {
				ids[handlers.RequestMetaFromContext(c.Context()).RequestID] = true
			})
		}

		assert.Len(t, ids, 3)
	})

	t.Run("prefers X-Forwarded-For over the connection address", func(t *testing.T) {
		api := newTestAPI()
		mw := middleware.RequestMeta(api)

		ctx := newMockHumaContext()
		ctx.host = "10.0.0.1:443"
		ctx.headers["X-Forwarded-For"] = "203.0.113.195, 70.41.3.18"

		var meta handlers.RequestMeta

		mw(ctx, func(c huma.Context) {
			meta = handlers.RequestMetaFromContext(c.Context())
		})

		assert.Equal(t, "203.0.113.195", meta.ClientIP)
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		api := newTestAPI()
		mw := middleware.RequestMeta(api)

		ctx := newMockHumaContext()
		ctx.host = "10.0.0.1:443"
		ctx.headers["X-Real-IP"] = "198.51.100.9"

		var meta handlers.RequestMeta

		mw(ctx, func(c huma.Context) {
			meta = handlers.RequestMetaFromContext(c.Context())
		})

		assert.Equal(t, "198.51.100.9", meta.ClientIP)
	})
}
