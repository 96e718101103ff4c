package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"admitd/internal/analytics"
	"admitd/internal/metrics"
	"admitd/internal/ratelimit"
)

// RateLimiter returns a huma middleware that admits or rejects every request
// through the sliding-window limiter. Denied requests answer 429, count in
// the metrics recorder, and emit a denial event for the analytics consumer.
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	recorder *metrics.Recorder,
	publisher *analytics.Publisher,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientKey(ctx)

		allowed, err := limiter.Allow(ctx.Context(), key)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if recorder != nil {
			recorder.ObserveDecision(allowed)
		}

		if !allowed {
			handleDenied(api, ctx, key, publisher, logger)

			return
		}

		next(ctx)
	}
}

func handleDenied(
	api huma.API,
	ctx huma.Context,
	key string,
	publisher *analytics.Publisher,
	logger *zap.Logger,
) {
	requestURL := ctx.URL()

	if publisher != nil {
		event := &analytics.RequestDeniedEvent{
			ClientKey: key,
			ClientIP:  clientIP(ctx),
			Method:    ctx.Method(),
			Path:      requestURL.Path,
			DeniedAt:  time.Now(),
		}

		if err := publisher.PublishRequestDenied(event); err != nil {
			logger.Error("failed to publish denial event", zap.Error(err))
		}
	}

	logger.Warn("rate limit exceeded",
		zap.String("path", requestURL.Path),
		zap.String("method", ctx.Method()),
		zap.String("client_ip", clientIP(ctx)),
	)

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")
}

// clientKey generates a rate limiting key from client IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	if ip := extractClientIP(ctx); ip != "" {
		return ip
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
