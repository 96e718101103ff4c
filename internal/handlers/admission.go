package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"admitd/internal/analytics"
	"admitd/internal/ratelimit"
)

// AdmissionHandler exposes the limiter to embedding servers that want an
// explicit decision endpoint instead of (or in addition to) the middleware.
type AdmissionHandler struct {
	limiter *ratelimit.SlidingWindowLimiter
	tally   *analytics.Tally
	logger  *zap.Logger
}

// NewAdmissionHandler creates the admission API handler.
func NewAdmissionHandler(
	limiter *ratelimit.SlidingWindowLimiter,
	tally *analytics.Tally,
	logger *zap.Logger,
) *AdmissionHandler {
	return &AdmissionHandler{
		limiter: limiter,
		tally:   tally,
		logger:  logger,
	}
}

// Check runs one admission decision for the requested key.
func (h *AdmissionHandler) Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error) {
	key := req.Body.Key
	if key == "" {
		key = RequestMetaFromContext(ctx).ClientIP
	}

	if key == "" {
		return nil, huma.Error400BadRequest("no key given and no client address available")
	}

	allowed, err := h.limiter.Allow(ctx, key)
	if err != nil {
		return nil, huma.Error500InternalServerError("admission check failed", err)
	}

	h.logger.Debug("admission check",
		zap.String("key", key),
		zap.Bool("allowed", allowed),
	)

	resp := &CheckResponse{}
	resp.Body.Key = key
	resp.Body.Allowed = allowed
	resp.Body.Strategy = string(h.limiter.Strategy())

	return resp, nil
}

// Denials reports the denial counts accumulated by the analytics consumer.
func (h *AdmissionHandler) Denials(_ context.Context, _ *struct{}) (*DenialsResponse, error) {
	resp := &DenialsResponse{}
	resp.Body.Total = h.tally.Total()
	resp.Body.ByKey = h.tally.Snapshot()

	return resp, nil
}
