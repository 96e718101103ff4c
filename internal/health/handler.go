package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"admitd/internal/ratelimit"
)

// Handler reports process health and the active admission configuration.
type Handler struct {
	limiter *ratelimit.SlidingWindowLimiter
}

// NewHandler creates a health handler over the limiter.
func NewHandler(limiter *ratelimit.SlidingWindowLimiter) *Handler {
	return &Handler{limiter: limiter}
}

// Response is the health check response.
type Response struct {
	Body struct {
		Status        string `doc:"Service status"                         example:"ok"    json:"status"`
		Strategy      string `doc:"Active ledger strategy"                 example:"keyed" json:"strategy"`
		Limit         int    `doc:"Requests allowed per key per window"    example:"100"   json:"limit"`
		WindowSeconds int    `doc:"Sliding window duration in seconds"     example:"60"    json:"windowSeconds"`
		TrackedKeys   int    `doc:"Client keys currently held; never evicted" json:"trackedKeys"`
	}
}

// Check reports liveness plus the limiter configuration. The tracked-key
// count is a visibility aid for the ledger's monotonic growth, not a health
// signal.
func (h *Handler) Check(_ context.Context, _ *struct{}) (*Response, error) {
	policy := h.limiter.Policy()

	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Strategy = string(h.limiter.Strategy())
	resp.Body.Limit = policy.Limit
	resp.Body.WindowSeconds = int(policy.Window.Seconds())
	resp.Body.TrackedKeys = h.limiter.TrackedKeys()

	return resp, nil
}

// RegisterRoutes registers the health endpoint.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
