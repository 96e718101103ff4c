package handlers

import (
	"context"

	"admitd/internal/analytics"
)

type requestMetaKey struct{}

// RequestMeta holds per-request metadata extracted by the middleware layer.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// CheckRequest asks for an admission decision on a client key. The key is
// optional; when empty the caller's own client IP is used.
type CheckRequest struct {
	Body struct {
		Key string `doc:"Client key to check; defaults to the caller's IP" example:"203.0.113.7" json:"key,omitempty" required:"false"`
	}
}

// CheckResponse reports one admission decision.
type CheckResponse struct {
	Body struct {
		Key      string `doc:"Client key the decision applies to" example:"203.0.113.7" json:"key"`
		Allowed  bool   `doc:"Whether the request was admitted"   example:"true"        json:"allowed"`
		Strategy string `doc:"Ledger strategy in use"             example:"keyed"       json:"strategy"`
	}
}

// DenialsResponse lists per-key denial counts observed by the analytics
// consumer since startup.
type DenialsResponse struct {
	Body struct {
		Total int64                  `doc:"Total denials since startup"              json:"total"`
		ByKey []analytics.KeyDenials `doc:"Per-key denial counts, most denied first" json:"byKey"`
	}
}
