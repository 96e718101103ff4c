package analytics

import "time"

// TopicRequestDenied carries one event per rejected admission.
const TopicRequestDenied = "request.denied"

// RequestDeniedEvent is emitted when the rate limiter rejects a request.
type RequestDeniedEvent struct {
	ClientKey string    `json:"clientKey"`
	ClientIP  string    `json:"clientIp"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	DeniedAt  time.Time `json:"deniedAt"`
}
