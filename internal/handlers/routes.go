package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the admission API.
func RegisterRoutes(api huma.API, h *AdmissionHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "check-admission",
		Method:      http.MethodPost,
		Path:        "/v1/check",
		Summary:     "Check admission for a client key",
		Description: "Runs one sliding-window admission decision for the given key, recording the request against the key's history.",
		Tags:        []string{"Admission"},
	}, h.Check)

	huma.Register(api, huma.Operation{
		OperationID: "list-denials",
		Method:      http.MethodGet,
		Path:        "/v1/denials",
		Summary:     "List denial counts per client key",
		Tags:        []string{"Admission"},
	}, h.Denials)
}
