package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the envelope shape changes so clients
// can detect incompatible servers.
const envelopeVersion = 1

// Envelope is the consistent JSON wrapper around every API response.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload on success"`
	Error   string `json:"error,omitempty" doc:"Error message on failure"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code on failure"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the standard
// envelope. Registered as a huma transformer so handlers return plain
// DTOs and never see the wrapper.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	success := len(status) > 0 && (status[0] == '2' || status[0] == '3')
	return &Envelope{
		V:       envelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
