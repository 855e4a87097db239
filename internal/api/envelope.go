package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps handler output in Envelope and errors in
// ErrorEnvelope. It is registered as a huma transformer.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, _ := strconv.Atoi(status)

	if apiErr, ok := v.(*APIError); ok {
		return ErrorEnvelope{
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	if code >= 400 {
		return v, nil
	}

	switch v.(type) {
	case Envelope, *Envelope, ErrorEnvelope, *ErrorEnvelope:
		return v, nil
	}
	return Envelope{Success: true, Data: v}, nil
}
