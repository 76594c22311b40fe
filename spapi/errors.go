package spapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Selling Partner API, carried as a
// typed failure value with the decoded error fields and the raw body.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is Amazon's error code (e.g. "InvalidInput", "QuotaExceeded").
	Code string

	// Message is the human-readable error message.
	Message string

	// Details carries additional error context when Amazon provides it.
	Details string

	// Body is the raw response body.
	Body []byte
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("SP-API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("SP-API request failed with status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Retryable reports whether the failure is transient: throttling or a
// server-side error. Client errors reproduce on retry and are permanent.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// errorEnvelope is the SP-API error response shape:
// {"errors":[{"code":...,"message":...,"details":...}]}
type errorEnvelope struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"errors"`
}

// newAPIError decodes an error response body. Undecodable bodies still
// produce an APIError with the status and raw body attached.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       body,
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		apiErr.Code = envelope.Errors[0].Code
		apiErr.Message = envelope.Errors[0].Message
		apiErr.Details = envelope.Errors[0].Details
	}

	return apiErr
}
