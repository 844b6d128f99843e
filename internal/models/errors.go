package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure taxonomy shared by the endpoints, the client and the session.
var (
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrQuotaExceeded    = errors.New("payment required")
	ErrGenerationFailed = errors.New("generation failed")
	ErrUnsupported      = errors.New("feature not supported")
)

// StatusError carries the HTTP status and message returned by an AI endpoint.
// It unwraps to one of the taxonomy sentinels.
type StatusError struct {
	Status  int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (status %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", e.kind, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// ErrorForStatus classifies a non-success status. 429 is a rate limit, 402 is
// an exhausted quota, everything else is a generic failure.
func ErrorForStatus(status int, message string) *StatusError {
	kind := ErrGenerationFailed
	switch status {
	case http.StatusTooManyRequests:
		kind = ErrRateLimited
	case http.StatusPaymentRequired:
		kind = ErrQuotaExceeded
	}
	return &StatusError{Status: status, Message: message, kind: kind}
}

// StatusFor maps an error back onto the status an endpoint should reply with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}
