package services

import "fmt"

// MissingFieldError is returned when a required request field is absent or empty.
type MissingFieldError struct{ Field string }

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing %q in request body.", e.Field)
}

// UpstreamError is returned when the completion API answers with a non-2xx status.
// Body is the upstream response text exactly as received.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// ServerError wraps transport and decode failures.
type ServerError struct{ Err error }

func (e *ServerError) Error() string { return e.Err.Error() }

func (e *ServerError) Unwrap() error { return e.Err }
