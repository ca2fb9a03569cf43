package aetherlab

import (
	"errors"
	"fmt"
)

var (
	// ErrAPIKeyRequired is returned by New when no API key was provided and
	// none could be found in the environment.
	ErrAPIKeyRequired = errors.New("API key is required")
	// ErrInvalidBaseURL is returned by New when the configured base URL
	// cannot be parsed.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// Request validation errors. These are always raised before any network
	// call is attempted, wrapped in a *ValidationError.
	ErrNilRequest         = errors.New("request must not be nil")
	ErrNoContent          = errors.New("request must include content or an image")
	ErrImageRequired      = errors.New("an image input is required")
	ErrImageInputMismatch = errors.New("image value does not match the declared input type")
	ErrEmptyWatermarkText = errors.New("watermark text must not be empty")
)

// ValidationError is returned when a request is malformed in a way the
// client can detect locally. No network call has been made when you receive
// one, and retrying without changing the request will never succeed.
//
// ValidationError implements Unwrap, so the specific cause can be checked
// directly:
//
//	if errors.Is(err, aetherlab.ErrNoContent) {
//		// the request had neither content nor an image
//	}
type ValidationError struct {
	// Field is the name of the offending request field, when known.
	Field string
	// Err is the specific validation failure. One of the Err* sentinels in
	// this package.
	Err error
}

// Error returns a string representation of the error.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid request: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// TransportError is returned when the network exchange itself failed: the
// connection could not be established, the request timed out, the circuit
// breaker is open, or the response body could not be read. The remote
// service may never have seen the request.
//
// Transport errors are the only errors the client will retry automatically
// (when retries are enabled), and only for idempotent calls.
type TransportError struct {
	// Err is the underlying failure from the HTTP layer.
	Err error
}

// Error returns a string representation of the error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the same request may succeed. This is
// a hint for callers implementing their own retry policy.
func (e *TransportError) Retryable() bool {
	return true
}

// ServiceError is returned when the remote service rejected the request
// with a structured error: invalid API key, malformed payload, rate limit,
// internal failure. The client surfaces it verbatim and never converts it
// into a default verdict.
//
// Callers are expected to inspect the status code to decide what to do:
//
//	var svcErr *aetherlab.ServiceError
//	if errors.As(err, &svcErr) {
//		if svcErr.StatusCode == http.StatusTooManyRequests {
//			// back off and retry later
//		}
//	}
type ServiceError struct {
	// StatusCode is the HTTP status the service responded with.
	StatusCode int
	// Code is the machine-readable error code from the error envelope, when
	// the service provided one (e.g. "invalid_api_key").
	Code string
	// Message is the human-readable description from the error envelope.
	Message string
	// RequestID identifies the failed exchange for support purposes.
	RequestID string
}

// Error returns a string representation of the error.
func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error: %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service error (%d): %s", e.StatusCode, e.Message)
}
