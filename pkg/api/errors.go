package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("network failure")

	// ErrServer indicates the backend answered with a non-2xx status, or with
	// an envelope reporting failure.
	ErrServer = errors.New("server error")

	// ErrMalformed indicates a response body that could not be decoded, or
	// that was missing expected envelope fields.
	ErrMalformed = errors.New("malformed response")

	// ErrNotFound is wrapped by [StatusError] for 404 responses.
	ErrNotFound = errors.New("not found")
)

// StatusError is returned for unsuccessful responses. It wraps [ErrServer],
// and [ErrNotFound] when the status is 404.
type StatusError struct {
	Method     string
	Path       string
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusNotFound {
		return []error{ErrServer, ErrNotFound}
	}

	return []error{ErrServer}
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusBadGateway ||
		e.StatusCode == http.StatusServiceUnavailable ||
		e.StatusCode == http.StatusGatewayTimeout
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
