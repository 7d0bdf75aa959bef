package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint is returned when the endpoint is not an absolute http(s) URL
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrUnexpectedStatus is returned for any non-2xx response
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedBody is returned when the body is not a JSON object
	ErrMalformedBody = errors.New("malformed JSON body")
	// ErrBodyTooLarge is returned when the body exceeds the configured limit
	ErrBodyTooLarge = errors.New("response body too large")
)

// TransportError is the uniform failure signal of FetchJSON. It covers
// network failures, non-2xx statuses and undecodable bodies.
type TransportError struct {
	Provider   string
	Endpoint   string // scheme, host and path only; never the query
	StatusCode int    // 0 when no response was received
	Cause      error
}

func (e *TransportError) Error() string {
	cause := "unknown cause"
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request to %s failed with status %d: %s", e.Provider, e.Endpoint, e.StatusCode, cause)
	}
	return fmt.Sprintf("%s request to %s failed: %s", e.Provider, e.Endpoint, cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsTransportError reports whether err is or wraps a *TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
