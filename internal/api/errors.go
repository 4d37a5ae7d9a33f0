package api

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindAPI is a non-2xx HTTP response from the coverage service.
	KindAPI Kind = iota
	// KindNetwork is a transport-level failure (connection refused, DNS, reset).
	KindNetwork
	// KindTimeout means the request exceeded its deadline.
	KindTimeout
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by every gateway call. Status and
// Code are only set for KindAPI; Code is the optional server-supplied error
// code from the response body.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "request timed out, please try again"
	case KindNetwork:
		return "network error, please check your connection"
	default:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
}

// Unwrap exposes the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts a gateway *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTimeout reports whether err is a gateway timeout.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindTimeout
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNetwork
}
