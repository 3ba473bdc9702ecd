package errors

import (
	"errors"
	"fmt"
)

// Common error kinds for the console's session core
var (
	// Credential errors
	ErrMalformedCredential = errors.New("malformed credential")

	// Authentication errors
	ErrAuthRejected     = errors.New("authentication rejected")
	ErrRefreshRejected  = errors.New("refresh rejected")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Transport errors
	ErrTransport = errors.New("transport error")

	// API errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrRequestFailed      = errors.New("request failed")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidRequest     = errors.New("invalid request")
)

// APIError is a non-2xx response from the backend. Kind is one of the
// sentinel errors above so callers can match with Is.
type APIError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// KindForStatus maps an HTTP status code to an error kind
func KindForStatus(status int) error {
	switch status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 400, 422:
		return ErrInvalidRequest
	default:
		return ErrRequestFailed
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Transport marks err as a network level failure while keeping the original in the chain
func Transport(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// MessageOf returns the backend supplied message carried by err, if any
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
