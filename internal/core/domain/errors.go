package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation indicates a profile field is outside its allowed domain
	// for the requested action. No network call is made.
	ErrValidation = errors.New("validation failed")

	// ErrRequestFailed indicates the analysis service answered with a
	// non-success status or an unreadable body.
	ErrRequestFailed = errors.New("request failed")

	// ErrStorageCorrupt indicates the persisted profile could not be decoded.
	// Stores recover from it by returning the default profile.
	ErrStorageCorrupt = errors.New("stored profile is corrupt")

	// ErrInvalidTransition indicates an enrichment state change that is not allowed.
	ErrInvalidTransition = errors.New("invalid enrichment transition")

	// ErrUnsupportedType indicates an unknown storage backend or setting value.
	ErrUnsupportedType = errors.New("unsupported type")
)

// RequestFailedError carries the status and detail of a failed call to the
// analysis service. It matches ErrRequestFailed with errors.Is.
type RequestFailedError struct {
	// Op is the remote operation, e.g. "analyze" or "deep-analyze".
	Op string

	// Status is the HTTP status code, 0 when no response was decoded.
	Status int

	// Detail is the service-provided message, or the transport status text.
	Detail string
}

// Error implements error.
func (e *RequestFailedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Op, ErrRequestFailed)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrRequestFailed, e.Detail)
}

// Is reports whether target is ErrRequestFailed.
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}
