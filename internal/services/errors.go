// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrHydrationNotFound means the edit target does not exist on the backend.
	ErrHydrationNotFound = errors.New("item not found")
	ErrDraftNotFound     = errors.New("draft not found")
)

const MsgVariantRequired = "at least one variant with a color name is required"

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type TransportErrorKind string

const (
	TransportValidation TransportErrorKind = "validation"
	TransportNetwork    TransportErrorKind = "network"
	TransportServer     TransportErrorKind = "server"
)

// TransportError is a failed submit or fetch, returned to the caller as-is.
type TransportError struct {
	Kind       TransportErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
