package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a payload or entity fails validation.
	// It is usually wrapped by a *ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrHashing is returned when the credential hasher cannot produce a digest,
	// for example because the random source failed.
	ErrHashing = errors.New("credential hashing failed")
)

// ValidationError describes a single field that failed validation.
// The Reason is safe to show to API callers; it never contains the field value.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil the error wraps ErrValidation.
func NewValidationError(field, reason string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:  field,
		Reason: reason,
		Err:    err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Unwrap returns the wrapped error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation as a match for every ValidationError, so callers
// can test with errors.Is(err, ErrValidation) even when a more specific
// sentinel such as ErrInvalidEmail is wrapped.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
