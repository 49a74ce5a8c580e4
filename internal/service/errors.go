package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Store and domain sentinels are passed through wrapped, never replaced
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNothingToUpdate indicates an update request that changes no field.
	// It wraps domain.ErrValidation through a *domain.ValidationError.
	ErrNothingToUpdate = errors.New("at least one field must be updated")
)
