package auth

import (
	"errors"
	"fmt"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// Credential hashing errors
var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)

	// ErrUnsupportedDigest indicates a stored digest that parses but names an
	// algorithm, version or cost this hasher will not compute. It is distinct
	// from a password mismatch.
	ErrUnsupportedDigest = errors.New("unsupported credential digest")
)
