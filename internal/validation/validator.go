// Package validation checks the shape of incoming payloads before they reach
// hashing or persistence. It wraps go-playground/validator and reports the
// first failing field as a *domain.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// maxEmailLength is the practical upper bound of an address (RFC 5321 path limit).
const maxEmailLength = 254

// Validator validates structs tagged with `validate` and single email values.
// It is pure and safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that reports JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns nil or a *domain.ValidationError for the
// first failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fromFieldError(fieldErrs[0])
	}

	// InvalidValidationError means a programming error (nil or non-struct input).
	return domain.NewValidationError("", "invalid payload", domain.ErrValidation)
}

// Email validates a single email value, as used for lookup keys.
func (v *Validator) Email(email string) error {
	if email == "" {
		return domain.NewValidationError("email", "is required", domain.ErrValidation)
	}
	if len(email) > maxEmailLength {
		return domain.NewValidationError("email", "is too long", domain.ErrInvalidEmail)
	}
	if err := v.validate.Var(email, "email"); err != nil {
		return domain.NewValidationError("email", "must be a valid email address", domain.ErrInvalidEmail)
	}
	return nil
}

// fromFieldError converts a validator field error into a domain error.
// The rejected value is deliberately left out: it may be a password.
func fromFieldError(fe validator.FieldError) *domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(field, "is required", domain.ErrValidation)
	case "email":
		return domain.NewValidationError(field, "must be a valid email address", domain.ErrInvalidEmail)
	case "min":
		return domain.NewValidationError(field, "is too short", domain.ErrValidation)
	case "max":
		return domain.NewValidationError(field, "is too long", domain.ErrValidation)
	default:
		return domain.NewValidationError(field, "is invalid", domain.ErrValidation)
	}
}
