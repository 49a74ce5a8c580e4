package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// CreateAccountRequest defines the payload for account creation.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAccountRequest defines the payload for a partial account update.
// Email selects the account; the remaining fields are optional changes.
type UpdateAccountRequest struct {
	Email    string  `json:"email"`
	Name     *string `json:"name,omitempty"`
	NewEmail *string `json:"new_email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// EmailRequest identifies an account for read and delete.
type EmailRequest struct {
	Email string `json:"email"`
}

// VerifyCredentialsRequest defines the payload for credential verification.
type VerifyCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccountResponse is returned after a successful create.
type CreateAccountResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteAccountResponse reports how many accounts were removed.
type DeleteAccountResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// VerifyCredentialsResponse reports whether the credentials matched.
type VerifyCredentialsResponse struct {
	Valid bool `json:"valid"`
}

// AccountResponse is the public representation of an account.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func accountToResponse(view *domain.AccountView) AccountResponse {
	return AccountResponse{
		ID:        view.ID,
		Name:      view.Name,
		Email:     view.Email,
		CreatedAt: view.CreatedAt,
		UpdatedAt: view.UpdatedAt,
	}
}
