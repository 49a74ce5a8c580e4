package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account represents a registered account of the service.
// It is the only persisted entity and carries the credential digest, so it
// must never be serialized to API callers; use AccountView for that.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose the digest in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAccount creates an Account with a fresh random ID and creation timestamps.
// The passwordHash must already be a digest produced by the credential hasher.
// The email is normalized with NormalizeEmail.
func NewAccount(name, email, passwordHash string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:           uuid.New(),
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// View returns the caller-facing projection of the account.
func (a *Account) View() *AccountView {
	return &AccountView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountView is the read projection of an Account. It has no credential
// field, so it cannot leak the digest however it is encoded.
type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountPatch holds the fields of a partial update. Nil fields are left
// untouched. PasswordHash must hold a digest, never a plaintext secret.
type AccountPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the patch changes nothing.
func (p AccountPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}

// NormalizeEmail applies the service-wide email policy: surrounding
// whitespace is removed and the whole address is lower-cased. All lookups
// and writes go through it, which makes email matching case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
