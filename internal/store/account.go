package store

import (
	"context"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// AccountStore defines the persistence operations for accounts.
// Every method runs on a connection the caller has already acquired and
// executes as a single atomic unit: no method leaves a partial write behind.
type AccountStore interface {
	// Create inserts a new account row.
	// The account must carry a digest in PasswordHash, never a plaintext secret.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, conn DBTX, account *domain.Account) error

	// FindByEmail returns the read projection of the account with the given
	// email, or (nil, nil) if no account matches. Absence is not an error.
	FindByEmail(ctx context.Context, conn DBTX, email string) (*domain.AccountView, error)

	// FindCredentialsByEmail returns the full account including its digest,
	// or (nil, nil) if no account matches. It exists for credential
	// verification only; its result must never reach an API response.
	FindCredentialsByEmail(ctx context.Context, conn DBTX, email string) (*domain.Account, error)

	// UpdateByEmail applies the non-nil fields of patch to the account that
	// currently has the given email. The row is resolved to its ID and locked
	// inside one transaction before it is modified, so a concurrent rename
	// cannot redirect the write to another row. The ID never changes.
	// Returns ErrAccountNotFound if no account matches.
	// Returns ErrEmailExists if the patch renames to an email already in use.
	UpdateByEmail(ctx context.Context, conn DBTX, email string, patch domain.AccountPatch) error

	// DeleteByEmail removes the account with the given email and returns the
	// number of rows deleted (0 or 1). Deleting a missing account is not an error.
	DeleteByEmail(ctx context.Context, conn DBTX, email string) (int64, error)
}
