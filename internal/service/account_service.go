package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/redact"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/phrazzld/accounts-api/internal/validation"
)

// CreateAccountInput carries the fields of a new account.
type CreateAccountInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// UpdateAccountInput identifies an account by Email and carries the fields to change.
// Nil fields are left untouched.
type UpdateAccountInput struct {
	Email    string  `json:"email"     validate:"required,email,max=254"`
	Name     *string `json:"name"      validate:"omitempty,min=1,max=255"`
	NewEmail *string `json:"new_email" validate:"omitempty,email,max=254"`
	Password *string `json:"password"  validate:"omitempty,min=1,max=1024"`
}

type verifyCredentialsInput struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// AccountService provides the account lifecycle operations.
type AccountService interface {
	// CreateAccount validates the input, hashes the password, and stores the account.
	CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.AccountView, error)

	// GetAccountByEmail returns the account with the given email.
	// Returns store.ErrAccountNotFound if there is none.
	GetAccountByEmail(ctx context.Context, email string) (*domain.AccountView, error)

	// UpdateAccountByEmail applies a partial update to the account with input.Email.
	UpdateAccountByEmail(ctx context.Context, input UpdateAccountInput) error

	// DeleteAccountByEmail removes the account and returns how many rows were deleted.
	DeleteAccountByEmail(ctx context.Context, email string) (int64, error)

	// VerifyCredentials reports whether password matches the stored digest.
	// An unknown email and a wrong password are indistinguishable to the caller.
	VerifyCredentials(ctx context.Context, email, password string) (bool, error)
}

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	pool      store.ConnPool
	accounts  store.AccountStore
	hasher    auth.PasswordHasher
	validator *validation.Validator
	logger    *slog.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

// Ensure AccountServiceImpl implements AccountService interface
var _ AccountService = (*AccountServiceImpl)(nil)

// NewAccountService creates a new AccountService.
func NewAccountService(
	pool store.ConnPool,
	accounts store.AccountStore,
	hasher auth.PasswordHasher,
	validator *validation.Validator,
	logger *slog.Logger,
) (*AccountServiceImpl, error) {
	if pool == nil {
		return nil, errors.New("pool cannot be nil")
	}
	if accounts == nil {
		return nil, errors.New("account store cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	if validator == nil {
		return nil, errors.New("validator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountServiceImpl{
		pool:      pool,
		accounts:  accounts,
		hasher:    hasher,
		validator: validator,
		logger:    logger.With(slog.String("component", "account_service")),
	}, nil
}

// CreateAccount implements AccountService.CreateAccount.
func (s *AccountServiceImpl) CreateAccount(
	ctx context.Context,
	input CreateAccountInput,
) (*domain.AccountView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input.Email = domain.NormalizeEmail(input.Email)
	if err := s.validator.Struct(&input); err != nil {
		return nil, err
	}

	digest, err := s.hash(input.Password)
	if err != nil {
		log.Error("failed to hash password for new account", slog.String("error", redact.Error(err)))
		return nil, err
	}

	account := domain.NewAccount(input.Name, input.Email, digest)
	err = s.pool.WithConn(ctx, func(ctx context.Context, conn store.DBTX) error {
		return s.accounts.Create(ctx, conn, account)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create account with existing email")
		} else {
			log.Error("failed to save account", slog.String("error", redact.Error(err)))
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info("account created successfully", slog.String("account_id", account.ID.String()))
	return account.View(), nil
}

// GetAccountByEmail implements AccountService.GetAccountByEmail.
func (s *AccountServiceImpl) GetAccountByEmail(ctx context.Context, email string) (*domain.AccountView, error) {
	email = domain.NormalizeEmail(email)
	if err := s.validator.Email(email); err != nil {
		return nil, err
	}

	var view *domain.AccountView
	err := s.pool.WithConn(ctx, func(ctx context.Context, conn store.DBTX) error {
		var err error
		view, err = s.accounts.FindByEmail(ctx, conn, email)
		return err
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve account by email",
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to retrieve account by email: %w", err)
	}
	if view == nil {
		return nil, store.ErrAccountNotFound
	}

	return view, nil
}

// UpdateAccountByEmail implements AccountService.UpdateAccountByEmail.
func (s *AccountServiceImpl) UpdateAccountByEmail(ctx context.Context, input UpdateAccountInput) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input.Email = domain.NormalizeEmail(input.Email)
	if input.NewEmail != nil {
		normalized := domain.NormalizeEmail(*input.NewEmail)
		input.NewEmail = &normalized
	}
	if err := s.validator.Struct(&input); err != nil {
		return err
	}
	if input.Name == nil && input.NewEmail == nil && input.Password == nil {
		return domain.NewValidationError("", ErrNothingToUpdate.Error(), ErrNothingToUpdate)
	}

	patch := domain.AccountPatch{Name: input.Name, Email: input.NewEmail}
	if input.Password != nil {
		digest, err := s.hash(*input.Password)
		if err != nil {
			log.Error("failed to hash new password", slog.String("error", redact.Error(err)))
			return err
		}
		patch.PasswordHash = &digest
	}

	err := s.pool.WithConn(ctx, func(ctx context.Context, conn store.DBTX) error {
		return s.accounts.UpdateByEmail(ctx, conn, input.Email, patch)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			log.Debug("account not found for update")
		case errors.Is(err, store.ErrEmailExists):
			log.Debug("attempted to rename account to an existing email")
		default:
			log.Error("failed to update account", slog.String("error", redact.Error(err)))
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	log.Info("account updated successfully",
		slog.Bool("name_changed", patch.Name != nil),
		slog.Bool("email_changed", patch.Email != nil),
		slog.Bool("password_changed", patch.PasswordHash != nil))
	return nil
}

// DeleteAccountByEmail implements AccountService.DeleteAccountByEmail.
func (s *AccountServiceImpl) DeleteAccountByEmail(ctx context.Context, email string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = domain.NormalizeEmail(email)
	if err := s.validator.Email(email); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.pool.WithConn(ctx, func(ctx context.Context, conn store.DBTX) error {
		var err error
		deleted, err = s.accounts.DeleteByEmail(ctx, conn, email)
		return err
	})
	if err != nil {
		log.Error("failed to delete account", slog.String("error", redact.Error(err)))
		return 0, fmt.Errorf("failed to delete account: %w", err)
	}

	log.Info("account delete completed", slog.Int64("deleted", deleted))
	return deleted, nil
}

// VerifyCredentials implements AccountService.VerifyCredentials.
// A digest made with outdated parameters is upgraded after a successful
// match; failures to upgrade are logged and do not affect the result.
func (s *AccountServiceImpl) VerifyCredentials(ctx context.Context, email, password string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input := verifyCredentialsInput{Email: domain.NormalizeEmail(email), Password: password}
	if err := s.validator.Struct(&input); err != nil {
		return false, err
	}

	var account *domain.Account
	err := s.pool.WithConn(ctx, func(ctx context.Context, conn store.DBTX) error {
		var err error
		account, err = s.accounts.FindCredentialsByEmail(ctx, conn, input.Email)
		return err
	})
	if err != nil {
		log.Error("failed to load credentials", slog.String("error", redact.Error(err)))
		return false, fmt.Errorf("failed to verify credentials: %w", err)
	}

	if account == nil {
		// Spend the same hashing work as a real check.
		if dummy := s.dummy(); dummy != "" {
			_, _ = s.hasher.Verify(password, dummy)
		}
		return false, nil
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		log.Warn("stored digest cannot be verified",
			slog.String("account_id", account.ID.String()),
			slog.String("error", err.Error()))
		return false, nil
	}
	if !ok {
		return false, nil
	}

	if s.hasher.NeedsRehash(account.PasswordHash) {
		s.rehash(ctx, account, password)
	}
	return true, nil
}

func (s *AccountServiceImpl) rehash(ctx context.Context, account *domain.Account, password string) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	digest, err := s.hasher.Hash(password)
	if err != nil {
		log.Warn("failed to rehash password", slog.String("error", redact.Error(err)))
		return
	}

	err = s.pool.WithConn(ctx, func(ctx context.Context, conn store.DBTX) error {
		return s.accounts.UpdateByEmail(ctx, conn, account.Email, domain.AccountPatch{PasswordHash: &digest})
	})
	if err != nil {
		log.Warn("failed to store upgraded digest",
			slog.String("account_id", account.ID.String()),
			slog.String("error", redact.Error(err)))
		return
	}

	log.Info("upgraded password digest parameters", slog.String("account_id", account.ID.String()))
}

// hash hashes password, guaranteeing that any non-validation failure wraps domain.ErrHashing.
func (s *AccountServiceImpl) hash(password string) (string, error) {
	digest, err := s.hasher.Hash(password)
	if err == nil {
		return digest, nil
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrHashing) {
		return "", err
	}
	return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
}

func (s *AccountServiceImpl) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("account-verification-placeholder")
		if err == nil {
			s.dummyDigest = digest
		}
	})
	return s.dummyDigest
}
