package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/redact"
	"github.com/phrazzld/accounts-api/internal/store"
)

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
// It holds no connection itself; every call runs on the one it is given.
type PostgresAccountStore struct {
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(logger *slog.Logger) *PostgresAccountStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create.
// Writes run under a context detached from caller cancellation so that a
// statement, once issued, completes rather than tearing down the connection.
func (s *PostgresAccountStore) Create(ctx context.Context, conn store.DBTX, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO accounts (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := conn.Exec(
		context.WithoutCancel(ctx),
		query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already in use during account creation",
				slog.String("account_id", account.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create account",
			slog.String("error", redact.Error(err)),
			slog.String("account_id", account.ID.String()))
		return store.NewStoreError("account", "create", "insert failed", MapError(err))
	}

	log.Info("account created", slog.String("account_id", account.ID.String()))
	return nil
}

// FindByEmail implements store.AccountStore.FindByEmail.
func (s *PostgresAccountStore) FindByEmail(
	ctx context.Context,
	conn store.DBTX,
	email string,
) (*domain.AccountView, error) {
	account, err := s.findByEmail(ctx, conn, email, "find")
	if err != nil || account == nil {
		return nil, err
	}
	return account.View(), nil
}

// FindCredentialsByEmail implements store.AccountStore.FindCredentialsByEmail.
func (s *PostgresAccountStore) FindCredentialsByEmail(
	ctx context.Context,
	conn store.DBTX,
	email string,
) (*domain.Account, error) {
	return s.findByEmail(ctx, conn, email, "find_credentials")
}

func (s *PostgresAccountStore) findByEmail(
	ctx context.Context,
	conn store.DBTX,
	email string,
	operation string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`

	var account domain.Account
	err := conn.QueryRow(ctx, query, domain.NormalizeEmail(email)).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("account not found")
			return nil, nil
		}

		log.Error("failed to query account by email",
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("account", operation, "query failed", MapError(err))
	}

	return &account, nil
}

// UpdateByEmail implements store.AccountStore.UpdateByEmail.
func (s *PostgresAccountStore) UpdateByEmail(
	ctx context.Context,
	conn store.DBTX,
	email string,
	patch domain.AccountPatch,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx = context.WithoutCancel(ctx)

	err := store.RunInTransaction(ctx, conn, func(ctx context.Context, tx pgx.Tx) error {
		var id uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT id FROM accounts WHERE email = $1 FOR UPDATE`,
			domain.NormalizeEmail(email),
		).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				log.Debug("account not found for update")
				return store.ErrAccountNotFound
			}
			log.Error("failed to lock account for update",
				slog.String("error", redact.Error(err)))
			return store.NewStoreError("account", "update", "lookup failed", MapError(err))
		}

		if patch.IsEmpty() {
			return nil
		}

		query, args := buildUpdate(id, patch, time.Now().UTC())
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			if IsUniqueViolation(err) {
				log.Debug("email already in use during account update")
				return store.ErrEmailExists
			}
			log.Error("failed to update account",
				slog.String("error", redact.Error(err)))
			return store.NewStoreError("account", "update", "update failed", MapError(err))
		}

		log.Info("account updated", slog.String("account_id", id.String()))
		return nil
	})
	if err != nil && errors.Is(err, store.ErrTransactionFailed) {
		if mapped := MapError(err); errors.Is(mapped, store.ErrStorageUnavailable) {
			log.Error("connection lost during account update transaction",
				slog.String("error", redact.Error(err)))
			return store.NewStoreError("account", "update", "transaction failed", mapped)
		}
	}
	return err
}

// buildUpdate renders an UPDATE touching only the fields present in patch.
func buildUpdate(id uuid.UUID, patch domain.AccountPatch, now time.Time) (string, []any) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Email != nil {
		set("email", domain.NormalizeEmail(*patch.Email))
	}
	if patch.PasswordHash != nil {
		set("password_hash", *patch.PasswordHash)
	}
	set("updated_at", now)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args
}

// DeleteByEmail implements store.AccountStore.DeleteByEmail.
func (s *PostgresAccountStore) DeleteByEmail(ctx context.Context, conn store.DBTX, email string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tag, err := conn.Exec(
		context.WithoutCancel(ctx),
		`DELETE FROM accounts WHERE email = $1`,
		domain.NormalizeEmail(email),
	)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", redact.Error(err)))
		return 0, store.NewStoreError("account", "delete", "delete failed", MapError(err))
	}

	deleted := tag.RowsAffected()
	log.Info("account delete executed", slog.Int64("deleted", deleted))
	return deleted, nil
}
