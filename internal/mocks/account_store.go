package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
)

// MockAccountStore implements store.AccountStore for testing.
// Without Fn overrides it behaves like a real store backed by a map keyed by email.
type MockAccountStore struct {
	// Function fields for customizable behavior
	CreateFn                 func(ctx context.Context, conn store.DBTX, account *domain.Account) error
	FindByEmailFn            func(ctx context.Context, conn store.DBTX, email string) (*domain.AccountView, error)
	FindCredentialsByEmailFn func(ctx context.Context, conn store.DBTX, email string) (*domain.Account, error)
	UpdateByEmailFn          func(ctx context.Context, conn store.DBTX, email string, patch domain.AccountPatch) error
	DeleteByEmailFn          func(ctx context.Context, conn store.DBTX, email string) (int64, error)

	// Errors returned by the default implementation when set
	CreateError error
	FindError   error
	UpdateError error
	DeleteError error

	mu       sync.Mutex
	accounts map[string]*domain.Account
	calls    int
}

// Ensure MockAccountStore implements store.AccountStore
var _ store.AccountStore = (*MockAccountStore)(nil)

// NewMockAccountStore creates a new mock store with initialized defaults
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[string]*domain.Account),
	}
}

// Calls returns the number of store methods invoked so far.
func (m *MockAccountStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Len returns the number of stored accounts.
func (m *MockAccountStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

// Get returns a copy of the stored account with the given email, digest included.
func (m *MockAccountStore) Get(email string) (domain.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return domain.Account{}, false
	}
	return *a, true
}

// Put stores a copy of account directly, bypassing Create.
func (m *MockAccountStore) Put(account domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Email] = &account
}

func (m *MockAccountStore) record() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

// Create implements the AccountStore interface
func (m *MockAccountStore) Create(ctx context.Context, conn store.DBTX, account *domain.Account) error {
	m.record()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, conn, account)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[account.Email]; exists {
		return store.ErrEmailExists
	}
	stored := *account
	m.accounts[account.Email] = &stored
	return nil
}

// FindByEmail implements the AccountStore interface
func (m *MockAccountStore) FindByEmail(ctx context.Context, conn store.DBTX, email string) (*domain.AccountView, error) {
	m.record()
	if m.FindByEmailFn != nil {
		return m.FindByEmailFn(ctx, conn, email)
	}
	if m.FindError != nil {
		return nil, m.FindError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return nil, nil
	}
	return a.View(), nil
}

// FindCredentialsByEmail implements the AccountStore interface
func (m *MockAccountStore) FindCredentialsByEmail(
	ctx context.Context,
	conn store.DBTX,
	email string,
) (*domain.Account, error) {
	m.record()
	if m.FindCredentialsByEmailFn != nil {
		return m.FindCredentialsByEmailFn(ctx, conn, email)
	}
	if m.FindError != nil {
		return nil, m.FindError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

// UpdateByEmail implements the AccountStore interface
func (m *MockAccountStore) UpdateByEmail(
	ctx context.Context,
	conn store.DBTX,
	email string,
	patch domain.AccountPatch,
) error {
	m.record()
	if m.UpdateByEmailFn != nil {
		return m.UpdateByEmailFn(ctx, conn, email, patch)
	}
	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return store.ErrAccountNotFound
	}
	if patch.Email != nil && *patch.Email != email {
		if _, taken := m.accounts[*patch.Email]; taken {
			return store.ErrEmailExists
		}
	}
	if patch.IsEmpty() {
		return nil
	}

	updated := *a
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		updated.PasswordHash = *patch.PasswordHash
	}
	updated.UpdatedAt = time.Now().UTC()

	delete(m.accounts, email)
	m.accounts[updated.Email] = &updated
	return nil
}

// DeleteByEmail implements the AccountStore interface
func (m *MockAccountStore) DeleteByEmail(ctx context.Context, conn store.DBTX, email string) (int64, error) {
	m.record()
	if m.DeleteByEmailFn != nil {
		return m.DeleteByEmailFn(ctx, conn, email)
	}
	if m.DeleteError != nil {
		return 0, m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[email]; !ok {
		return 0, nil
	}
	delete(m.accounts, email)
	return 1, nil
}
