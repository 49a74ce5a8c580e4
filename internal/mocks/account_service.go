package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service"
)

// TestifyMockAccountService is a mock of service.AccountService for use with testify/mock
type TestifyMockAccountService struct {
	mock.Mock
}

// Ensure TestifyMockAccountService implements service.AccountService
var _ service.AccountService = (*TestifyMockAccountService)(nil)

// CreateAccount is a mock implementation of service.AccountService.CreateAccount
func (m *TestifyMockAccountService) CreateAccount(
	ctx context.Context,
	input service.CreateAccountInput,
) (*domain.AccountView, error) {
	args := m.Called(ctx, input)
	if view, ok := args.Get(0).(*domain.AccountView); ok {
		return view, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetAccountByEmail is a mock implementation of service.AccountService.GetAccountByEmail
func (m *TestifyMockAccountService) GetAccountByEmail(ctx context.Context, email string) (*domain.AccountView, error) {
	args := m.Called(ctx, email)
	if view, ok := args.Get(0).(*domain.AccountView); ok {
		return view, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateAccountByEmail is a mock implementation of service.AccountService.UpdateAccountByEmail
func (m *TestifyMockAccountService) UpdateAccountByEmail(ctx context.Context, input service.UpdateAccountInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// DeleteAccountByEmail is a mock implementation of service.AccountService.DeleteAccountByEmail
func (m *TestifyMockAccountService) DeleteAccountByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

// VerifyCredentials is a mock implementation of service.AccountService.VerifyCredentials
func (m *TestifyMockAccountService) VerifyCredentials(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}
