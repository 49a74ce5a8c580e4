package mocks

import "sync/atomic"

// MockPasswordHasher implements auth.PasswordHasher for testing.
// The default digest is "hashed:" followed by the password; a stored digest
// without that prefix never matches.
type MockPasswordHasher struct {
	HashFn        func(password string) (string, error)
	VerifyFn      func(password, digest string) (bool, error)
	NeedsRehashFn func(digest string) bool

	// HashCallCount tracks how many times Hash was called
	HashCallCount atomic.Int64

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount atomic.Int64
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount.Add(1)
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(password, digest string) (bool, error) {
	m.VerifyCallCount.Add(1)
	if m.VerifyFn != nil {
		return m.VerifyFn(password, digest)
	}
	return digest == "hashed:"+password, nil
}

// NeedsRehash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) NeedsRehash(digest string) bool {
	if m.NeedsRehashFn != nil {
		return m.NeedsRehashFn(digest)
	}
	return false
}
