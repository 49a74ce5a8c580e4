// Package mocks provides centralized mock implementations for testing.
//
// Two styles live here. Function-field mocks (MockAccountStore, MockConnPool,
// MockPasswordHasher) run a working default behavior unless a Fn field
// overrides it. Testify mocks (TestifyMockAccountService) record calls and
// return programmed values through github.com/stretchr/testify/mock.
//
// Usage:
//
//	accounts := mocks.NewMockAccountStore()
//	pool := &mocks.MockConnPool{}
//	svc, err := service.NewAccountService(pool, accounts, hasher, validator, nil)
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
