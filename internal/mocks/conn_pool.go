package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/accounts-api/internal/store"
)

// MockConnPool implements store.ConnPool for testing.
// By default it runs fn with a nil connection, which suits stores that are
// themselves mocks.
type MockConnPool struct {
	// Conn is handed to every unit of work.
	Conn store.DBTX

	// AcquireError, when set, is returned without running fn.
	AcquireError error

	// WithConnFn overrides the default behavior entirely.
	WithConnFn func(ctx context.Context, fn store.ConnFn) error

	acquired atomic.Int64
	released atomic.Int64
}

// Ensure MockConnPool implements store.ConnPool
var _ store.ConnPool = (*MockConnPool)(nil)

// WithConn implements the ConnPool interface
func (m *MockConnPool) WithConn(ctx context.Context, fn store.ConnFn) error {
	if m.WithConnFn != nil {
		return m.WithConnFn(ctx, fn)
	}
	if m.AcquireError != nil {
		return m.AcquireError
	}

	m.acquired.Add(1)
	defer m.released.Add(1)
	return fn(ctx, m.Conn)
}

// Acquired returns how many connections were handed out.
func (m *MockConnPool) Acquired() int64 {
	return m.acquired.Load()
}

// Outstanding returns how many handed-out connections have not been released.
func (m *MockConnPool) Outstanding() int64 {
	return m.acquired.Load() - m.released.Load()
}
