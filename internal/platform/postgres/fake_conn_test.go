package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errFakeConn = errors.New("fake connection does not run statements")

// fakeConn is a Conn that only tracks liveness. Statements fail.
type fakeConn struct {
	id      int
	pingErr atomic.Pointer[error]
	closed  atomic.Bool
	pings   atomic.Int32
	onClose func()
}

func (c *fakeConn) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errFakeConn
}

func (c *fakeConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errFakeConn
}

func (c *fakeConn) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: errFakeConn}
}

func (c *fakeConn) Begin(context.Context) (pgx.Tx, error) {
	return nil, errFakeConn
}

func (c *fakeConn) Ping(ctx context.Context) error {
	c.pings.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	if errp := c.pingErr.Load(); errp != nil {
		return *errp
	}
	return nil
}

func (c *fakeConn) Close(context.Context) error {
	if c.closed.CompareAndSwap(false, true) && c.onClose != nil {
		c.onClose()
	}
	return nil
}

func (c *fakeConn) IsClosed() bool {
	return c.closed.Load()
}

// kill makes every later ping fail.
func (c *fakeConn) kill() {
	err := errors.New("connection reset by peer")
	c.pingErr.Store(&err)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// fakeDialer hands out fakeConns and records how many are open at once.
type fakeDialer struct {
	mu      sync.Mutex
	conns   []*fakeConn
	dialErr error

	open    atomic.Int32
	maxOpen atomic.Int32
}

func (d *fakeDialer) Dial(ctx context.Context) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dialErr != nil {
		return nil, d.dialErr
	}

	n := d.open.Add(1)
	for {
		m := d.maxOpen.Load()
		if n <= m || d.maxOpen.CompareAndSwap(m, n) {
			break
		}
	}

	conn := &fakeConn{id: len(d.conns) + 1, onClose: func() { d.open.Add(-1) }}
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) dialed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *fakeDialer) conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}
