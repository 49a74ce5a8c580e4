package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/puddle/v2"

	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

// closeTimeout bounds how long tearing down a single connection may take.
const closeTimeout = 5 * time.Second

// Conn is a single pooled database connection.
// *pgx.Conn satisfies it.
type Conn interface {
	store.DBTX
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	IsClosed() bool
}

// Dialer opens new connections for the pool.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Conn, error)

// Dial calls f(ctx).
func (f DialerFunc) Dial(ctx context.Context) (Conn, error) {
	return f(ctx)
}

// PgxDialer returns a Dialer that opens pgx connections with cfg.
func PgxDialer(cfg *pgx.ConnConfig) Dialer {
	return DialerFunc(func(ctx context.Context) (Conn, error) {
		conn, err := pgx.ConnectConfig(ctx, cfg.Copy())
		if err != nil {
			return nil, err
		}
		return conn, nil
	})
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	// MaxConns is the hard upper bound on open connections.
	MaxConns int32
	// AcquireTimeout bounds each wait for a free connection.
	AcquireTimeout time.Duration
	// Logger receives pool diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Pool is a bounded set of reusable connections. At most MaxConns
// connections are open at any time; waiters block until one is released or
// AcquireTimeout elapses. Every checkout pings the connection and replaces
// it if the ping fails. Pool is safe for concurrent use.
type Pool struct {
	pool           *puddle.Pool[Conn]
	acquireTimeout time.Duration
	logger         *slog.Logger

	livenessFailures atomic.Int64
	acquireTimeouts  atomic.Int64
}

// Ensure Pool implements store.ConnPool interface
var _ store.ConnPool = (*Pool)(nil)

// NewPool creates a pool that opens connections through dialer.
// No connection is opened until the first acquisition.
func NewPool(dialer Dialer, cfg PoolConfig) (*Pool, error) {
	if dialer == nil {
		return nil, errors.New("dialer cannot be nil")
	}
	if cfg.MaxConns <= 0 {
		return nil, fmt.Errorf("max conns must be positive, got %d", cfg.MaxConns)
	}
	if cfg.AcquireTimeout <= 0 {
		return nil, fmt.Errorf("acquire timeout must be positive, got %s", cfg.AcquireTimeout)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "db_pool"))

	p, err := puddle.NewPool(&puddle.Config[Conn]{
		Constructor: func(ctx context.Context) (Conn, error) {
			return dialer.Dial(ctx)
		},
		Destructor: func(conn Conn) {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			if err := conn.Close(ctx); err != nil {
				log.Debug("error closing connection", slog.Any("error", err))
			}
		},
		MaxSize: cfg.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	return &Pool{
		pool:           p,
		acquireTimeout: cfg.AcquireTimeout,
		logger:         log,
	}, nil
}

// Lease is a connection checked out of the pool.
// Release must be called exactly once the caller is done; further calls are no-ops.
type Lease struct {
	res  *puddle.Resource[Conn]
	once sync.Once
}

// Conn returns the leased connection.
func (l *Lease) Conn() Conn {
	return l.res.Value()
}

// Release returns the connection to the pool. A connection that was closed
// while leased is destroyed instead of being reused.
func (l *Lease) Release() {
	l.once.Do(func() {
		if l.res.Value().IsClosed() {
			l.res.Destroy()
			return
		}
		l.res.Release()
	})
}

func (l *Lease) destroy() {
	l.once.Do(l.res.Destroy)
}

// Acquire checks out a live connection. It blocks until one is available,
// the pool's acquire timeout elapses, or ctx is done. Every failure wraps
// store.ErrStorageUnavailable.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	for {
		res, err := p.pool.Acquire(ctx)
		if err != nil {
			return nil, p.acquireError(ctx, err)
		}

		if err := res.Value().Ping(ctx); err != nil {
			p.livenessFailures.Add(1)
			p.logger.Warn("discarding connection that failed liveness check",
				slog.Any("error", err))
			res.Destroy()
			continue
		}

		return &Lease{res: res}, nil
	}
}

func (p *Pool) acquireError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, puddle.ErrClosedPool):
		return fmt.Errorf("%w: pool is closed", store.ErrStorageUnavailable)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		p.acquireTimeouts.Add(1)
		p.logger.Warn("timed out waiting for a database connection",
			slog.Duration("acquire_timeout", p.acquireTimeout))
		return fmt.Errorf("%w: timed out waiting for connection: %w", store.ErrStorageUnavailable, err)
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	default:
		p.logger.Error("failed to open database connection", slog.Any("error", err))
		return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}
}

// WithConn acquires a connection, runs fn with it, and releases it on every
// exit path. A panic in fn destroys the connection, since its protocol state
// is unknown, and is then re-raised.
func (p *Pool) WithConn(ctx context.Context, fn store.ConnFn) error {
	lease, err := p.Acquire(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			logger.FromContextOrDefault(ctx, p.logger).Error("panic while holding connection",
				slog.Any("panic", r))
			lease.destroy()
			panic(r)
		}
		lease.Release()
	}()

	return fn(ctx, lease.Conn())
}

// Ping checks that a live connection can be obtained.
func (p *Pool) Ping(ctx context.Context) error {
	return p.WithConn(ctx, func(context.Context, store.DBTX) error { return nil })
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	AcquiredConns        int32
	IdleConns            int32
	TotalConns           int32
	MaxConns             int32
	AcquireCount         int64
	AcquireDuration      time.Duration
	CanceledAcquireCount int64
	EmptyAcquireCount    int64
	LivenessFailures     int64
	AcquireTimeouts      int64
}

// Stat returns a snapshot of the pool's counters.
func (p *Pool) Stat() PoolStats {
	s := p.pool.Stat()
	return PoolStats{
		AcquiredConns:        s.AcquiredResources(),
		IdleConns:            s.IdleResources(),
		TotalConns:           s.TotalResources(),
		MaxConns:             s.MaxResources(),
		AcquireCount:         s.AcquireCount(),
		AcquireDuration:      s.AcquireDuration(),
		CanceledAcquireCount: s.CanceledAcquireCount(),
		EmptyAcquireCount:    s.EmptyAcquireCount(),
		LivenessFailures:     p.livenessFailures.Load(),
		AcquireTimeouts:      p.acquireTimeouts.Load(),
	}
}

// Close closes idle connections and blocks until every leased connection
// has been released and closed. Acquisitions after Close fail.
func (p *Pool) Close() {
	p.pool.Close()
}
