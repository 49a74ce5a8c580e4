package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that abstracts a single database connection.
// It is implemented by *pgx.Conn and pgx.Tx, allowing store code to run
// either directly on an acquired connection or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ConnFn is a unit of work executed on a borrowed connection.
type ConnFn func(ctx context.Context, conn DBTX) error

// ConnPool hands out connections for the duration of one unit of work.
// Implementations must release the connection on every exit path of fn,
// including errors and panics, and must bound how long WithConn waits for a
// free connection. A wait that runs out returns ErrStorageUnavailable.
type ConnPool interface {
	WithConn(ctx context.Context, fn ConnFn) error
}
