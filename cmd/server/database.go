package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"

	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
)

// connectRetryBase is the first delay of the startup ping backoff.
const connectRetryBase = 250 * time.Millisecond

type pinger interface {
	Ping(ctx context.Context) error
}

// setupPool builds the connection pool and waits until the database answers.
func setupPool(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*postgres.Pool, error) {
	connCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	pool, err := postgres.NewPool(postgres.PgxDialer(connCfg), postgres.PoolConfig{
		MaxConns:       cfg.MaxConns,
		AcquireTimeout: cfg.AcquireTimeout,
		Logger:         log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := waitForDatabase(ctx, pool, cfg.ConnectRetries, connectRetryBase, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("database connection established",
		slog.String("host", connCfg.Host),
		slog.Int("max_conns", int(cfg.MaxConns)))
	return pool, nil
}

// waitForDatabase pings db with exponential backoff, giving up after
// retries additional attempts.
func waitForDatabase(ctx context.Context, db pinger, retries uint64, base time.Duration, log *slog.Logger) error {
	attempt := 0
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(base))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := db.Ping(ctx); err != nil {
			log.Warn("database not reachable yet",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reach database after %d attempts: %w", attempt, err)
	}
	return nil
}
