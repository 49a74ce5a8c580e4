package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/accounts-api/internal/api"
	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/validation"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	pool     *postgres.Pool
	registry *prometheus.Registry

	accountService service.AccountService
}

// newApplication dials the database and wires every component.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	pool, err := setupPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	app, err := assembleApplication(cfg, log, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return app, nil
}

// assembleApplication wires the components on top of an existing pool.
func assembleApplication(cfg *config.Config, log *slog.Logger, pool *postgres.Pool) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   log,
		pool:     pool,
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := app.registry.Register(postgres.NewPoolCollector(pool)); err != nil {
		return nil, fmt.Errorf("failed to register pool metrics: %w", err)
	}

	hasher, err := auth.NewArgon2idHasher(hasherParams(cfg.Hashing))
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	app.accountService, err = service.NewAccountService(
		pool,
		postgres.NewPostgresAccountStore(log),
		hasher,
		validation.New(),
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	log.Info("application initialized successfully")
	return app, nil
}

// hasherParams converts configured argon2id costs into hasher parameters.
func hasherParams(cfg config.HashingConfig) auth.Params {
	return auth.Params{
		Time:       cfg.Time,
		MemoryKiB:  cfg.MemoryKiB,
		Threads:    cfg.Threads,
		SaltLength: auth.DefaultSaltLength,
		KeyLength:  auth.DefaultKeyLength,
	}
}

// router builds the HTTP handler for the application.
func (app *application) router() (http.Handler, error) {
	return api.NewRouter(api.RouterConfig{
		Accounts:   app.accountService,
		Pinger:     app.pool,
		Logger:     app.logger,
		Registerer: app.registry,
		Gatherer:   app.registry,
	})
}

// Run serves HTTP until ctx is canceled, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	handler, err := app.router()
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	if err := app.startHTTPServer(ctx, handler); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.pool != nil {
		app.pool.Close()
	}
	app.logger.Info("application shutdown completed")
}
