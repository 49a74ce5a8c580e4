package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apiMiddleware "github.com/phrazzld/accounts-api/internal/api/middleware"
	"github.com/phrazzld/accounts-api/internal/service"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Accounts service.AccountService
	Pinger   Pinger
	Logger   *slog.Logger

	// Registerer receives the HTTP collectors; Gatherer backs /metrics.
	// Both default to a fresh private registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	if cfg.Accounts == nil {
		return nil, errors.New("account service cannot be nil")
	}
	if cfg.Pinger == nil {
		return nil, errors.New("pinger cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registerer == nil || cfg.Gatherer == nil {
		reg := prometheus.NewRegistry()
		cfg.Registerer, cfg.Gatherer = reg, reg
	}

	httpMetrics, err := apiMiddleware.NewHTTPMetrics(cfg.Registerer)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(httpMetrics.Middleware)

	NewAccountHandler(cfg.Accounts, cfg.Logger).Routes(r)

	r.Method(http.MethodGet, "/health", NewHealthHandler(cfg.Pinger, 0))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	return r, nil
}
