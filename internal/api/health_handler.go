package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/store"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

var errNoPinger = errors.New("no storage pinger configured")

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	pinger  Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A zero timeout defaults to two seconds.
func NewHealthHandler(pinger Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{pinger: pinger, timeout: timeout}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var err error
	if h.pinger == nil {
		err = errNoPinger
	} else {
		err = h.pinger.Ping(ctx)
	}
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: health check: %w", store.ErrStorageUnavailable, err), "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
