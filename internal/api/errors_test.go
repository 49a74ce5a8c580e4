package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", domain.NewValidationError("email", "is required", nil), http.StatusBadRequest},
		{"invalid email", domain.NewValidationError("email", "must be a valid email address", domain.ErrInvalidEmail), http.StatusBadRequest},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest},
		{"malformed body", fmt.Errorf("%w: eof", errMalformedBody), http.StatusBadRequest},
		{"not found", fmt.Errorf("failed: %w", store.ErrAccountNotFound), http.StatusNotFound},
		{"duplicate", fmt.Errorf("failed: %w", store.ErrEmailExists), http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unavailable", fmt.Errorf("failed: %w", store.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{"hashing", domain.ErrHashing, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage_NeverEchoesInternals(t *testing.T) {
	t.Parallel()

	secret := "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$a2V5"
	errs := []error{
		fmt.Errorf("insert failed for %s: %w", secret, store.ErrEmailExists),
		fmt.Errorf("dial postgres://admin:hunter2@db:5432/accounts: %w", store.ErrStorageUnavailable),
		fmt.Errorf("argon2 blew up on %q: %w", "hunter2", domain.ErrHashing),
		errors.New("SELECT password_hash FROM accounts WHERE email = 'a@example.com'"),
	}

	for _, err := range errs {
		msg := GetSafeErrorMessage(err)
		assert.NotContains(t, msg, secret)
		assert.NotContains(t, msg, "hunter2")
		assert.NotContains(t, msg, "a@example.com")
		assert.NotContains(t, msg, "SELECT")
	}
}

func TestGetSafeErrorMessage_Validation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Validation error: name is too long",
		GetSafeErrorMessage(domain.NewValidationError("name", "is too long", nil)))
	assert.Equal(t, "Validation error: at least one field must be updated",
		GetSafeErrorMessage(domain.NewValidationError("", "at least one field must be updated", nil)))
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req = req.WithContext(shared.WithTraceID(req.Context(), "trace-1234"))

	rec := httptest.NewRecorder()
	HandleAPIError(rec, req, errors.New("connection reset by 10.0.0.7"), "Failed to retrieve user")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to retrieve user","trace_id":"trace-1234"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	HandleAPIError(rec, req, store.ErrStorageUnavailable, "Failed to retrieve user")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service temporarily unavailable")
}
