package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/accounts-api/internal/api"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/mocks"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/store"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, svc service.AccountService, pinger api.Pinger) (http.Handler, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.NewTestLogger(t)
	if pinger == nil {
		pinger = stubPinger{}
	}
	h, err := api.NewRouter(api.RouterConfig{Accounts: svc, Pinger: pinger, Logger: log})
	require.NoError(t, err)
	return h, buf
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body == "" {
		req.Body = http.NoBody
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateAccountEndpoint(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(m *mocks.TestifyMockAccountService)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: `{"name":"Alice","email":"alice@example.com","password":"pw"}`,
			setup: func(m *mocks.TestifyMockAccountService) {
				m.On("CreateAccount", mock.Anything, service.CreateAccountInput{
					Name: "Alice", Email: "alice@example.com", Password: "pw",
				}).Return(&domain.AccountView{ID: id, Name: "Alice", Email: "alice@example.com"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "validation failure",
			body: `{"name":"Alice","email":"not-an-email","password":"pw"}`,
			setup: func(m *mocks.TestifyMockAccountService) {
				m.On("CreateAccount", mock.Anything, mock.Anything).
					Return(nil, domain.NewValidationError("email", "must be a valid email address", domain.ErrInvalidEmail))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error: email must be a valid email address",
		},
		{
			name: "duplicate",
			body: `{"name":"Alice","email":"alice@example.com","password":"pw"}`,
			setup: func(m *mocks.TestifyMockAccountService) {
				m.On("CreateAccount", mock.Anything, mock.Anything).
					Return(nil, store.ErrEmailExists)
			},
			wantStatus: http.StatusConflict,
			wantError:  "Email already exists",
		},
		{
			name: "storage unavailable",
			body: `{"name":"Alice","email":"alice@example.com","password":"pw"}`,
			setup: func(m *mocks.TestifyMockAccountService) {
				m.On("CreateAccount", mock.Anything, mock.Anything).
					Return(nil, store.ErrStorageUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Service temporarily unavailable",
		},
		{
			name: "hashing failure",
			body: `{"name":"Alice","email":"alice@example.com","password":"pw"}`,
			setup: func(m *mocks.TestifyMockAccountService) {
				m.On("CreateAccount", mock.Anything, mock.Anything).
					Return(nil, domain.ErrHashing)
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to create user",
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			setup:      func(*mocks.TestifyMockAccountService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "unknown field",
			body:       `{"name":"A","email":"a@example.com","password":"pw","admin":true}`,
			setup:      func(*mocks.TestifyMockAccountService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "empty body",
			body:       "",
			setup:      func(*mocks.TestifyMockAccountService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Request body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.TestifyMockAccountService{}
			tt.setup(svc)
			h, _ := newTestRouter(t, svc, nil)

			rec := doRequest(t, h, http.MethodPost, "/user", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantError != "" {
				body := decodeError(t, rec)
				assert.Equal(t, tt.wantError, body["error"])
				assert.NotEmpty(t, body["trace_id"])
				assert.Equal(t, rec.Header().Get("X-Trace-ID"), body["trace_id"])
			} else {
				var resp api.CreateAccountResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, id, resp.ID)
				assert.NotEmpty(t, resp.Message)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGetAccountEndpoint(t *testing.T) {
	t.Parallel()

	view := &domain.AccountView{
		ID:        uuid.New(),
		Name:      "Alice",
		Email:     "alice@example.com",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("found via body", func(t *testing.T) {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(view, nil)
		h, _ := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodGet, "/user", `{"email":"alice@example.com"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, view.ID.String(), resp["id"])
		assert.Equal(t, "Alice", resp["name"])
		assert.Equal(t, "alice@example.com", resp["email"])
		assert.NotContains(t, resp, "password_hash")
		assert.NotContains(t, resp, "password")
		svc.AssertExpectations(t)
	})

	t.Run("found via query", func(t *testing.T) {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(view, nil)
		h, _ := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodGet, "/user?email=alice@example.com", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("GetAccountByEmail", mock.Anything, "ghost@example.com").Return(nil, store.ErrAccountNotFound)
		h, _ := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodGet, "/user", `{"email":"ghost@example.com"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decodeError(t, rec)["error"])
	})

	t.Run("malformed email", func(t *testing.T) {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("GetAccountByEmail", mock.Anything, "nope").
			Return(nil, domain.NewValidationError("email", "must be a valid email address", domain.ErrInvalidEmail))
		h, _ := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodGet, "/user", `{"email":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateAccountEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("updated", func(t *testing.T) {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("UpdateAccountByEmail", mock.Anything, mock.MatchedBy(func(in service.UpdateAccountInput) bool {
			return in.Email == "alice@example.com" && in.Name != nil && *in.Name == "Alicia" &&
				in.NewEmail == nil && in.Password == nil
		})).Return(nil)
		h, _ := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodPut, "/user", `{"email":"alice@example.com","name":"Alicia"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", store.ErrAccountNotFound, http.StatusNotFound},
		{"duplicate", store.ErrEmailExists, http.StatusConflict},
		{"nothing to update", domain.NewValidationError("", service.ErrNothingToUpdate.Error(), service.ErrNothingToUpdate), http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.TestifyMockAccountService{}
			svc.On("UpdateAccountByEmail", mock.Anything, mock.Anything).Return(tt.err)
			h, _ := newTestRouter(t, svc, nil)

			rec := doRequest(t, h, http.MethodPut, "/user", `{"email":"alice@example.com","password":"new"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestDeleteAccountEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("deleted", func(t *testing.T) {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("DeleteAccountByEmail", mock.Anything, "alice@example.com").Return(int64(1), nil)
		h, _ := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodDelete, "/user", `{"email":"alice@example.com"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.DeleteAccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.Deleted)
	})

	t.Run("nothing deleted", func(t *testing.T) {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("DeleteAccountByEmail", mock.Anything, "ghost@example.com").Return(int64(0), nil)
		h, _ := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodDelete, "/user", `{"email":"ghost@example.com"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestVerifyCredentialsEndpoint(t *testing.T) {
	t.Parallel()

	for _, valid := range []bool{true, false} {
		svc := &mocks.TestifyMockAccountService{}
		svc.On("VerifyCredentials", mock.Anything, "alice@example.com", "pw").Return(valid, nil)
		h, logs := newTestRouter(t, svc, nil)

		rec := doRequest(t, h, http.MethodPost, "/user/verify", `{"email":"alice@example.com","password":"pw"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.VerifyCredentialsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, valid, resp.Valid)
		assert.NotContains(t, logs.String(), `"pw"`)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, &mocks.TestifyMockAccountService{}, stubPinger{})
	rec := doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	h, _ = newTestRouter(t, &mocks.TestifyMockAccountService{}, stubPinger{err: store.ErrStorageUnavailable})
	rec = doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	svc := &mocks.TestifyMockAccountService{}
	svc.On("GetAccountByEmail", mock.Anything, "ghost@example.com").Return(nil, store.ErrAccountNotFound)
	h, _ := newTestRouter(t, svc, nil)

	doRequest(t, h, http.MethodGet, "/user?email=ghost@example.com", "")
	rec := doRequest(t, h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "accounts_api_http_requests_total"))
	assert.Contains(t, body, `status="404"`)
	assert.NotContains(t, body, "ghost@example.com")
}
