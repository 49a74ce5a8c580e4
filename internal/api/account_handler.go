package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service"
)

// AccountHandler handles the /user resource.
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts service.AccountService, log *slog.Logger) *AccountHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AccountHandler{
		accounts: accounts,
		logger:   log.With(slog.String("component", "account_handler")),
	}
}

// Routes registers the account endpoints on r.
func (h *AccountHandler) Routes(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Get("/", h.GetAccount)
		r.Put("/", h.UpdateAccount)
		r.Delete("/", h.DeleteAccount)
		r.Post("/verify", h.VerifyCredentials)
	})
}

// CreateAccount handles POST /user.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeBody(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	view, err := h.accounts.CreateAccount(r.Context(), service.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateAccountResponse{
		Message: "User created",
		ID:      view.ID,
	})
}

// GetAccount handles GET /user.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	email, err := emailFromRequest(w, r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	view, err := h.accounts.GetAccountByEmail(r.Context(), email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(view))
}

// UpdateAccount handles PUT /user.
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req UpdateAccountRequest
	if err := decodeBody(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	err := h.accounts.UpdateAccountByEmail(r.Context(), service.UpdateAccountInput{
		Email:    req.Email,
		Name:     req.Name,
		NewEmail: req.NewEmail,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "User updated"})
}

// DeleteAccount handles DELETE /user.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	email, err := emailFromRequest(w, r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	deleted, err := h.accounts.DeleteAccountByEmail(r.Context(), email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}
	if deleted == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteAccountResponse{
		Message: "User deleted",
		Deleted: deleted,
	})
}

// VerifyCredentials handles POST /user/verify.
// A mismatch is a normal 200 answer, not an error.
func (h *AccountHandler) VerifyCredentials(w http.ResponseWriter, r *http.Request) {
	var req VerifyCredentialsRequest
	if err := decodeBody(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	valid, err := h.accounts.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to verify credentials")
		return
	}

	if !valid {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("credential verification failed")
	}
	shared.RespondWithJSON(w, r, http.StatusOK, VerifyCredentialsResponse{Valid: valid})
}
