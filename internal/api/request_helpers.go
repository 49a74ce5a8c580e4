package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/accounts-api/internal/api/shared"
)

var errMalformedBody = errors.New("malformed request body")

// decodeBody decodes the JSON body into v. Decoding problems other than an
// empty body are reported as errMalformedBody so the caller never echoes
// decoder output.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := shared.DecodeJSON(w, r, v)
	if err == nil || errors.Is(err, shared.ErrEmptyBody) {
		return err
	}
	return fmt.Errorf("%w: %w", errMalformedBody, err)
}

// emailFromRequest resolves the lookup email for read and delete requests.
// The "email" query parameter takes precedence over an EmailRequest body.
func emailFromRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	if email := r.URL.Query().Get("email"); email != "" {
		return email, nil
	}

	var req EmailRequest
	if err := decodeBody(w, r, &req); err != nil {
		return "", err
	}
	return req.Email, nil
}
