// Package handlers exposes the services over JSON HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/diewo77/devconnect/auth"
	"github.com/diewo77/devconnect/internal/apperr"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched so field validation reports what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation(apperr.FieldError{Msg: "Request body too large", Location: "body"})
		}
		return apperr.Validation(apperr.FieldError{Msg: "Invalid JSON body", Location: "body"})
	}
}

// callerID returns the authenticated user id put in the context by the guard.
func callerID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
