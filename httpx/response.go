package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/devconnect/internal/apperr"
	"go.uber.org/zap"
)

// MessageResponse is the body used for single-message errors and acknowledgements.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// ErrorsResponse is the body used for validation and credential failures.
type ErrorsResponse struct {
	Errors []apperr.FieldError `json:"errors"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			ServerError(w)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

// Message writes {"msg": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageResponse{Msg: msg})
}

// ServerError writes the generic plain-text 500 response.
func ServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte("Server error"))
}

// StatusFor returns the HTTP status used for an error kind.
func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindInvalidCredentials,
		apperr.KindInvalidIdentifier, apperr.KindAlreadyLiked, apperr.KindNotLiked:
		return http.StatusBadRequest
	case apperr.KindUnauthorized, apperr.KindForbidden:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps err to a response. Unknown errors become a plain-text 500
// and are logged; nothing from their cause reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	e := apperr.As(err)
	status := StatusFor(e.Kind)
	switch {
	case status == http.StatusInternalServerError:
		if log != nil {
			log.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		ServerError(w)
	case e.Kind == apperr.KindValidation:
		JSON(w, status, ErrorsResponse{Errors: e.Fields})
	case e.Kind == apperr.KindInvalidCredentials:
		JSON(w, status, ErrorsResponse{Errors: []apperr.FieldError{{Msg: e.Message}}})
	default:
		if log != nil && e.Kind == apperr.KindConflict {
			log.Warn("write conflict", zap.String("path", r.URL.Path), zap.Error(err))
		}
		Message(w, status, e.Message)
	}
}
