package handlers

import (
	"net/http"

	"github.com/diewo77/devconnect/httpx"
	"github.com/diewo77/devconnect/internal/services"
	"go.uber.org/zap"
)

// TokenResponse is returned by login and registration.
type TokenResponse struct {
	Token string `json:"token"`
}

type AuthHandler struct {
	svc *services.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Me handles GET /api/auth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.CurrentUser(r.Context(), callerID(r))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

// Login handles POST /api/auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	token, err := h.svc.Login(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Register handles POST /api/users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	token, err := h.svc.Register(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, TokenResponse{Token: token})
}
