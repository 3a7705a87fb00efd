package handlers

import (
	"net/http"

	"github.com/diewo77/devconnect/httpx"
	"github.com/diewo77/devconnect/internal/services"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles *services.ProfileService
	accounts *services.AccountService
	log      *zap.Logger
}

func NewProfileHandler(profiles *services.ProfileService, accounts *services.AccountService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts, log: log}
}

// Me handles GET /api/profile/me.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Me(r.Context(), callerID(r))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// List handles GET /api/profile.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profiles)
}

// ByUser handles GET /api/profile/user/{id}.
func (h *ProfileHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.ByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Upsert handles POST /api/profile.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	p, _, err := h.profiles.Upsert(r.Context(), callerID(r), in)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// DeleteAccount handles DELETE /api/profile.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Delete(r.Context(), callerID(r)); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.Message(w, http.StatusOK, "User deleted")
}

// AddExperience handles PUT /api/profile/experience.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var in services.ExperienceInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	p, err := h.profiles.AddExperience(r.Context(), callerID(r), in)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// RemoveExperience handles DELETE /api/profile/experience/{id}.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.RemoveExperience(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// AddEducation handles PUT /api/profile/education.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var in services.EducationInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	p, err := h.profiles.AddEducation(r.Context(), callerID(r), in)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// RemoveEducation handles DELETE /api/profile/education/{id}.
func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.RemoveEducation(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
