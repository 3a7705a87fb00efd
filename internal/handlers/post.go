package handlers

import (
	"net/http"

	"github.com/diewo77/devconnect/httpx"
	"github.com/diewo77/devconnect/internal/services"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

func NewPostHandler(posts *services.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	p, err := h.posts.Create(r.Context(), callerID(r), in)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// List handles GET /api/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, posts)
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), callerID(r), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Post removed")
}

// Like handles PUT /api/posts/like/{id}.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	likes, err := h.posts.Like(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, likes)
}

// Unlike handles PUT /api/posts/unlike/{id}.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	likes, err := h.posts.Unlike(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, likes)
}

// AddComment handles POST /api/posts/comment/{id}.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	comments, err := h.posts.AddComment(r.Context(), callerID(r), r.PathValue("id"), in)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
}

// DeleteComment handles DELETE /api/posts/comment/{post_id}/{comment_id}.
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	comments, err := h.posts.DeleteComment(r.Context(), callerID(r), r.PathValue("post_id"), r.PathValue("comment_id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
}
