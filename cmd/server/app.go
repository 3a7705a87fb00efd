package main

import (
	"net/http"

	"github.com/diewo77/devconnect/internal/handlers"
	"github.com/diewo77/devconnect/internal/logging"
	"github.com/diewo77/devconnect/internal/metrics"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *RouterConfig
	handler   http.Handler
}

// NewApp creates a new application with all routes configured. With
// withMetrics set, requests are instrumented and /metrics is served.
func NewApp(routerCfg *RouterConfig, withMetrics bool) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.setupRoutes(withMetrics)

	var h http.Handler = app.mux
	if withMetrics {
		h = metrics.InstrumentHandler(h)
	}
	app.handler = logging.Middleware(routerCfg.Log)(h)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes(withMetrics bool) {
	// ─────────────────────────────────────────────────────────────────────────
	// Operational
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /healthz", handlers.Health(a.routerCfg.Store, a.routerCfg.Log))
	if withMetrics {
		a.mux.Handle("GET /metrics", metrics.Handler())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Auth and registration
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.mux.Handle("GET /api/auth", a.requireAuth(ah.Me))
	a.mux.HandleFunc("POST /api/auth", ah.Login)
	a.mux.HandleFunc("POST /api/users", ah.Register)

	// ─────────────────────────────────────────────────────────────────────────
	// Profiles (list and by-user are public)
	// ─────────────────────────────────────────────────────────────────────────
	ph := a.routerCfg.ProfileHandler

	a.mux.Handle("GET /api/profile/me", a.requireAuth(ph.Me))
	a.handleCollection("GET /api/profile", http.HandlerFunc(ph.List))
	a.mux.HandleFunc("GET /api/profile/user/{id}", ph.ByUser)
	a.handleCollection("POST /api/profile", a.requireAuth(ph.Upsert))
	a.handleCollection("DELETE /api/profile", a.requireAuth(ph.DeleteAccount))
	a.mux.Handle("PUT /api/profile/experience", a.requireAuth(ph.AddExperience))
	a.mux.Handle("DELETE /api/profile/experience/{id}", a.requireAuth(ph.RemoveExperience))
	a.mux.Handle("PUT /api/profile/education", a.requireAuth(ph.AddEducation))
	a.mux.Handle("DELETE /api/profile/education/{id}", a.requireAuth(ph.RemoveEducation))

	// ─────────────────────────────────────────────────────────────────────────
	// Posts (all require a logged-in user)
	// ─────────────────────────────────────────────────────────────────────────
	pth := a.routerCfg.PostHandler

	a.handleCollection("POST /api/posts", a.requireAuth(pth.Create))
	a.handleCollection("GET /api/posts", a.requireAuth(pth.List))
	a.mux.Handle("GET /api/posts/{id}", a.requireAuth(pth.Get))
	a.mux.Handle("DELETE /api/posts/{id}", a.requireAuth(pth.Delete))
	a.mux.Handle("PUT /api/posts/like/{id}", a.requireAuth(pth.Like))
	a.mux.Handle("PUT /api/posts/unlike/{id}", a.requireAuth(pth.Unlike))
	a.mux.Handle("POST /api/posts/comment/{id}", a.requireAuth(pth.AddComment))
	a.mux.Handle("DELETE /api/posts/comment/{post_id}/{comment_id}", a.requireAuth(pth.DeleteComment))
}

// handleCollection registers pattern and its trailing-slash form.
func (a *App) handleCollection(pattern string, h http.Handler) {
	a.mux.Handle(pattern, h)
	a.mux.Handle(pattern+"/{$}", h)
}

// requireAuth wraps a handler to require a valid bearer token.
func (a *App) requireAuth(next http.HandlerFunc) http.Handler {
	return a.routerCfg.Guard.RequireAuthFunc(next)
}
