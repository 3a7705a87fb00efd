package main

import (
	"github.com/diewo77/devconnect/auth"
	"github.com/diewo77/devconnect/gate"
	"github.com/diewo77/devconnect/internal/handlers"
	"github.com/diewo77/devconnect/internal/policy"
	"github.com/diewo77/devconnect/internal/services"
	"github.com/diewo77/devconnect/internal/store"
	"go.uber.org/zap"
)

// RouterConfig holds the configured handlers and middleware for the application.
type RouterConfig struct {
	// Guard rejects requests without a valid token for an existing user.
	Guard *auth.Guard

	// Gate holds the ownership policies for posts and comments.
	Gate *gate.Gate

	AuthHandler    *handlers.AuthHandler
	ProfileHandler *handlers.ProfileHandler
	PostHandler    *handlers.PostHandler

	Store store.Store
	Log   *zap.Logger
}

// NewRouterConfig wires services, the access guard and handlers over one store.
func NewRouterConfig(s store.Store, tokens *auth.Tokens, bcryptCost int, log *zap.Logger) *RouterConfig {
	g := policy.NewGate()

	authSvc := services.NewAuthService(s, tokens, bcryptCost)
	profileSvc := services.NewProfileService(s)
	accountSvc := services.NewAccountService(s)
	postSvc := services.NewPostService(s, g)

	return &RouterConfig{
		Guard:          auth.NewGuard(tokens, authSvc.UserExists, log),
		Gate:           g,
		AuthHandler:    handlers.NewAuthHandler(authSvc, log),
		ProfileHandler: handlers.NewProfileHandler(profileSvc, accountSvc, log),
		PostHandler:    handlers.NewPostHandler(postSvc, log),
		Store:          s,
		Log:            log,
	}
}
