// Package auth issues and checks the bearer tokens that identify API callers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/devconnect/httpx"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey string

const (
	userIDCtxKey = ctxKey("userID")

	// LegacyTokenHeader is accepted in addition to "Authorization: Bearer".
	LegacyTokenHeader = "x-auth-token"

	// DefaultTTL is how long an issued token stays valid.
	DefaultTTL = 100 * time.Hour
)

var (
	ErrNoToken      = errors.New("no token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the signed token payload: {"user": {"id": "..."}} plus the
// registered exp/iat claims.
type Claims struct {
	User ClaimsUser `json:"user"`
	jwt.RegisteredClaims
}

// ClaimsUser identifies the caller inside Claims.
type ClaimsUser struct {
	ID string `json:"id"`
}

// Tokens signs and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a token manager. A zero ttl means DefaultTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue returns a signed token for userID.
func (t *Tokens) Issue(userID string) (string, error) {
	now := t.now()
	claims := &Claims{
		User: ClaimsUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature and expiry and returns the embedded user id.
func (t *Tokens) Parse(token string) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.User.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.User.ID, nil
}

// TokenFromRequest extracts the bearer token, falling back to x-auth-token.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(LegacyTokenHeader))
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDCtxKey).(string)
	return id, ok && id != ""
}

// UserVerifier reports whether a token's user still exists. An error means
// the check itself failed.
type UserVerifier func(ctx context.Context, userID string) (bool, error)

// Guard protects routes that need an authenticated caller.
type Guard struct {
	tokens   *Tokens
	verifier UserVerifier
	log      *zap.Logger
}

// NewGuard builds a Guard. verifier may be nil to skip the existence check.
func NewGuard(tokens *Tokens, verifier UserVerifier, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{tokens: tokens, verifier: verifier, log: log}
}

// RequireAuth rejects the request with 401 unless it carries a valid token
// for an existing user, and with 500 when the user lookup fails. Otherwise
// the user id is put in the request context.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			httpx.Message(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		uid, err := g.tokens.Parse(token)
		if err != nil {
			g.log.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
			httpx.Message(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		if g.verifier != nil {
			ok, err := g.verifier(r.Context(), uid)
			if err != nil {
				g.log.Error("user check failed", zap.String("path", r.URL.Path), zap.Error(err))
				httpx.ServerError(w)
				return
			}
			if !ok {
				// Token outlived its user (account deleted).
				httpx.Message(w, http.StatusUnauthorized, "Token is not valid")
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
	})
}

// RequireAuthFunc is RequireAuth for a HandlerFunc.
func (g *Guard) RequireAuthFunc(next http.HandlerFunc) http.Handler {
	return g.RequireAuth(next)
}
