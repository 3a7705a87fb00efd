package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/devconnect/auth"
	"github.com/diewo77/devconnect/internal/apperr"
	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store"
	"github.com/diewo77/devconnect/validation"
	"golang.org/x/crypto/bcrypt"
)

// LoginInput is the body of POST /api/auth.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email" msg:"Please, include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// RegisterInput is the body of POST /api/users.
type RegisterInput struct {
	Name     string `json:"name" validate:"notblank" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Please, include a valid email"`
	Password string `json:"password" validate:"min=6" msg:"Please enter a password with 6 or more characters"`
}

// AuthService verifies credentials, registers users and issues tokens.
type AuthService struct {
	users  store.Users
	tokens *auth.Tokens
	cost   int
	now    func() time.Time
}

// NewAuthService builds an AuthService. cost is the bcrypt cost; values
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewAuthService(users store.Users, tokens *auth.Tokens, cost int) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, cost: cost, now: time.Now}
}

// Login checks email and password and returns a signed token. An unknown
// email and a wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Check(&in); err != nil {
		return "", err
	}
	u, err := s.users.UserByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.InvalidCredentials()
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		return "", apperr.InvalidCredentials()
	}
	return s.issue(u.ID)
}

// Register creates a user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Check(&in); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("hash password: %w", err))
	}
	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: string(hash),
		Avatar:   GravatarURL(in.Email),
		Date:     s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", apperr.Validation(apperr.FieldError{Msg: "User already exists"})
		}
		return "", apperr.Internal(err)
	}
	return s.issue(u.ID)
}

// CurrentUser returns the caller's account. The password hash is never
// serialized.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return u, nil
}

// UserExists backs the access guard's check that a token's user is still there.
// A missing user is (false, nil); any other store failure is returned.
func (s *AuthService) UserExists(ctx context.Context, userID string) (bool, error) {
	_, err := s.users.UserByID(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("look up user %s: %w", userID, err)
	}
}

func (s *AuthService) issue(userID string) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GravatarURL returns the protocol-relative avatar URL for email
// (200px, pg rated, "mystery man" fallback).
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
