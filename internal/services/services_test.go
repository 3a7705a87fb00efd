package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diewo77/devconnect/auth"
	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store"
	"github.com/diewo77/devconnect/internal/store/storetest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fixture bundles the services over one SQLite store.
type fixture struct {
	store    store.Store
	auth     *AuthService
	profiles *ProfileService
	posts    *PostService
	accounts *AccountService
	tokens   *auth.Tokens
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, storetest.SQLite(t))
}

func newFixtureWith(t *testing.T, s store.Store) *fixture {
	t.Helper()
	tokens := auth.NewTokens("test-secret", time.Hour)
	return &fixture{
		store:    s,
		auth:     NewAuthService(s, tokens, bcrypt.MinCost),
		profiles: NewProfileService(s),
		posts:    NewPostService(s, nil),
		accounts: NewAccountService(s),
		tokens:   tokens,
	}
}

// register creates a user and returns its id.
func (f *fixture) register(t *testing.T, name, email string) string {
	t.Helper()
	token, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	id, err := f.tokens.Parse(token)
	require.NoError(t, err)
	return id
}

// conflictingStore fails the next n versioned updates with store.ErrConflict.
type conflictingStore struct {
	store.Store
	failures atomic.Int32
}

func (c *conflictingStore) UpdatePost(ctx context.Context, p *models.Post) error {
	if c.failures.Add(-1) >= 0 {
		return store.ErrConflict
	}
	return c.Store.UpdatePost(ctx, p)
}

func (c *conflictingStore) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if c.failures.Add(-1) >= 0 {
		return store.ErrConflict
	}
	return c.Store.UpdateProfile(ctx, p)
}
