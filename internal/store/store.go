// Package store defines the persistence contract for users, profiles and
// posts. Backends live in the gormstore and mongostore subpackages.
package store

import (
	"context"
	"errors"

	"github.com/diewo77/devconnect/internal/models"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrConflict is returned when a conditional update finds a newer version.
	ErrConflict = errors.New("store: version conflict")
)

// Users persists accounts.
type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UsersByIDs returns the users found, keyed by id. Missing ids are skipped.
	UsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	// DeleteUser is idempotent.
	DeleteUser(ctx context.Context, id string) error
}

// Profiles persists one profile per user.
type Profiles interface {
	ProfileByUser(ctx context.Context, userID string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	// CreateProfile inserts p with Version 1. A second profile for the same
	// user fails with ErrDuplicate.
	CreateProfile(ctx context.Context, p *models.Profile) error
	// UpdateProfile writes p only if the stored version still equals
	// p.Version, then increments p.Version. Otherwise ErrConflict.
	UpdateProfile(ctx context.Context, p *models.Profile) error
	// DeleteProfileByUser is idempotent.
	DeleteProfileByUser(ctx context.Context, userID string) error
}

// Posts persists posts with their likes and comments.
type Posts interface {
	CreatePost(ctx context.Context, p *models.Post) error
	PostByID(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns every post, newest first; ties are ordered by id descending.
	ListPosts(ctx context.Context) ([]models.Post, error)
	// UpdatePost has the same version semantics as UpdateProfile.
	UpdatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id string) error
}

// Store is everything the services need.
type Store interface {
	Users
	Profiles
	Posts
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
