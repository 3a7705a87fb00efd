// Package gormstore implements store.Store on a relational database through
// gorm. Experience, education, likes and comments are kept as JSON columns so
// each profile or post stays a single row, written as a whole.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store"
	"gorm.io/gorm"
)

// Store is a gorm-backed store.Store.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open gorm connection. Open it with TranslateError enabled so
// unique violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection.
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates or updates the tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	return err
}

// isUniqueViolation catches drivers that do not implement error translation.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete user: %w", translate(err))
	}
	return nil
}

// Profiles

func (s *Store) ProfileByUser(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	if err := s.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	p.Version = 1
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		p.Version = 0
		return fmt.Errorf("create profile: %w", translate(err))
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, p *models.Profile) error {
	return s.updateVersioned(ctx, p, &p.Version, "profile")
}

func (s *Store) DeleteProfileByUser(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Profile{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("delete profile: %w", translate(err))
	}
	return nil
}

// Posts

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	p.Version = 1
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		p.Version = 0
		return fmt.Errorf("create post: %w", translate(err))
	}
	return nil
}

func (s *Store) PostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := s.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) UpdatePost(ctx context.Context, p *models.Post) error {
	return s.updateVersioned(ctx, p, &p.Version, "post")
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// updateVersioned writes every column of doc where the row still carries the
// version the caller read, bumping *version on success.
func (s *Store) updateVersioned(ctx context.Context, doc any, version *int64, what string) error {
	prev := *version
	*version = prev + 1
	res := s.db.WithContext(ctx).Model(doc).Where("version = ?", prev).Select("*").Updates(doc)
	if res.Error != nil {
		*version = prev
		return fmt.Errorf("update %s: %w", what, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		*version = prev
		return store.ErrConflict
	}
	return nil
}
