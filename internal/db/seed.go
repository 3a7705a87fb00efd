package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// SeedEmail is the account created by Seed.
const SeedEmail = "demo@devconnect.dev"

// SeedPassword is the plain-text password of the seeded account.
const SeedPassword = "demo1234"

// Seed inserts a demo user with a profile and one post. Running it again
// leaves existing data untouched.
func Seed(ctx context.Context, s store.Store) error {
	if _, err := s.UserByEmail(ctx, SeedEmail); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("seed lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed hash: %w", err)
	}
	now := time.Now().UTC()
	u := &models.User{
		Name:     "Demo Developer",
		Email:    SeedEmail,
		Password: string(hash),
		Avatar:   "//www.gravatar.com/avatar/00000000000000000000000000000000?s=200&r=pg&d=mm",
		Date:     now,
	}
	if err := s.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	p := &models.Profile{
		UserID:   u.ID,
		Status:   "Developer",
		Company:  "DevConnect",
		Location: "Remote",
		Bio:      "Seeded account for local development.",
		Skills:   models.ParseSkills("Go, PostgreSQL, MongoDB"),
		Social:   map[string]string{},
		Date:     now,
	}
	p.AddExperience(models.Experience{Title: "Backend Engineer", Company: "DevConnect", From: now.AddDate(-2, 0, 0), Current: true})
	p.AddEducation(models.Education{School: "Open University", Degree: "BSc", FieldOfStudy: "Computer Science", From: now.AddDate(-6, 0, 0)})
	if err := s.CreateProfile(ctx, p); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}

	post := &models.Post{
		UserID:   u.ID,
		Text:     "Hello from the demo account!",
		Name:     u.Name,
		Avatar:   u.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     now,
	}
	if err := s.CreatePost(ctx, post); err != nil {
		return fmt.Errorf("seed post: %w", err)
	}
	return nil
}
