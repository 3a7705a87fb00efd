// Package models holds the persisted documents (User, Profile, Post) and the
// pure mutations applied to their sub-lists.
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh 24-char hex identifier. The same format is used on
// every storage backend.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Ownable is implemented by anything owned by a user.
type Ownable interface {
	GetUserID() string
}

// removeByID drops the first element whose id matches, keeping the relative
// order of the rest. It reports whether anything was removed.
func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(items))
	removed := false
	for _, it := range items {
		if !removed && idOf(it) == id {
			removed = true
			continue
		}
		out = append(out, it)
	}
	if !removed {
		return items, false
	}
	return out, true
}

// prepend returns a new slice with v in front of items.
func prepend[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}

// ParseSkills splits a comma separated list, trimming each entry and
// dropping empty ones: "a, b, c" -> ["a","b","c"].
func ParseSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseDate accepts an HTML date input value (YYYY-MM-DD) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
