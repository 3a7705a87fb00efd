package models

import "time"

// User represents an account that can sign in.
type User struct {
	ID       string    `gorm:"primaryKey;size:24" json:"_id" bson:"_id"`
	Name     string    `gorm:"size:255;not null" json:"name" bson:"name"`
	Email    string    `gorm:"uniqueIndex;size:255;not null" json:"email" bson:"email"`
	Password string    `gorm:"size:255;not null" json:"-" bson:"password"` // bcrypt hash, never exposed in JSON
	Avatar   string    `gorm:"size:500" json:"avatar" bson:"avatar"`
	Date     time.Time `gorm:"not null" json:"date" bson:"date"`
}

// UserSummary is the subset of User joined onto profiles.
type UserSummary struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Summary returns the public name/avatar view of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
