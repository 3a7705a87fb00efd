package models

import (
	"time"

	"github.com/diewo77/devconnect/internal/apperr"
)

// Post is a status update. Name and Avatar are copied from the author when
// the post is created and are not kept in sync afterwards.
type Post struct {
	ID       string    `gorm:"primaryKey;size:24" json:"_id" bson:"_id"`
	UserID   string    `gorm:"index;size:24;not null" json:"user" bson:"user"`
	Text     string    `gorm:"type:text;not null" json:"text" bson:"text"`
	Name     string    `gorm:"size:255" json:"name" bson:"name"`
	Avatar   string    `gorm:"size:500" json:"avatar" bson:"avatar"`
	Likes    []Like    `gorm:"serializer:json;type:text" json:"likes" bson:"likes"`
	Comments []Comment `gorm:"serializer:json;type:text" json:"comments" bson:"comments"`
	Date     time.Time `gorm:"index;not null" json:"date" bson:"date"`
	Version  int64     `gorm:"not null" json:"-" bson:"version"`
}

// GetUserID implements Ownable.
func (p *Post) GetUserID() string { return p.UserID }

// Like records that a user liked a post. A user appears at most once per post.
type Like struct {
	ID     string `json:"_id" bson:"_id"`
	UserID string `json:"user" bson:"user"`
}

// Comment is one entry in Post.Comments, with its own author snapshot.
type Comment struct {
	ID     string    `json:"_id" bson:"_id"`
	UserID string    `json:"user" bson:"user"`
	Text   string    `json:"text" bson:"text"`
	Name   string    `json:"name" bson:"name"`
	Avatar string    `json:"avatar" bson:"avatar"`
	Date   time.Time `json:"date" bson:"date"`
}

// GetUserID implements Ownable.
func (c *Comment) GetUserID() string { return c.UserID }

// LikedBy reports whether userID is present in the likes.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// Like adds userID to the front of the likes.
func (p *Post) Like(userID string) error {
	if p.LikedBy(userID) {
		return apperr.AlreadyLiked()
	}
	p.Likes = prepend(p.Likes, Like{ID: NewID(), UserID: userID})
	return nil
}

// Unlike removes userID from the likes.
func (p *Post) Unlike(userID string) error {
	out, ok := removeByID(p.Likes, userID, func(l Like) string { return l.UserID })
	if !ok {
		return apperr.NotLiked()
	}
	p.Likes = out
	return nil
}

// AddComment puts c at the front of the comments.
func (p *Post) AddComment(c Comment) {
	if c.ID == "" {
		c.ID = NewID()
	}
	p.Comments = prepend(p.Comments, c)
}

// FindComment returns the comment with the given id.
func (p *Post) FindComment(id string) (*Comment, bool) {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i], true
		}
	}
	return nil, false
}

// RemoveComment removes the comment with the given id.
func (p *Post) RemoveComment(id string) error {
	out, ok := removeByID(p.Comments, id, func(c Comment) string { return c.ID })
	if !ok {
		return apperr.NotFound("Comment does not exist")
	}
	p.Comments = out
	return nil
}

// Normalize replaces nil sub-lists with empty ones so they encode as [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}
