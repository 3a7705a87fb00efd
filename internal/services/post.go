package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/devconnect/gate"
	"github.com/diewo77/devconnect/internal/apperr"
	"github.com/diewo77/devconnect/internal/metrics"
	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/policy"
	"github.com/diewo77/devconnect/internal/store"
	"github.com/diewo77/devconnect/validation"
)

const (
	msgNoPost        = "No post with this id"
	msgBadPostID     = "Incorrect post id"
	msgPostGone      = "Post does not exist"
	msgNotAuthorized = "User not authorized"
)

// PostInput is the body of POST /api/posts and POST /api/posts/comment/{id}.
type PostInput struct {
	Text string `json:"text" validate:"notblank" msg:"Text is required"`
}

// PostService manages posts, likes and comments.
type PostService struct {
	store store.Store
	gate  *gate.Gate
	now   func() time.Time
}

// NewPostService builds a PostService. A nil gate means policy.NewGate().
func NewPostService(s store.Store, g *gate.Gate) *PostService {
	if g == nil {
		g = policy.NewGate()
	}
	return &PostService{store: s, gate: g, now: time.Now}
}

// Create stores a new post with a snapshot of the author's name and avatar.
func (s *PostService) Create(ctx context.Context, userID string, in PostInput) (*models.Post, error) {
	if err := validation.Check(&in); err != nil {
		return nil, err
	}
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "Can't create post for non-existent user")
	}
	p := &models.Post{
		UserID: userID,
		Text:   in.Text,
		Name:   u.Name,
		Avatar: u.Avatar,
		Date:   s.now().UTC(),
	}
	p.Normalize()
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.RecordPostWrite("create")
	return p, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

// Get returns one post.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	if !models.ValidID(id) {
		return nil, apperr.InvalidIdentifier(msgBadPostID)
	}
	p, err := s.store.PostByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgNoPost)
	}
	p.Normalize()
	return p, nil
}

// Delete removes a post owned by the caller.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	if !models.ValidID(id) {
		return apperr.InvalidIdentifier(msgBadPostID)
	}
	p, err := s.store.PostByID(ctx, id)
	if err != nil {
		return storeErr(err, msgPostGone)
	}
	if err := s.authorize(ctx, userID, policy.ResourcePost, p, msgNotAuthorized); err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		return storeErr(err, msgPostGone)
	}
	metrics.RecordPostWrite("delete")
	return nil
}

// Like adds the caller to the post's likes and returns the new list.
func (s *PostService) Like(ctx context.Context, userID, id string) ([]models.Like, error) {
	p, err := s.mutate(ctx, id, "like", msgNoPost, func(p *models.Post) error {
		return p.Like(userID)
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

// Unlike removes the caller from the post's likes and returns the new list.
func (s *PostService) Unlike(ctx context.Context, userID, id string) ([]models.Like, error) {
	p, err := s.mutate(ctx, id, "unlike", msgNoPost, func(p *models.Post) error {
		return p.Unlike(userID)
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

// AddComment prepends a comment by the caller and returns the comments.
func (s *PostService) AddComment(ctx context.Context, userID, id string, in PostInput) ([]models.Comment, error) {
	if err := validation.Check(&in); err != nil {
		return nil, err
	}
	if !models.ValidID(id) {
		return nil, apperr.InvalidIdentifier(msgBadPostID)
	}
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	commentID := models.NewID()
	p, err := s.mutate(ctx, id, "comment", "Can't comment non-existent post", func(p *models.Post) error {
		p.AddComment(models.Comment{
			ID:     commentID,
			UserID: userID,
			Text:   in.Text,
			Name:   u.Name,
			Avatar: u.Avatar,
			Date:   s.now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

// DeleteComment removes a comment written by the caller and returns the
// remaining comments.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	if !models.ValidID(postID) {
		return nil, apperr.InvalidIdentifier("Incorrect id")
	}
	p, err := s.mutate(ctx, postID, "uncomment", msgPostGone, func(p *models.Post) error {
		c, ok := p.FindComment(commentID)
		if !ok {
			return apperr.NotFound("Comment does not exist")
		}
		if err := s.authorize(ctx, userID, policy.ResourceComment, c, "Not authorized to delete this comment"); err != nil {
			return err
		}
		return p.RemoveComment(commentID)
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (s *PostService) authorize(ctx context.Context, userID, resource string, v any, msg string) error {
	err := s.gate.Authorize(ctx, userID, gate.ActionDelete, resource, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gate.ErrUnauthorized):
		return apperr.Forbidden(msg)
	default:
		return apperr.Internal(err)
	}
}

// mutate re-reads the post, applies fn and writes it back under the
// version check.
func (s *PostService) mutate(ctx context.Context, id, op, notFoundMsg string, fn func(*models.Post) error) (*models.Post, error) {
	if !models.ValidID(id) {
		return nil, apperr.InvalidIdentifier(msgBadPostID)
	}
	var p *models.Post
	err := retryOnConflict(ctx, "post", func() error {
		var err error
		p, err = s.store.PostByID(ctx, id)
		if err != nil {
			return storeErr(err, notFoundMsg)
		}
		if err := fn(p); err != nil {
			return err
		}
		return s.store.UpdatePost(ctx, p)
	})
	if err != nil {
		return nil, storeErr(err, notFoundMsg)
	}
	metrics.RecordPostWrite(op)
	p.Normalize()
	return p, nil
}
