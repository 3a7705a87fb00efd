// Package mongostore implements store.Store on MongoDB. Profiles and posts
// are stored as single documents with embedded sub-lists.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
	postsCollection    = "posts"
)

// Store is a MongoDB-backed store.Store.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	profiles *mongo.Collection
	posts    *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials uri and uses the database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return New(client, dbName), nil
}

// New wraps an existing client.
func New(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:   client,
		users:    db.Collection(usersCollection),
		profiles: db.Collection(profilesCollection),
		posts:    db.Collection(postsCollection),
	}
}

// Migrate creates the unique and sort indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := s.profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("profiles index: %w", err)
	}
	if _, err := s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
	}); err != nil {
		return fmt.Errorf("posts index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	return err
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err)
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, translate(err)
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", translate(err))
	}
	return nil
}

// Profiles

func (s *Store) ProfileByUser(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := s.profiles.FindOne(ctx, bson.M{"user": userID}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.profiles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	p.Version = 1
	if _, err := s.profiles.InsertOne(ctx, p); err != nil {
		p.Version = 0
		return fmt.Errorf("create profile: %w", translate(err))
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, p *models.Profile) error {
	return replaceVersioned(ctx, s.profiles, p.ID, p, &p.Version, "profile")
}

func (s *Store) DeleteProfileByUser(ctx context.Context, userID string) error {
	if _, err := s.profiles.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
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
	if _, err := s.posts.InsertOne(ctx, p); err != nil {
		p.Version = 0
		return fmt.Errorf("create post: %w", translate(err))
	}
	return nil
}

func (s *Store) PostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) UpdatePost(ctx context.Context, p *models.Post) error {
	return replaceVersioned(ctx, s.posts, p.ID, p, &p.Version, "post")
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", translate(err))
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// replaceVersioned replaces the document only while it still carries the
// version the caller read.
func replaceVersioned(ctx context.Context, coll *mongo.Collection, id string, doc any, version *int64, what string) error {
	prev := *version
	*version = prev + 1
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id, "version": prev}, doc)
	if err != nil {
		*version = prev
		return fmt.Errorf("update %s: %w", what, translate(err))
	}
	if res.MatchedCount == 0 {
		*version = prev
		return store.ErrConflict
	}
	return nil
}
