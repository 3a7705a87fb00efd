package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to MONGO_TEST_URI and uses a fresh database that is
// dropped when the test ends.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := "devconnect_test_" + models.NewID()
	s, err := Connect(ctx, uri, dbName)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.client.Database(dbName).Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestMongo_UsersAndUniqueEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &models.User{Name: "Ada", Email: "ada@example.com", Password: "hash", Date: time.Now().UTC()}
	require.NoError(t, s.CreateUser(ctx, u))
	err := s.CreateUser(ctx, &models.User{Name: "B", Email: "ada@example.com", Date: time.Now().UTC()})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := s.UserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	_, err = s.UserByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMongo_ProfileVersioning(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	uid := models.NewID()

	require.NoError(t, s.CreateProfile(ctx, &models.Profile{UserID: uid, Status: "Dev", Date: time.Now().UTC()}))
	assert.ErrorIs(t, s.CreateProfile(ctx, &models.Profile{UserID: uid, Status: "Dev"}), store.ErrDuplicate)

	a, err := s.ProfileByUser(ctx, uid)
	require.NoError(t, err)
	b, err := s.ProfileByUser(ctx, uid)
	require.NoError(t, err)

	a.AddExperience(models.Experience{Title: "Eng", Company: "Acme", From: time.Now().UTC()})
	require.NoError(t, s.UpdateProfile(ctx, a))
	b.Bio = "stale"
	assert.ErrorIs(t, s.UpdateProfile(ctx, b), store.ErrConflict)

	got, err := s.ProfileByUser(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, got.Experience, 1)
	assert.Empty(t, got.Bio)
}

func TestMongo_PostsOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreatePost(ctx, &models.Post{UserID: "u", Text: "old", Date: base}))
	p := &models.Post{UserID: "u", Text: "new", Date: base.Add(time.Minute)}
	require.NoError(t, s.CreatePost(ctx, p))

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].Text)

	require.NoError(t, s.DeletePost(ctx, p.ID))
	assert.ErrorIs(t, s.DeletePost(ctx, p.ID), store.ErrNotFound)
}
