package client

import (
	"testing"

	"github.com/diewo77/devconnect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_Alerts(t *testing.T) {
	s := Reduce(State{}, Action{Type: SetAlert, Payload: Alert{ID: "a", Msg: "one"}})
	s = Reduce(s, Action{Type: SetAlert, Payload: Alert{ID: "b", Msg: "two"}})
	require.Len(t, s.Alerts, 2)

	before := s
	s = Reduce(s, Action{Type: RemoveAlert, Payload: "a"})
	require.Len(t, s.Alerts, 1)
	assert.Equal(t, "b", s.Alerts[0].ID)
	assert.Len(t, before.Alerts, 2, "previous state must not change")
}

func TestReduce_AuthResetsOnFailure(t *testing.T) {
	s := Reduce(State{}, Action{Type: LoginSuccess, Payload: "tok"})
	s = Reduce(s, Action{Type: UserLoaded, Payload: &models.User{ID: "u1"}})
	assert.True(t, s.Auth.IsAuthenticated)
	assert.Equal(t, "tok", s.Auth.Token)

	for _, typ := range []ActionType{LoginFail, RegisterFail, AuthError, Logout, AccountDeleted} {
		got := Reduce(s, Action{Type: typ})
		assert.Equal(t, AuthState{}, got.Auth, typ)
	}
}

func TestReduce_ProfileErrorClearsProfile(t *testing.T) {
	s := Reduce(State{}, Action{Type: GetProfile, Payload: &models.Profile{ID: "p1"}})
	require.NotNil(t, s.Profile.Profile)

	s = Reduce(s, Action{Type: ProfileError, Payload: ErrorInfo{Msg: "Bad Request", Status: 400}})
	assert.Nil(t, s.Profile.Profile)
	require.NotNil(t, s.Profile.Error)
	assert.Equal(t, 400, s.Profile.Error.Status)
}

func TestReduce_Posts(t *testing.T) {
	s := Reduce(State{}, Action{Type: GetPosts, Payload: []models.Post{{ID: "p1"}, {ID: "p2"}}})
	s = Reduce(s, Action{Type: AddPost, Payload: &models.Post{ID: "p0"}})
	require.Len(t, s.Post.Posts, 3)
	assert.Equal(t, "p0", s.Post.Posts[0].ID)

	s = Reduce(s, Action{Type: GetPost, Payload: &models.Post{
		ID:       "p1",
		Comments: []models.Comment{{ID: "c1"}, {ID: "c2"}},
	}})
	likes := []models.Like{{ID: "l1", UserID: "u1"}}
	s = Reduce(s, Action{Type: UpdateLikes, Payload: LikesUpdate{PostID: "p1", Likes: likes}})
	assert.Equal(t, likes, s.Post.Posts[1].Likes)
	assert.Equal(t, likes, s.Post.Post.Likes)
	assert.Empty(t, s.Post.Posts[2].Likes)

	s = Reduce(s, Action{Type: RemoveComment, Payload: "c1"})
	require.Len(t, s.Post.Post.Comments, 1)
	assert.Equal(t, "c2", s.Post.Post.Comments[0].ID)

	s = Reduce(s, Action{Type: DeletePost, Payload: "p1"})
	assert.Len(t, s.Post.Posts, 2)
}

func TestStore_Subscribe(t *testing.T) {
	st := NewStore()
	var seen []ActionType
	unsubscribe := st.Subscribe(func(a Action, _ State) { seen = append(seen, a.Type) })

	st.Dispatch(Action{Type: ClearProfile})
	unsubscribe()
	st.Dispatch(Action{Type: Logout})

	assert.Equal(t, []ActionType{ClearProfile}, seen)
}
