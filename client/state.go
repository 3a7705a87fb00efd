package client

import (
	"slices"
	"sync"

	"github.com/diewo77/devconnect/internal/models"
)

// ActionType names a state transition.
type ActionType string

const (
	SetAlert    ActionType = "SET_ALERT"
	RemoveAlert ActionType = "REMOVE_ALERT"

	RegisterSuccess ActionType = "REGISTER_SUCCESS"
	RegisterFail    ActionType = "REGISTER_FAIL"
	UserLoaded      ActionType = "USER_LOADED"
	AuthError       ActionType = "AUTH_ERROR"
	LoginSuccess    ActionType = "LOGIN_SUCCESS"
	LoginFail       ActionType = "LOGIN_FAIL"
	Logout          ActionType = "LOGOUT"
	AccountDeleted  ActionType = "ACCOUNT_DELETED"

	GetProfile    ActionType = "GET_PROFILE"
	GetProfiles   ActionType = "GET_PROFILES"
	UpdateProfile ActionType = "UPDATE_PROFILE"
	ClearProfile  ActionType = "CLEAR_PROFILE"
	ProfileError  ActionType = "PROFILE_ERROR"

	GetPosts      ActionType = "GET_POSTS"
	GetPost       ActionType = "GET_POST"
	AddPost       ActionType = "ADD_POST"
	DeletePost    ActionType = "DELETE_POST"
	UpdateLikes   ActionType = "UPDATE_LIKES"
	AddComment    ActionType = "ADD_COMMENT"
	RemoveComment ActionType = "REMOVE_COMMENT"
	PostError     ActionType = "POST_ERROR"
)

// Alert types.
const (
	AlertSuccess = "success"
	AlertDanger  = "danger"
)

// Action is one dispatched transition. Payload depends on Type:
//
//	SET_ALERT                       Alert
//	REMOVE_ALERT                    string (alert id)
//	LOGIN_SUCCESS, REGISTER_SUCCESS string (token)
//	USER_LOADED                     *models.User
//	GET_PROFILE, UPDATE_PROFILE     *models.Profile
//	GET_PROFILES                    []models.Profile
//	PROFILE_ERROR, POST_ERROR       ErrorInfo
//	GET_POSTS                       []models.Post
//	GET_POST, ADD_POST              *models.Post
//	DELETE_POST                     string (post id)
//	UPDATE_LIKES                    LikesUpdate
//	ADD_COMMENT                     []models.Comment
//	REMOVE_COMMENT                  string (comment id)
type Action struct {
	Type    ActionType
	Payload any
}

// Alert is a transient notification.
type Alert struct {
	ID   string
	Msg  string
	Type string
}

// ErrorInfo is the generic error state left after a failed call.
type ErrorInfo struct {
	Msg    string
	Status int
}

// LikesUpdate carries the new like list of one post.
type LikesUpdate struct {
	PostID string
	Likes  []models.Like
}

type AuthState struct {
	Token           string
	IsAuthenticated bool
	User            *models.User
}

type ProfileState struct {
	Profile  *models.Profile
	Profiles []models.Profile
	Error    *ErrorInfo
}

type PostState struct {
	Posts []models.Post
	Post  *models.Post
	Error *ErrorInfo
}

// State is the whole client-side state.
type State struct {
	Alerts  []Alert
	Auth    AuthState
	Profile ProfileState
	Post    PostState
}

// Reduce returns the state after applying a. It never mutates s.
func Reduce(s State, a Action) State {
	s.Alerts = reduceAlerts(s.Alerts, a)
	s.Auth = reduceAuth(s.Auth, a)
	s.Profile = reduceProfile(s.Profile, a)
	s.Post = reducePost(s.Post, a)
	return s
}

func reduceAlerts(alerts []Alert, a Action) []Alert {
	switch a.Type {
	case SetAlert:
		return append(slices.Clip(alerts), a.Payload.(Alert))
	case RemoveAlert:
		id := a.Payload.(string)
		return slices.DeleteFunc(slices.Clone(alerts), func(al Alert) bool { return al.ID == id })
	}
	return alerts
}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a.Type {
	case UserLoaded:
		s.IsAuthenticated = true
		s.User = a.Payload.(*models.User)
	case LoginSuccess, RegisterSuccess:
		s.Token = a.Payload.(string)
		s.IsAuthenticated = true
	case LoginFail, RegisterFail, AuthError, Logout, AccountDeleted:
		s = AuthState{}
	}
	return s
}

func reduceProfile(s ProfileState, a Action) ProfileState {
	switch a.Type {
	case GetProfile, UpdateProfile:
		s.Profile = a.Payload.(*models.Profile)
	case GetProfiles:
		s.Profiles = a.Payload.([]models.Profile)
	case ProfileError:
		info := a.Payload.(ErrorInfo)
		s.Error = &info
		s.Profile = nil
	case ClearProfile, Logout:
		s.Profile = nil
	}
	return s
}

func reducePost(s PostState, a Action) PostState {
	switch a.Type {
	case GetPosts:
		s.Posts = a.Payload.([]models.Post)
	case GetPost:
		s.Post = a.Payload.(*models.Post)
	case AddPost:
		s.Posts = append([]models.Post{*a.Payload.(*models.Post)}, s.Posts...)
	case DeletePost:
		id := a.Payload.(string)
		s.Posts = slices.DeleteFunc(slices.Clone(s.Posts), func(p models.Post) bool { return p.ID == id })
	case UpdateLikes:
		u := a.Payload.(LikesUpdate)
		posts := slices.Clone(s.Posts)
		for i := range posts {
			if posts[i].ID == u.PostID {
				posts[i].Likes = u.Likes
			}
		}
		s.Posts = posts
		if s.Post != nil && s.Post.ID == u.PostID {
			p := *s.Post
			p.Likes = u.Likes
			s.Post = &p
		}
	case AddComment:
		if s.Post != nil {
			p := *s.Post
			p.Comments = a.Payload.([]models.Comment)
			s.Post = &p
		}
	case RemoveComment:
		if s.Post != nil {
			id := a.Payload.(string)
			p := *s.Post
			p.Comments = slices.DeleteFunc(slices.Clone(p.Comments), func(c models.Comment) bool { return c.ID == id })
			s.Post = &p
		}
	case PostError:
		info := a.Payload.(ErrorInfo)
		s.Error = &info
	}
	return s
}

// Store holds the State and applies dispatched actions through Reduce.
// It is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]func(Action, State)
	nextSub     int
}

func NewStore() *Store {
	return &Store{subscribers: make(map[int]func(Action, State))}
}

// Dispatch applies a and notifies subscribers with the new state.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	state := s.state
	subs := make([]func(Action, State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(a, state)
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every dispatch and returns a
// function that removes it.
func (s *Store) Subscribe(fn func(Action, State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
