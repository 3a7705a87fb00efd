package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultAlertTimeout is how long an alert stays before it is removed.
const DefaultAlertTimeout = 5 * time.Second

// DeleteAccountPrompt is the question asked before deleting an account.
const DeleteAccountPrompt = "Are you sure? This can NOT be undone!"

// ErrCanceled is returned when the user declines a confirmation.
var ErrCanceled = errors.New("client: canceled by user")

// Navigator moves the UI to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Dispatcher runs API calls and translates their outcome into actions on a
// Store. Every method also returns the call's error.
type Dispatcher struct {
	api          *Client
	store        *Store
	nav          Navigator
	confirm      Confirmer
	alertTimeout time.Duration
	log          *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

func WithNavigator(n Navigator) DispatcherOption {
	return func(d *Dispatcher) { d.nav = n }
}

func WithConfirmer(c Confirmer) DispatcherOption {
	return func(d *Dispatcher) { d.confirm = c }
}

func WithAlertTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.alertTimeout = t }
}

func WithLogger(log *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = log }
}

// NewDispatcher binds api to store. Without a Confirmer every confirmation
// is declined.
func NewDispatcher(api *Client, store *Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		api:          api,
		store:        store,
		nav:          NavigatorFunc(func(string) {}),
		confirm:      ConfirmerFunc(func(string) bool { return false }),
		alertTimeout: DefaultAlertTimeout,
		log:          zap.NewNop(),
		timers:       make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Close cancels pending alert removals. Alerts set afterwards stay until
// removed explicitly.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}

func (d *Dispatcher) dispatch(t ActionType, payload any) {
	d.store.Dispatch(Action{Type: t, Payload: payload})
}

// SetAlert shows msg and schedules its removal. It returns the alert id.
func (d *Dispatcher) SetAlert(msg, alertType string) string {
	id := uuid.NewString()
	d.dispatch(SetAlert, Alert{ID: id, Msg: msg, Type: alertType})

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.timers[id] = time.AfterFunc(d.alertTimeout, func() {
			d.mu.Lock()
			_, pending := d.timers[id]
			delete(d.timers, id)
			d.mu.Unlock()
			if pending {
				d.dispatch(RemoveAlert, id)
			}
		})
	}
	return id
}

// fail turns err into one danger alert per validation error followed by
// errType carrying the status.
func (d *Dispatcher) fail(err error, errType ActionType) error {
	info := ErrorInfo{Msg: err.Error()}
	if apiErr, ok := AsAPIError(err); ok {
		for _, fe := range apiErr.Errors {
			d.SetAlert(fe.Msg, AlertDanger)
		}
		info = ErrorInfo{Msg: apiErr.StatusText, Status: apiErr.Status}
	}
	d.log.Debug("api call failed",
		zap.String("action", string(errType)),
		zap.Int("status", info.Status),
		zap.Error(err))
	d.dispatch(errType, info)
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// Auth
// ─────────────────────────────────────────────────────────────────────────────

// LoadUser fetches the account behind the current token.
func (d *Dispatcher) LoadUser(ctx context.Context) error {
	u, err := d.api.CurrentUser(ctx)
	if err != nil {
		d.api.SetToken("")
		d.dispatch(AuthError, nil)
		return err
	}
	d.dispatch(UserLoaded, u)
	return nil
}

func (d *Dispatcher) Register(ctx context.Context, name, email, password string) error {
	token, err := d.api.Register(ctx, name, email, password)
	if err != nil {
		return d.authFail(err, RegisterFail)
	}
	d.api.SetToken(token)
	d.dispatch(RegisterSuccess, token)
	return d.LoadUser(ctx)
}

func (d *Dispatcher) Login(ctx context.Context, email, password string) error {
	token, err := d.api.Login(ctx, email, password)
	if err != nil {
		return d.authFail(err, LoginFail)
	}
	d.api.SetToken(token)
	d.dispatch(LoginSuccess, token)
	return d.LoadUser(ctx)
}

func (d *Dispatcher) authFail(err error, failType ActionType) error {
	if apiErr, ok := AsAPIError(err); ok {
		for _, fe := range apiErr.Errors {
			d.SetAlert(fe.Msg, AlertDanger)
		}
	}
	d.api.SetToken("")
	d.dispatch(failType, nil)
	return err
}

// Logout forgets the token and clears the profile.
func (d *Dispatcher) Logout() {
	d.api.SetToken("")
	d.dispatch(ClearProfile, nil)
	d.dispatch(Logout, nil)
}

// ─────────────────────────────────────────────────────────────────────────────
// Profiles
// ─────────────────────────────────────────────────────────────────────────────

func (d *Dispatcher) GetCurrentProfile(ctx context.Context) error {
	p, err := d.api.CurrentProfile(ctx)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(GetProfile, p)
	return nil
}

func (d *Dispatcher) GetProfiles(ctx context.Context) error {
	ps, err := d.api.Profiles(ctx)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(GetProfiles, ps)
	return nil
}

func (d *Dispatcher) GetProfileByID(ctx context.Context, userID string) error {
	p, err := d.api.ProfileByUser(ctx, userID)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(GetProfile, p)
	return nil
}

// CreateProfile creates or, with edit set, updates the caller's profile.
// Only a new profile navigates to the dashboard.
func (d *Dispatcher) CreateProfile(ctx context.Context, form ProfileForm, edit bool) error {
	p, err := d.api.SaveProfile(ctx, form)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(GetProfile, p)
	if edit {
		d.SetAlert("Profile updated", AlertSuccess)
	} else {
		d.SetAlert("Profile created", AlertSuccess)
		d.nav.Navigate("/dashboard")
	}
	return nil
}

func (d *Dispatcher) AddExperience(ctx context.Context, form ExperienceForm) error {
	p, err := d.api.AddExperience(ctx, form)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(UpdateProfile, p)
	d.SetAlert("Experiences updated", AlertSuccess)
	d.nav.Navigate("/dashboard")
	return nil
}

func (d *Dispatcher) AddEducation(ctx context.Context, form EducationForm) error {
	p, err := d.api.AddEducation(ctx, form)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(UpdateProfile, p)
	d.SetAlert("Education updated", AlertSuccess)
	d.nav.Navigate("/dashboard")
	return nil
}

func (d *Dispatcher) DeleteExperience(ctx context.Context, id string) error {
	p, err := d.api.DeleteExperience(ctx, id)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(UpdateProfile, p)
	d.SetAlert("Experience removed", AlertSuccess)
	return nil
}

func (d *Dispatcher) DeleteEducation(ctx context.Context, id string) error {
	p, err := d.api.DeleteEducation(ctx, id)
	if err != nil {
		return d.fail(err, ProfileError)
	}
	d.dispatch(UpdateProfile, p)
	d.SetAlert("Education removed", AlertSuccess)
	return nil
}

// DeleteAccount asks for confirmation, then removes the account and profile.
// A declined confirmation sends nothing and returns ErrCanceled.
func (d *Dispatcher) DeleteAccount(ctx context.Context) error {
	if !d.confirm.Confirm(DeleteAccountPrompt) {
		return ErrCanceled
	}
	if err := d.api.DeleteAccount(ctx); err != nil {
		return d.fail(err, ProfileError)
	}
	d.api.SetToken("")
	d.dispatch(ClearProfile, nil)
	d.dispatch(AccountDeleted, nil)
	d.SetAlert("Your account has been permanently deleted!", AlertSuccess)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Posts
// ─────────────────────────────────────────────────────────────────────────────

func (d *Dispatcher) GetPosts(ctx context.Context) error {
	ps, err := d.api.Posts(ctx)
	if err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(GetPosts, ps)
	return nil
}

func (d *Dispatcher) GetPost(ctx context.Context, id string) error {
	p, err := d.api.Post(ctx, id)
	if err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(GetPost, p)
	return nil
}

func (d *Dispatcher) AddPost(ctx context.Context, text string) error {
	p, err := d.api.AddPost(ctx, text)
	if err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(AddPost, p)
	d.SetAlert("Post created", AlertSuccess)
	return nil
}

func (d *Dispatcher) DeletePost(ctx context.Context, id string) error {
	if err := d.api.DeletePost(ctx, id); err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(DeletePost, id)
	d.SetAlert("Post removed", AlertSuccess)
	return nil
}

func (d *Dispatcher) AddLike(ctx context.Context, postID string) error {
	likes, err := d.api.Like(ctx, postID)
	if err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(UpdateLikes, LikesUpdate{PostID: postID, Likes: likes})
	return nil
}

func (d *Dispatcher) RemoveLike(ctx context.Context, postID string) error {
	likes, err := d.api.Unlike(ctx, postID)
	if err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(UpdateLikes, LikesUpdate{PostID: postID, Likes: likes})
	return nil
}

func (d *Dispatcher) AddComment(ctx context.Context, postID, text string) error {
	comments, err := d.api.AddComment(ctx, postID, text)
	if err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(AddComment, comments)
	d.SetAlert("Comment added", AlertSuccess)
	return nil
}

func (d *Dispatcher) DeleteComment(ctx context.Context, postID, commentID string) error {
	if _, err := d.api.DeleteComment(ctx, postID, commentID); err != nil {
		return d.fail(err, PostError)
	}
	d.dispatch(RemoveComment, commentID)
	d.SetAlert("Comment removed", AlertSuccess)
	return nil
}
