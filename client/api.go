package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/devconnect/internal/models"
)

// ProfileForm is the body of a create-or-update profile call. Skills is a
// comma separated list.
type ProfileForm struct {
	Company        string `json:"company,omitempty"`
	Website        string `json:"website,omitempty"`
	Location       string `json:"location,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername,omitempty"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube,omitempty"`
	Twitter        string `json:"twitter,omitempty"`
	Facebook       string `json:"facebook,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty"`
	Instagram      string `json:"instagram,omitempty"`
}

// ExperienceForm is the body of an add-experience call. Dates are YYYY-MM-DD.
type ExperienceForm struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// EducationForm is the body of an add-education call. Dates are YYYY-MM-DD.
type EducationForm struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type textBody struct {
	Text string `json:"text"`
}

func escape(id string) string { return url.PathEscape(id) }

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth", map[string]string{"email": email, "password": password}, &out)
	return out.Token, err
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/users", map[string]string{"name": name, "email": email, "password": password}, &out)
	return out.Token, err
}

// CurrentUser returns the account behind the token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CurrentProfile(ctx context.Context) (*models.Profile, error) {
	return c.profile(ctx, http.MethodGet, "/api/profile/me", nil)
}

func (c *Client) Profiles(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProfileByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return c.profile(ctx, http.MethodGet, "/api/profile/user/"+escape(userID), nil)
}

func (c *Client) SaveProfile(ctx context.Context, form ProfileForm) (*models.Profile, error) {
	return c.profile(ctx, http.MethodPost, "/api/profile", form)
}

func (c *Client) AddExperience(ctx context.Context, form ExperienceForm) (*models.Profile, error) {
	return c.profile(ctx, http.MethodPut, "/api/profile/experience", form)
}

func (c *Client) DeleteExperience(ctx context.Context, id string) (*models.Profile, error) {
	return c.profile(ctx, http.MethodDelete, "/api/profile/experience/"+escape(id), nil)
}

func (c *Client) AddEducation(ctx context.Context, form EducationForm) (*models.Profile, error) {
	return c.profile(ctx, http.MethodPut, "/api/profile/education", form)
}

func (c *Client) DeleteEducation(ctx context.Context, id string) (*models.Profile, error) {
	return c.profile(ctx, http.MethodDelete, "/api/profile/education/"+escape(id), nil)
}

// DeleteAccount removes the caller's user and profile.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}

func (c *Client) profile(ctx context.Context, method, path string, body any) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, method, path, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Post(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+escape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddPost(ctx context.Context, text string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", textBody{Text: text}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+escape(id), nil, nil)
}

func (c *Client) Like(ctx context.Context, postID string) ([]models.Like, error) {
	var out []models.Like
	err := c.do(ctx, http.MethodPut, "/api/posts/like/"+escape(postID), nil, &out)
	return out, err
}

func (c *Client) Unlike(ctx context.Context, postID string) ([]models.Like, error) {
	var out []models.Like
	err := c.do(ctx, http.MethodPut, "/api/posts/unlike/"+escape(postID), nil, &out)
	return out, err
}

func (c *Client) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	var out []models.Comment
	err := c.do(ctx, http.MethodPost, "/api/posts/comment/"+escape(postID), textBody{Text: text}, &out)
	return out, err
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) ([]models.Comment, error) {
	var out []models.Comment
	err := c.do(ctx, http.MethodDelete, "/api/posts/comment/"+escape(postID)+"/"+escape(commentID), nil, &out)
	return out, err
}
