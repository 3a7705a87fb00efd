// Package client is the Go counterpart of the browser action layer: a JSON
// HTTP client for the API, a state store with a reducer, and a Dispatcher
// that turns API calls into state actions, alerts and navigation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const maxResponseBytes = 8 << 20

// FieldError is one entry of a validation error response.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status     int
	StatusText string
	// Errors holds the structured validation errors, if the server sent any.
	Errors []FieldError
	// Msg is the single-message body ({"msg": ...}), if the server sent one.
	Msg string
	// Body is the raw body when it was not JSON (e.g. "Server error").
	Body string
}

func (e *APIError) Error() string {
	detail := e.Msg
	switch {
	case detail == "" && len(e.Errors) > 0:
		msgs := make([]string, len(e.Errors))
		for i, fe := range e.Errors {
			msgs[i] = fe.Msg
		}
		detail = strings.Join(msgs, "; ")
	case detail == "":
		detail = e.Body
	}
	if detail == "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.StatusText, detail)
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// Client calls the API with JSON bodies and the stored bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken starts the client with a token already set.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets (or with "" clears) the bearer token sent on every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends a request and decodes a 2xx JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status, StatusText: http.StatusText(status)}
	var payload struct {
		Errors []FieldError `json:"errors"`
		Msg    string       `json:"msg"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Errors = payload.Errors
		apiErr.Msg = payload.Msg
		return apiErr
	}
	apiErr.Body = strings.TrimSpace(string(data))
	return apiErr
}
