package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestAPI serves routes (keyed by ServeMux pattern) and returns a client for them.
func newTestAPI(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var got string
	api := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /api/auth": func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, map[string]string{"_id": "u1", "name": "Ada"})
		},
	})

	api.SetToken("tok")
	u, err := api.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", got)
	assert.Equal(t, "Ada", u.Name)

	api.SetToken("")
	_, err = api.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_DecodesErrorBodies(t *testing.T) {
	api := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /api/posts": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []map[string]string{{"msg": "Text is required", "param": "text"}},
			})
		},
		"GET /api/posts/{id}": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"msg": "Post does not exist"})
		},
		"GET /api/posts": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Server error", http.StatusInternalServerError)
		},
	})
	ctx := context.Background()

	_, err := api.AddPost(ctx, "")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Bad Request", apiErr.StatusText)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "Text is required", apiErr.Errors[0].Msg)
	assert.Equal(t, "text", apiErr.Errors[0].Param)

	_, err = api.Post(ctx, "abc")
	apiErr, ok = AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Post does not exist", apiErr.Msg)
	assert.Contains(t, err.Error(), "Post does not exist")

	_, err = api.Posts(ctx)
	apiErr, ok = AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Server error", apiErr.Body)
}

func TestClient_SendsJSONBodies(t *testing.T) {
	var body map[string]any
	api := newTestAPI(t, map[string]http.HandlerFunc{
		"PUT /api/profile/experience": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, map[string]any{"_id": "p1", "status": "Developer"})
		},
	})

	p, err := api.AddExperience(context.Background(), ExperienceForm{Title: "Dev", Company: "Acme", From: "2020-01-02", Current: true})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Dev", body["title"])
	assert.Equal(t, "2020-01-02", body["from"])
	assert.Equal(t, true, body["current"])
	assert.NotContains(t, body, "to")
}
