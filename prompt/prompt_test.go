package prompt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var (
	_ Service = (*Client)(nil)
	_ Service = Static{}
	_ Service = Unavailable{}
)

func TestClient_GetPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/public/v2/prompts/root_greeting_system", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "pk", user)
		require.Equal(t, "sk", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"root_greeting_system","prompt":"Eres Giuliana."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pk", "sk")
	got, err := c.GetPrompt(context.Background(), "root_greeting_system")
	require.NoError(t, err)
	require.Equal(t, "Eres Giuliana.", got)
}

func TestClient_GetPrompt_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pk", "sk")
	_, err := c.GetPrompt(context.Background(), "missing")
	require.Error(t, err)
}

func TestClient_GetPrompt_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pk", "sk", func(o *Options) { o.Timeout = 20 * time.Millisecond })
	_, err := c.GetPrompt(context.Background(), "slow")
	require.Error(t, err)
}

func TestStatic(t *testing.T) {
	s := Static{"a": "prompt a"}
	got, err := s.GetPrompt(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "prompt a", got)

	_, err = s.GetPrompt(context.Background(), "b")
	require.Error(t, err)
}
