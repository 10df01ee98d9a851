package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", s.Addr)
	require.Equal(t, "openai", s.Provider)
	require.Equal(t, "llama-3.1-70b-versatile", s.LLMModel)
	require.Equal(t, "semantic-router-index", s.QdrantCollection)
	require.Equal(t, 6334, s.QdrantPort)
	require.Equal(t, 0.75, s.RouteThreshold)
	require.Equal(t, time.Duration(0), s.SessionTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VOCERO_ADDR", ":9999")
	t.Setenv("VOCERO_QDRANT_PORT", "7000")
	t.Setenv("VOCERO_QDRANT_USE_TLS", "true")
	t.Setenv("VOCERO_ROUTE_THRESHOLD", "0.6")
	t.Setenv("VOCERO_SESSION_TTL", "30m")
	t.Setenv("VOCERO_LLM_API_KEY", "key-1")
	t.Setenv("VOCERO_EMBEDDING_API_KEY", "")

	s, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", s.Addr)
	require.Equal(t, 7000, s.QdrantPort)
	require.True(t, s.QdrantUseTLS)
	require.Equal(t, 0.6, s.RouteThreshold)
	require.Equal(t, 30*time.Minute, s.SessionTTL)
	// Embedding key falls back to the LLM key when unset.
	require.Equal(t, "key-1", s.EmbeddingAPIKey)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("VOCERO_PROVIDER", "cohere")
	_, err := Load()
	require.Error(t, err)
}
