// Package config loads Vocero settings from the process environment, with an
// optional .env file for local development. Every setting has a default that
// is safe for local use except the provider API keys.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds all runtime configuration for the server, the seeder and
// the service adapters.
type Settings struct {
	// Addr is the HTTP listen address.
	Addr string

	// Provider selects the generation backend: "openai" (any OpenAI
	// compatible endpoint, Groq in production) or "anthropic".
	Provider string

	// LLMAPIKey authenticates against the generation provider.
	LLMAPIKey string
	// LLMBaseURL overrides the provider endpoint (e.g. the Groq API URL).
	LLMBaseURL string
	// LLMModel is the model identifier sent with every generation request.
	LLMModel string

	// EmbeddingAPIKey and EmbeddingBaseURL configure the embeddings endpoint
	// used by the intent router encoder. They default to the LLM values.
	EmbeddingAPIKey  string
	EmbeddingBaseURL string
	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string

	// Qdrant connection for the intent route index.
	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantUseTLS     bool
	QdrantCollection string

	// RouteThreshold is the minimum similarity score for a route match.
	RouteThreshold float64
	// RouterTimeout bounds one intent router lookup.
	RouterTimeout time.Duration

	// Prompt management service (Langfuse compatible).
	PromptBaseURL   string
	PromptPublicKey string
	PromptSecretKey string
	// PromptTimeout bounds one prompt fetch.
	PromptTimeout time.Duration

	// SessionTTL evicts flow instances idle longer than this. Zero disables
	// eviction.
	SessionTTL time.Duration
}

// Load reads settings from .env (if present) and the process environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	s := &Settings{
		Addr:             getString("VOCERO_ADDR", ":8000"),
		Provider:         getString("VOCERO_PROVIDER", "openai"),
		LLMAPIKey:        os.Getenv("VOCERO_LLM_API_KEY"),
		LLMBaseURL:       getString("VOCERO_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:         getString("VOCERO_LLM_MODEL", "llama-3.1-70b-versatile"),
		EmbeddingModel:   getString("VOCERO_EMBEDDING_MODEL", "text-embedding-3-small"),
		QdrantHost:       getString("VOCERO_QDRANT_HOST", "localhost"),
		QdrantPort:       getInt("VOCERO_QDRANT_PORT", 6334),
		QdrantAPIKey:     os.Getenv("VOCERO_QDRANT_API_KEY"),
		QdrantUseTLS:     getBool("VOCERO_QDRANT_USE_TLS", false),
		QdrantCollection: getString("VOCERO_QDRANT_COLLECTION", "semantic-router-index"),
		RouteThreshold:   getFloat("VOCERO_ROUTE_THRESHOLD", 0.75),
		RouterTimeout:    getDuration("VOCERO_ROUTER_TIMEOUT", 3*time.Second),
		PromptBaseURL:    getString("VOCERO_PROMPT_BASE_URL", "https://cloud.langfuse.com"),
		PromptPublicKey:  os.Getenv("VOCERO_PROMPT_PUBLIC_KEY"),
		PromptSecretKey:  os.Getenv("VOCERO_PROMPT_SECRET_KEY"),
		PromptTimeout:    getDuration("VOCERO_PROMPT_TIMEOUT", 2*time.Second),
		SessionTTL:       getDuration("VOCERO_SESSION_TTL", 0),
	}
	s.EmbeddingAPIKey = getString("VOCERO_EMBEDDING_API_KEY", s.LLMAPIKey)
	s.EmbeddingBaseURL = getString("VOCERO_EMBEDDING_BASE_URL", "")

	if s.Provider != "openai" && s.Provider != "anthropic" {
		return nil, fmt.Errorf("unsupported provider %q", s.Provider)
	}
	return s, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
