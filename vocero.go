// Package vocero provides a high-level façade over the conversation flow
// engine and its services (intent routing, generation, prompt management &
// logging) enabling rapid construction of a single-call voice receptionist.
// Most applications interact with this package by:
//  1. Creating a Vocero via New() from loaded config.Settings (optionally
//     overriding the default service implementations)
//  2. Mounting Handler() on an HTTP server, or
//  3. Running SeedRoutes() once to populate the intent route index
//
// The façade delegates turn orchestration to flow.Registry while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development except the provider API keys.
package vocero

import (
	"context"
	"errors"
	"net/http"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/vocero-ai/vocero/config"
	"github.com/vocero-ai/vocero/flow"
	"github.com/vocero-ai/vocero/generation"
	"github.com/vocero-ai/vocero/logging"
	"github.com/vocero-ai/vocero/model"
	"github.com/vocero-ai/vocero/model/anthropic"
	"github.com/vocero-ai/vocero/model/openai"
	"github.com/vocero-ai/vocero/prompt"
	"github.com/vocero-ai/vocero/router"
	"github.com/vocero-ai/vocero/server"
)

// Version is reported by the health endpoint and the CLI.
const Version = "0.1.0"

// errCustomIndex is returned by SeedRoutes when the index was overridden and
// Vocero does not own a qdrant connection to seed.
var errCustomIndex = errors.New("route seeding requires the built-in qdrant index")

// Options configures the Vocero instance. Any unset service is initialized
// from the loaded settings.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Model overrides the generation backend selected by Settings.Provider.
	Model model.Model
	// Encoder overrides the embeddings encoder used by the intent router.
	Encoder router.Encoder
	// Index overrides the vector index used by the intent router. When set,
	// no qdrant connection is opened and SeedRoutes is unavailable.
	Index router.Index
	// Prompts overrides the prompt management service. When nil it is built
	// from the Langfuse settings, or omitted entirely when no keys are
	// configured (every node then uses its built-in prompt).
	Prompts prompt.Service
}

// Vocero aggregates the flow registry, the intent router and the HTTP
// transport behind one handle.
type Vocero struct {
	cfg      *config.Settings
	logger   logging.Logger
	registry *flow.Registry
	metrics  *server.Metrics
	server   *server.Server
	router   *router.Router
	encoder  router.Encoder
	qdrant   *router.QdrantIndex
}

// New assembles a Vocero instance from the given settings with optional
// overrides.
func New(cfg *config.Settings, optFns ...func(o *Options)) (*Vocero, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	v := &Vocero{cfg: cfg, logger: opts.Logger, metrics: server.NewMetrics()}

	m := opts.Model
	if m == nil {
		m = newModel(cfg)
	}

	v.encoder = opts.Encoder
	if v.encoder == nil {
		v.encoder = router.NewOpenAIEncoder(func(o *router.EncoderOptions) {
			o.Model = cfg.EmbeddingModel
			o.APIKey = cfg.EmbeddingAPIKey
			o.BaseURL = cfg.EmbeddingBaseURL
		})
	}

	index := opts.Index
	if index == nil {
		qdrantIndex, err := router.NewQdrantIndex(router.QdrantConfig{
			Host:       cfg.QdrantHost,
			Port:       cfg.QdrantPort,
			APIKey:     cfg.QdrantAPIKey,
			UseTLS:     cfg.QdrantUseTLS,
			Collection: cfg.QdrantCollection,
		})
		if err != nil {
			return nil, err
		}
		v.qdrant = qdrantIndex
		index = qdrantIndex
	}

	v.router = router.New(v.encoder, index, func(o *router.Options) {
		o.Threshold = float32(cfg.RouteThreshold)
		o.Timeout = cfg.RouterTimeout
		o.Logger = opts.Logger
	})

	gen := generation.NewService(m, func(o *generation.Options) {
		o.Logger = opts.Logger
		o.OnFallback = v.metrics.OnGenerationFallback
	})

	prompts := opts.Prompts
	if prompts == nil && cfg.PromptPublicKey != "" && cfg.PromptSecretKey != "" {
		prompts = prompt.NewClient(cfg.PromptBaseURL, cfg.PromptPublicKey, cfg.PromptSecretKey, func(o *prompt.Options) {
			o.Timeout = cfg.PromptTimeout
		})
	}

	v.registry = flow.NewRegistry(v.router, gen, func(o *flow.RegistryOptions) {
		o.Prompts = prompts
		o.Logger = opts.Logger
		o.Hooks = v.metrics.FlowHooks()
		o.SessionTTL = cfg.SessionTTL
	})

	v.server = server.New(v.registry, v.metrics, func(o *server.Options) {
		o.Logger = opts.Logger
		o.Version = Version
	})

	return v, nil
}

// newModel selects the generation backend from the settings. Load has
// already validated the provider name.
func newModel(cfg *config.Settings) model.Model {
	if cfg.Provider == "anthropic" {
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(cfg.LLMModel)
			o.APIKey = cfg.LLMAPIKey
		})
	}
	return openai.NewModel(func(o *openai.Options) {
		o.Model = cfg.LLMModel
		o.APIKey = cfg.LLMAPIKey
		o.BaseURL = cfg.LLMBaseURL
	})
}

// Handler returns the HTTP handler serving the chat completion, health and
// metrics endpoints.
func (v *Vocero) Handler() http.Handler { return v.server.Handler() }

// Registry exposes the flow registry, mainly for embedding and tests.
func (v *Vocero) Registry() *flow.Registry { return v.registry }

// CheckIntent runs one intent router lookup. Used by the seeder to verify
// the freshly written index answers queries.
func (v *Vocero) CheckIntent(ctx context.Context, text string) (string, bool) {
	return v.router.Check(ctx, text)
}

// SeedRoutes embeds the default route utterances and upserts them into the
// qdrant collection. It is a no-op error when a custom index override is in
// use.
func (v *Vocero) SeedRoutes(ctx context.Context) error {
	if v.qdrant == nil {
		return errCustomIndex
	}
	return v.qdrant.Seed(ctx, v.encoder, router.DefaultRoutes())
}

// Close releases the registry sweeper and the qdrant connection.
func (v *Vocero) Close() error {
	v.registry.Close()
	if v.qdrant != nil {
		return v.qdrant.Close()
	}
	return nil
}
