// Package server exposes the conversation flow engine over an OpenAI
// compatible chat completions endpoint, the framing expected by voice
// platforms that speak the "custom LLM" protocol. The transport stays thin:
// it extracts the session identifier and the last user utterance, delegates
// to the flow registry and frames the reply as JSON or SSE.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vocero-ai/vocero/core"
	"github.com/vocero-ai/vocero/flow"
	"github.com/vocero-ai/vocero/logging"
)

const defaultSessionID = "default_session"

// Options configure the HTTP server.
type Options struct {
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Version is reported by the health endpoint.
	Version string
}

// Server wires the flow registry to the HTTP surface.
type Server struct {
	registry *flow.Registry
	metrics  *Metrics
	logger   logging.Logger
	version  string
}

// New creates a Server around the given registry and metrics.
func New(registry *flow.Registry, metrics *Metrics, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}, Version: "0.1.0"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{registry: registry, metrics: metrics, logger: opts.Logger, version: opts.Version}
}

// Handler returns the chi router serving the transport surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)
	r.Post("/chat/completions", s.handleChatCompletion)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Invalid chat completion body", "error", err)
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// Malformed input degrades to a well-formed reply; the engine is not
	// invoked and no state is touched.
	if len(req.Messages) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]string{"content": "No messages received"})
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != core.RoleUser {
		s.writeJSON(w, http.StatusOK, chatResponse{
			ID:      "error",
			Choices: []choice{{Message: &message{Content: ""}, FinishReason: "stop"}},
		})
		return
	}

	sessionID := req.sessionID()
	inst := s.registry.GetOrCreate(sessionID)

	if req.Stream {
		s.streamCompletion(w, r, inst, req.Model, last.Content)
		return
	}

	reply := inst.Process(r.Context(), last.Content)
	s.writeJSON(w, http.StatusOK, chatResponse{
		ID:      "chatcmpl-" + core.NewID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Choices: []choice{{
			Index:        0,
			Message:      &message{Role: core.RoleAssistant, Content: reply},
			FinishReason: "stop",
		}},
	})
}

// streamCompletion frames the fragment stream as server-sent events using
// the chat.completion.chunk shape, terminated by a stop chunk and [DONE].
func (s *Server) streamCompletion(w http.ResponseWriter, r *http.Request, inst *flow.Instance, modelName, text string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	chunkID := "chatcmpl-" + core.NewID()
	created := time.Now().Unix()

	for fragment := range inst.ProcessStream(r.Context(), text) {
		if fragment == "" {
			continue
		}
		s.writeChunk(w, chatChunk{
			ID:      chunkID,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   modelName,
			Choices: []chunkChoice{{Index: 0, Delta: delta{Content: fragment}}},
		})
		flusher.Flush()
	}

	stop := "stop"
	s.writeChunk(w, chatChunk{
		ID:      chunkID,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   modelName,
		Choices: []chunkChoice{{Index: 0, Delta: delta{}, FinishReason: &stop}},
	})
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (s *Server) writeChunk(w http.ResponseWriter, chunk chatChunk) {
	payload, err := json.Marshal(chunk)
	if err != nil {
		s.logger.Error("Failed to marshal stream chunk", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if s.metrics != nil {
			s.metrics.requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).Inc()
		}
	})
}
