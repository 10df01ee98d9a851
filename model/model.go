package model

import (
	"context"
	"fmt"

	"github.com/vocero-ai/vocero/core"
)

// Request captures the normalized model input produced by the flow engine.
type Request struct {
	// Instructions is the system prompt of the current conversation node.
	Instructions string `json:"instructions"`
	// Turns is the prior conversation history in chronological order.
	Turns []core.Turn `json:"turns"`
	// Input is the new user utterance, appended after the history.
	Input string `json:"input"`
	// Actions are callable action specs advertised to the provider with
	// automatic selection ("let the model choose whether to invoke").
	Actions []core.ActionSpec `json:"actions,omitempty"`
	// Stream requests incremental fragments instead of one final response.
	Stream bool `json:"stream,omitempty"`
}

// Response is a (partial or final) chunk emitted by a streaming model.
type Response struct {
	// Partial indicates an incremental fragment; a final Response carries the
	// finish reason and, for non-streaming providers, the full text.
	Partial bool `json:"partial"`
	// Text is the fragment (or full) assistant text.
	Text string `json:"text"`
	// FinishReason is set on the final response: "stop", "length", "tool_calls", etc.
	FinishReason string `json:"finish_reason,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name            string `json:"name"`
	Provider        string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsActions bool   `json:"supports_actions"`
}

// Model is the minimal interface required by the generation service.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests.
type MockModel struct {
	info      Info
	responses map[string]string
	failErr   error
	failAfter int
}

// NewMockModel constructs a MockModel with action support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider, SupportsActions: true},
		responses: make(map[string]string),
		failAfter: -1,
	}
}

// AddResponse registers a deterministic canned completion for an input utterance.
func (m *MockModel) AddResponse(input, response string) { m.responses[input] = response }

// FailWith makes Generate report err after emitting n fragments (0 fails
// before any fragment).
func (m *MockModel) FailWith(err error, n int) {
	m.failErr = err
	m.failAfter = n
}

// Generate implements Model; emits optional streaming rune chunks then a
// final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)
		full := m.responses[req.Input]
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", req.Input)
		}
		if m.failErr != nil && m.failAfter == 0 {
			errCh <- m.failErr
			return
		}
		if req.Stream {
			emitted := 0
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
				emitted++
				if m.failErr != nil && emitted == m.failAfter {
					errCh <- m.failErr
					return
				}
			}
		}
		respCh <- Response{Partial: false, Text: full, FinishReason: "stop"}
	}()
	return respCh, errCh
}

// Info implements the Model interface.
func (m *MockModel) Info() Info { return m.info }
