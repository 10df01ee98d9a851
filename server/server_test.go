package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vocero-ai/vocero/core"
	"github.com/vocero-ai/vocero/flow"
	"github.com/vocero-ai/vocero/logging"
	"github.com/vocero-ai/vocero/prompt"
)

type noMatchRouter struct{}

func (noMatchRouter) Check(context.Context, string) (string, bool) { return "", false }

type echoGenerator struct{}

func (echoGenerator) Stream(ctx context.Context, _ string, _ []core.Turn, input string, _ []core.ActionSpec) <-chan string {
	out := make(chan string, 8)
	go func() {
		defer close(out)
		for _, word := range strings.SplitAfter("Entendido: "+input, " ") {
			select {
			case <-ctx.Done():
				return
			case out <- word:
			}
		}
	}()
	return out
}

func newTestServer(t *testing.T) (*Server, *flow.Registry) {
	t.Helper()
	reg := flow.NewRegistry(noMatchRouter{}, echoGenerator{}, func(o *flow.RegistryOptions) {
		o.Logger = logging.NoOpLogger{}
		o.Prompts = prompt.Unavailable{}
	})
	return New(reg, NewMetrics()), reg
}

func postJSON(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "ok", got["status"])
	require.Equal(t, "0.1.0", got["version"])
}

func TestServer_EmptyMessages(t *testing.T) {
	srv, reg := newTestServer(t)

	rec := postJSON(t, srv.Handler(), `{"messages": []}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "No messages received", got["content"])
	require.Equal(t, 0, reg.Len())
}

func TestServer_NonUserLastMessage(t *testing.T) {
	srv, reg := newTestServer(t)

	rec := postJSON(t, srv.Handler(), `{"messages": [{"role": "assistant", "content": "hola"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "error", got.ID)
	require.Len(t, got.Choices, 1)
	require.Equal(t, "", got.Choices[0].Message.Content)
	require.Equal(t, "stop", got.Choices[0].FinishReason)
	require.Equal(t, 0, reg.Len())
}

func TestServer_NonStreamingCompletion(t *testing.T) {
	srv, reg := newTestServer(t)

	rec := postJSON(t, srv.Handler(), `{
		"call": {"id": "call-42"},
		"messages": [{"role": "user", "content": "hola, buenas tardes"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "chat.completion", got.Object)
	require.Len(t, got.Choices, 1)
	require.Equal(t, core.RoleAssistant, got.Choices[0].Message.Role)
	require.Equal(t, "Entendido: hola, buenas tardes", got.Choices[0].Message.Content)

	// The call id keyed the session and the turn was committed to it.
	require.Equal(t, 1, reg.Len())
	inst := reg.GetOrCreate("call-42")
	require.Len(t, inst.History(), 2)
}

func TestServer_DefaultSessionWithoutCallID(t *testing.T) {
	srv, reg := newTestServer(t)

	postJSON(t, srv.Handler(), `{"messages": [{"role": "user", "content": "hola"}]}`)
	postJSON(t, srv.Handler(), `{"messages": [{"role": "user", "content": "buenas"}]}`)

	require.Equal(t, 1, reg.Len())
	require.Len(t, reg.GetOrCreate(defaultSessionID).History(), 4)
}

func TestServer_StreamingCompletion(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler(), `{
		"stream": true,
		"model": "llama-3.1-70b-versatile",
		"messages": [{"role": "user", "content": "hola"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var (
		text       string
		sawStop    bool
		sawDone    bool
		frameCount int
	)
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			sawDone = true
			continue
		}
		frameCount++
		var chunk chatChunk
		require.NoError(t, json.Unmarshal([]byte(payload), &chunk))
		require.Equal(t, "chat.completion.chunk", chunk.Object)
		require.Len(t, chunk.Choices, 1)
		text += chunk.Choices[0].Delta.Content
		if chunk.Choices[0].FinishReason != nil {
			require.Equal(t, "stop", *chunk.Choices[0].FinishReason)
			sawStop = true
		}
	}
	require.NoError(t, scanner.Err())

	require.Equal(t, "Entendido: hola", text)
	require.True(t, sawStop)
	require.True(t, sawDone)
	require.Greater(t, frameCount, 1)
}
