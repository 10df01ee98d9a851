package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vocero-ai/vocero/core"
	"github.com/vocero-ai/vocero/model"
)

func collect(ch <-chan string) []string {
	var out []string
	for f := range ch {
		out = append(out, f)
	}
	return out
}

func TestStream_ForwardsFragments(t *testing.T) {
	m := model.NewMockModel("test", "mock")
	m.AddResponse("hola", "Buenos días")

	s := NewService(m)
	fragments := collect(s.Stream(context.Background(), "instr", nil, "hola", nil))

	require.NotEmpty(t, fragments)
	require.Equal(t, "Buenos días", strings.Join(fragments, ""))
}

func TestStream_FallbackOnImmediateError(t *testing.T) {
	m := model.NewMockModel("test", "mock")
	m.FailWith(errors.New("provider down"), 0)

	fallbacks := 0
	s := NewService(m, func(o *Options) { o.OnFallback = func() { fallbacks++ } })
	fragments := collect(s.Stream(context.Background(), "instr", nil, "hola", nil))

	require.Equal(t, []string{FallbackText}, fragments)
	require.Equal(t, 1, fallbacks)
}

func TestStream_FallbackMidStream(t *testing.T) {
	m := model.NewMockModel("test", "mock")
	m.AddResponse("hola", "Buenos días")
	m.FailWith(errors.New("connection reset"), 3)

	s := NewService(m)
	fragments := collect(s.Stream(context.Background(), "instr", nil, "hola", nil))

	// Exactly one fallback fragment terminates the sequence cleanly.
	require.Equal(t, FallbackText, fragments[len(fragments)-1])
	require.Equal(t, 1, countOf(fragments, FallbackText))
}

func countOf(fragments []string, want string) int {
	n := 0
	for _, f := range fragments {
		if f == want {
			n++
		}
	}
	return n
}

func TestStream_HistoryAndActionsForwarded(t *testing.T) {
	m := &capturingModel{MockModel: model.NewMockModel("test", "mock")}
	s := NewService(m)

	history := []core.Turn{core.NewUserTurn("a"), core.NewAssistantTurn("b")}
	actions := []core.ActionSpec{{Name: "book_appointment"}}
	collect(s.Stream(context.Background(), "instr", history, "c", actions))

	require.Equal(t, "instr", m.req.Instructions)
	require.Equal(t, history, m.req.Turns)
	require.Equal(t, "c", m.req.Input)
	require.Equal(t, actions, m.req.Actions)
	require.True(t, m.req.Stream)
}

type capturingModel struct {
	*model.MockModel
	req model.Request
}

func (c *capturingModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	c.req = req
	return c.MockModel.Generate(ctx, req)
}

func TestComplete_Concatenates(t *testing.T) {
	m := model.NewMockModel("test", "mock")
	m.AddResponse("hola", "Hola, ¿en qué puedo ayudar?")

	s := NewService(m)
	got := s.Complete(context.Background(), "instr", nil, "hola", nil)
	require.Equal(t, "Hola, ¿en qué puedo ayudar?", got)
}
