package vocero

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vocero-ai/vocero/config"
	"github.com/vocero-ai/vocero/model"
	"github.com/vocero-ai/vocero/router"
)

// fixedEncoder and fixedIndex replace the embedding and vector services so
// the full stack can run without network access.
type fixedEncoder struct{}

func (fixedEncoder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

type fixedIndex struct {
	label string
	score float32
}

func (f fixedIndex) Query(context.Context, []float32) (string, float32, error) {
	return f.label, f.score, nil
}

func testSettings() *config.Settings {
	return &config.Settings{
		Provider:       "openai",
		RouteThreshold: 0.75,
		RouterTimeout:  time.Second,
	}
}

func newTestVocero(t *testing.T, m model.Model, index router.Index) *Vocero {
	t.Helper()
	v, err := New(testSettings(), func(o *Options) {
		o.Model = m
		o.Encoder = fixedEncoder{}
		o.Index = index
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, v.Close()) })
	return v
}

func TestVocero_EndToEndTurn(t *testing.T) {
	m := model.NewMockModel("mock", "test")
	m.AddResponse("tuve un accidente de tránsito", "Lamento escuchar eso, cuénteme dónde ocurrió.")
	v := newTestVocero(t, m, fixedIndex{label: router.LabelLegalIssueTraffic, score: 0.92})

	body := `{
		"call": {"id": "call-7"},
		"messages": [{"role": "user", "content": "tuve un accidente de tránsito"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/chat/completions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	v.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Choices, 1)
	require.Equal(t, "Lamento escuchar eso, cuénteme dónde ocurrió.", got.Choices[0].Message.Content)

	// The routed intent moved the session out of the greeting before the
	// reply was generated.
	inst := v.Registry().GetOrCreate("call-7")
	require.Equal(t, "qualify_start", string(inst.CurrentNode()))
}

func TestVocero_SeedRequiresOwnIndex(t *testing.T) {
	m := model.NewMockModel("mock", "test")
	v := newTestVocero(t, m, fixedIndex{})

	require.Error(t, v.SeedRoutes(context.Background()))
}

func TestVocero_AnthropicProviderConstructs(t *testing.T) {
	cfg := testSettings()
	cfg.Provider = "anthropic"

	// Anthropic wiring only needs the adapter to construct; no request is
	// made. Overriding the index keeps qdrant out of the picture.
	v, err := New(cfg, func(o *Options) {
		o.Encoder = fixedEncoder{}
		o.Index = fixedIndex{}
	})
	require.NoError(t, err)
	require.NoError(t, v.Close())
}
