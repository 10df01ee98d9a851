package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var (
	_ Encoder = (*OpenAIEncoder)(nil)
	_ Index   = (*QdrantIndex)(nil)
)

type stubEncoder struct {
	vector []float32
	err    error
}

func (s stubEncoder) Embed(context.Context, string) ([]float32, error) {
	return s.vector, s.err
}

type stubIndex struct {
	label string
	score float32
	err   error
}

func (s stubIndex) Query(context.Context, []float32) (string, float32, error) {
	return s.label, s.score, s.err
}

func TestCheck_Match(t *testing.T) {
	r := New(stubEncoder{vector: []float32{1, 0}}, stubIndex{label: LabelHumanHandoff, score: 0.91})
	label, ok := r.Check(context.Background(), "quiero hablar con un humano")
	require.True(t, ok)
	require.Equal(t, LabelHumanHandoff, label)
}

func TestCheck_BelowThreshold(t *testing.T) {
	r := New(stubEncoder{vector: []float32{1, 0}}, stubIndex{label: LabelPricingInfo, score: 0.4})
	_, ok := r.Check(context.Background(), "fue en Córdoba capital")
	require.False(t, ok)
}

func TestCheck_CustomThreshold(t *testing.T) {
	r := New(
		stubEncoder{vector: []float32{1, 0}},
		stubIndex{label: LabelPricingInfo, score: 0.4},
		func(o *Options) { o.Threshold = 0.3 },
	)
	label, ok := r.Check(context.Background(), "cuánto cuesta")
	require.True(t, ok)
	require.Equal(t, LabelPricingInfo, label)
}

func TestCheck_EncoderErrorIsNoMatch(t *testing.T) {
	r := New(stubEncoder{err: errors.New("embedding provider down")}, stubIndex{label: LabelHumanHandoff, score: 1})
	_, ok := r.Check(context.Background(), "transferirme")
	require.False(t, ok)
}

func TestCheck_IndexErrorIsNoMatch(t *testing.T) {
	r := New(stubEncoder{vector: []float32{1, 0}}, stubIndex{err: errors.New("index unavailable")})
	_, ok := r.Check(context.Background(), "transferirme")
	require.False(t, ok)
}

func TestCheck_EmptyLabelIsNoMatch(t *testing.T) {
	r := New(stubEncoder{vector: []float32{1, 0}}, stubIndex{label: "", score: 0.99})
	_, ok := r.Check(context.Background(), "buenas tardes")
	require.False(t, ok)
}

func TestDefaultRoutes_LabelSet(t *testing.T) {
	routes := DefaultRoutes()
	require.Len(t, routes, 3)

	labels := make(map[string]int)
	for _, route := range routes {
		labels[route.Name] = len(route.Utterances)
		require.NotEmpty(t, route.Utterances)
	}
	require.Contains(t, labels, LabelHumanHandoff)
	require.Contains(t, labels, LabelLegalIssueTraffic)
	require.Contains(t, labels, LabelPricingInfo)
}
