package router

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// EncoderOptions configure the OpenAI embeddings encoder.
type EncoderOptions struct {
	Model string
	// BaseURL overrides the embeddings endpoint for OpenAI compatible
	// providers.
	BaseURL string
	// APIKey authenticates against the endpoint. Empty defers to the SDK's
	// environment lookup.
	APIKey string
}

// OpenAIEncoder implements Encoder using the OpenAI embeddings API. The same
// encoder must be used for seeding and querying so vectors live in one space.
type OpenAIEncoder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEncoder creates an embeddings encoder.
func NewOpenAIEncoder(optFns ...func(o *EncoderOptions)) *OpenAIEncoder {
	opts := EncoderOptions{Model: openai.EmbeddingModelTextEmbedding3Small}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(clientOpts...)
	return &OpenAIEncoder{client: &client, model: opts.Model}
}

// Embed implements Encoder.
func (e *OpenAIEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}
	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}
