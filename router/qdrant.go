package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"github.com/vocero-ai/vocero/core"
)

const payloadRouteKey = "route"

// QdrantConfig configures the connection to the qdrant vector database.
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// QdrantIndex implements Index on top of a qdrant collection whose points
// carry the route label in their payload.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantIndex connects to qdrant and returns an index over the configured
// collection.
func NewQdrantIndex(cfg QdrantConfig) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &QdrantIndex{client: client, collection: cfg.Collection}, nil
}

// Query implements Index: top-1 similarity search returning the matched
// route label and its score.
func (q *QdrantIndex) Query(ctx context.Context, vector []float32) (string, float32, error) {
	searchResult, err := q.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          1,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to search points: %w", err)
	}
	if len(searchResult.Result) == 0 {
		return "", 0, nil
	}

	point := searchResult.Result[0]
	label := ""
	if point.Payload != nil {
		if v, ok := point.Payload[payloadRouteKey]; ok {
			if sv, ok := v.Kind.(*qdrant.Value_StringValue); ok {
				label = sv.StringValue
			}
		}
	}
	return label, point.Score, nil
}

// Seed embeds every utterance of every route and upserts the resulting
// points into the collection, creating it (cosine distance) when absent.
// Seeding is an offline operation; the runtime router only reads.
func (q *QdrantIndex) Seed(ctx context.Context, encoder Encoder, routes []Route) error {
	var points []*qdrant.PointStruct
	var vectorSize uint64

	for _, route := range routes {
		for _, utterance := range route.Utterances {
			vector, err := encoder.Embed(ctx, utterance)
			if err != nil {
				return fmt.Errorf("failed to embed %q: %w", utterance, err)
			}
			if vectorSize == 0 {
				vectorSize = uint64(len(vector))
			}
			payload := map[string]*qdrant.Value{
				payloadRouteKey: qdrant.NewValueString(route.Name),
				"utterance":     qdrant.NewValueString(utterance),
			}
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewID(core.NewID()),
				Vectors: qdrant.NewVectors(vector...),
				Payload: payload,
			})
		}
	}
	if len(points) == 0 {
		return fmt.Errorf("no routes to seed")
	}

	if err := q.ensureCollection(ctx, vectorSize); err != nil {
		return err
	}

	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// ensureCollection creates the collection with cosine distance if it does
// not exist yet.
func (q *QdrantIndex) ensureCollection(ctx context.Context, vectorSize uint64) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if exists {
		return nil
	}
	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Close closes the underlying qdrant client.
func (q *QdrantIndex) Close() error {
	return q.client.Close()
}
