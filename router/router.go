// Package router implements the semantic intent router: free text is
// embedded and matched against a pre-seeded catalogue of labeled example
// utterances in a vector similarity index. The router is read-only at
// runtime; seeding happens offline (see Seed).
//
// The router never fails a turn: any embedding or index error, and any match
// below the acceptance threshold, is reported as "no match".
package router

import (
	"context"
	"time"

	"github.com/vocero-ai/vocero/logging"
)

// Encoder turns text into a fixed-length numeric vector.
type Encoder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is a vector similarity index over labeled utterances. Query returns
// the best-matching route label with its similarity score.
type Index interface {
	Query(ctx context.Context, vector []float32) (label string, score float32, err error)
}

// Options configure the router.
type Options struct {
	// Threshold is the minimum similarity score for a match.
	Threshold float32
	// Timeout bounds one Check call (embedding plus index query). Zero
	// disables the bound.
	Timeout time.Duration
	// Logger receives route check diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Router classifies utterances into discrete intent labels.
type Router struct {
	encoder   Encoder
	index     Index
	threshold float32
	timeout   time.Duration
	logger    logging.Logger
}

// New creates a Router over the given encoder and index.
func New(encoder Encoder, index Index, optFns ...func(o *Options)) *Router {
	opts := Options{Threshold: 0.75, Timeout: 3 * time.Second, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{
		encoder:   encoder,
		index:     index,
		threshold: opts.Threshold,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}
}

// Check classifies the utterance. It returns the matched route label and
// true, or "" and false when nothing matched. Errors are logged and reported
// as no match; the caller can always proceed with the turn.
func (r *Router) Check(ctx context.Context, text string) (string, bool) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	vector, err := r.encoder.Embed(ctx, text)
	if err != nil {
		r.logger.Warn("Route check failed to embed utterance", "error", err)
		return "", false
	}

	label, score, err := r.index.Query(ctx, vector)
	if err != nil {
		r.logger.Warn("Route check failed to query index", "error", err)
		return "", false
	}
	if label == "" || score < r.threshold {
		r.logger.Debug("Route check below threshold", "route", label, "score", score)
		return "", false
	}
	r.logger.Debug("Route matched", "route", label, "score", score)
	return label, true
}
