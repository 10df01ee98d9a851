// Package generation wraps a model.Model behind the contract the flow engine
// relies on: a lazy stream of text fragments that never fails. Provider
// errors degrade to a single fixed apology fragment so the turn always
// completes.
package generation

import (
	"context"
	"strings"

	"github.com/vocero-ai/vocero/core"
	"github.com/vocero-ai/vocero/logging"
	"github.com/vocero-ai/vocero/model"
)

// FallbackText is emitted as the sole fragment when the provider fails. It
// doubles as the assistant turn recorded in history for a failed generation.
const FallbackText = "Lo siento, tuve un problema procesando tu solicitud."

// Options configure the generation service.
type Options struct {
	// Logger receives generation diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
	// OnFallback is invoked once whenever a stream degrades to FallbackText.
	OnFallback func()
}

// Service adapts a Model to the flow engine's fragment-stream contract.
type Service struct {
	model      model.Model
	logger     logging.Logger
	onFallback func()
}

// NewService creates a generation service around the given model.
func NewService(m model.Model, optFns ...func(o *Options)) *Service {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{model: m, logger: opts.Logger, onFallback: opts.OnFallback}
}

// Stream produces the assistant reply as a finite, non-restartable sequence
// of text fragments. The channel is closed when the reply is complete. On any
// provider error the stream yields exactly one fallback fragment and ends;
// errors never escape to the caller.
func (s *Service) Stream(
	ctx context.Context,
	instructions string,
	history []core.Turn,
	input string,
	actions []core.ActionSpec,
) <-chan string {
	out := make(chan string, 32)

	go func() {
		defer close(out)

		req := model.Request{
			Instructions: instructions,
			Turns:        history,
			Input:        input,
			Actions:      actions,
			Stream:       true,
		}
		respCh, errCh := s.model.Generate(ctx, req)

		emitted := false
	loop:
		for {
			select {
			case resp, ok := <-respCh:
				if !ok {
					break loop
				}
				text := ""
				if resp.Partial {
					text = resp.Text
				} else if !emitted {
					// Providers that answer in one shot deliver the whole
					// reply on the final response.
					text = resp.Text
				}
				if text == "" {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- text:
					emitted = true
				}
			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				s.emitFallback(ctx, out, err)
				return
			}
		}

		// The response channel closed; a terminal error may still be pending.
		if errCh != nil {
			if err, ok := <-errCh; ok && err != nil {
				s.emitFallback(ctx, out, err)
			}
		}
	}()

	return out
}

// emitFallback logs the provider error and yields the single apology
// fragment that keeps the turn alive.
func (s *Service) emitFallback(ctx context.Context, out chan<- string, err error) {
	s.logger.Error("Generation provider error", "model", s.model.Info().Name, "error", err)
	if s.onFallback != nil {
		s.onFallback()
	}
	select {
	case <-ctx.Done():
	case out <- FallbackText:
	}
}

// Complete is the non-streaming convenience wrapper: it drains Stream and
// returns the concatenated reply.
func (s *Service) Complete(
	ctx context.Context,
	instructions string,
	history []core.Turn,
	input string,
	actions []core.ActionSpec,
) string {
	var b strings.Builder
	for fragment := range s.Stream(ctx, instructions, history, input, actions) {
		b.WriteString(fragment)
	}
	return b.String()
}
