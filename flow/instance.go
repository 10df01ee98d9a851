package flow

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vocero-ai/vocero/core"
	"github.com/vocero-ai/vocero/logging"
	"github.com/vocero-ai/vocero/prompt"
)

// IntentRouter classifies an utterance into an intent label. ok is false when
// nothing matched; implementations must never fail the turn.
type IntentRouter interface {
	Check(ctx context.Context, text string) (label string, ok bool)
}

// Generator produces the assistant reply as a finite stream of text
// fragments. The channel closes when the reply is complete; provider
// failures degrade inside the generator, they never surface here.
type Generator interface {
	Stream(ctx context.Context, instructions string, history []core.Turn, input string, actions []core.ActionSpec) <-chan string
}

// Hooks receive flow lifecycle notifications, e.g. for metrics. All fields
// are optional. Hooks run inside the turn critical section and must be fast.
type Hooks struct {
	// OnTurn fires once per processed turn with the node that generated the
	// reply.
	OnTurn func(node NodeName)
	// OnTransition fires for every applied state transition.
	OnTransition func(from, to NodeName, phase string)
}

// Instance is the per-session conversation state machine. All state is
// mutated exclusively by ProcessStream under the instance mutex, so turns
// for one session execute strictly serially even under concurrent requests.
type Instance struct {
	id string

	mu      sync.Mutex
	current NodeName
	history []core.Turn
	data    map[string]any

	router    IntentRouter
	generator Generator
	prompts   prompt.Service
	logger    logging.Logger
	hooks     Hooks

	lastActive atomic.Int64 // unix nanos of the last completed turn
}

// newInstance creates an instance in the initial node. Construction happens
// through the Registry.
func newInstance(id string, router IntentRouter, generator Generator, prompts prompt.Service, logger logging.Logger, hooks Hooks) *Instance {
	inst := &Instance{
		id:        id,
		current:   InitialNode,
		history:   []core.Turn{},
		data:      map[string]any{},
		router:    router,
		generator: generator,
		prompts:   prompts,
		logger:    logger,
		hooks:     hooks,
	}
	inst.touch()
	return inst
}

// ID returns the session identifier.
func (i *Instance) ID() string { return i.id }

// CurrentNode returns the current conversation state.
func (i *Instance) CurrentNode() NodeName {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current
}

// History returns a copy of the turn records.
func (i *Instance) History() []core.Turn {
	i.mu.Lock()
	defer i.mu.Unlock()
	history := make([]core.Turn, len(i.history))
	copy(history, i.history)
	return history
}

// Slots returns a copy of the collected slot values. The map is reserved for
// slot-filling transitions; nothing writes to it yet.
func (i *Instance) Slots() map[string]any {
	i.mu.Lock()
	defer i.mu.Unlock()
	slots := make(map[string]any, len(i.data))
	for k, v := range i.data {
		slots[k] = v
	}
	return slots
}

// LastActive reports when the instance last completed a turn.
func (i *Instance) LastActive() time.Time {
	return time.Unix(0, i.lastActive.Load())
}

func (i *Instance) touch() { i.lastActive.Store(time.Now().UnixNano()) }

// ProcessStream runs one turn and streams the reply fragments as they
// arrive. The channel closes when the turn completes. Turns for the same
// session are serialized; a second concurrent call blocks until the first
// finishes its post-turn phase.
//
// If the consumer disconnects mid-stream (ctx cancelled), the reply produced
// up to the last emitted fragment is still committed to history and the
// post-turn transition still runs.
func (i *Instance) ProcessStream(ctx context.Context, text string) <-chan string {
	out := make(chan string, 32)

	go func() {
		defer close(out)
		i.mu.Lock()
		defer i.mu.Unlock()
		defer i.touch()

		// Phase A: router-driven pre-turn transition.
		if label, ok := i.router.Check(ctx, text); ok {
			if next, changed := preTurnTransition(i.current, label); changed {
				i.transition(next, PhasePreTurn)
			}
		}

		node, _ := Lookup(i.current)
		instructions := node.SystemPrompt(ctx, i.prompts, i.logger)
		if i.hooks.OnTurn != nil {
			i.hooks.OnTurn(i.current)
		}

		history := make([]core.Turn, len(i.history))
		copy(history, i.history)

		// Phase B: stream the reply, forwarding fragments to the caller.
		var full strings.Builder
	stream:
		for fragment := range i.generator.Stream(ctx, instructions, history, text, node.Actions) {
			full.WriteString(fragment)
			select {
			case out <- fragment:
			case <-ctx.Done():
				break stream
			}
		}

		// Both turn records are always appended, even for an empty reply.
		i.history = append(i.history, core.NewUserTurn(text), core.NewAssistantTurn(full.String()))

		// Phase C: heuristic post-turn transition, keyed off the node the
		// pre-turn phase selected.
		if next, changed := postTurnTransition(i.current, text); changed {
			i.transition(next, PhasePostTurn)
		}
	}()

	return out
}

// Process is the non-streaming wrapper: it drains ProcessStream and returns
// the assembled reply.
func (i *Instance) Process(ctx context.Context, text string) string {
	var b strings.Builder
	for fragment := range i.ProcessStream(ctx, text) {
		b.WriteString(fragment)
	}
	return b.String()
}

// transition replaces the current node reference. Callers hold i.mu.
func (i *Instance) transition(to NodeName, phase string) {
	from := i.current
	i.current = to
	i.logger.Info("State transition", "session_id", i.id, "from_node", string(from), "to_node", string(to), "phase", phase)
	if i.hooks.OnTransition != nil {
		i.hooks.OnTransition(from, to, phase)
	}
}
