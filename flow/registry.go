package flow

import (
	"sync"
	"time"

	"github.com/vocero-ai/vocero/logging"
	"github.com/vocero-ai/vocero/prompt"
)

// RegistryOptions configure the flow registry.
type RegistryOptions struct {
	// Prompts resolves managed system prompts; nil means built-in defaults
	// only.
	Prompts prompt.Service
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Hooks receive lifecycle notifications from every instance.
	Hooks Hooks
	// SessionTTL evicts instances idle longer than this. Zero keeps sessions
	// for the process lifetime (the historical behavior).
	SessionTTL time.Duration
}

// Registry is the process-wide map from session identifier to flow Instance.
// Instances are created lazily with atomic construct-if-absent semantics, so
// two concurrent first requests for the same session share one instance.
type Registry struct {
	mu    sync.Mutex
	flows map[string]*Instance

	router    IntentRouter
	generator Generator
	prompts   prompt.Service
	logger    logging.Logger
	hooks     Hooks

	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry wiring every instance to the given router
// and generator. When a session TTL is configured a background sweeper
// evicts idle sessions.
func NewRegistry(router IntentRouter, generator Generator, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	r := &Registry{
		flows:     make(map[string]*Instance),
		router:    router,
		generator: generator,
		prompts:   opts.Prompts,
		logger:    opts.Logger,
		hooks:     opts.Hooks,
		ttl:       opts.SessionTTL,
		stopCh:    make(chan struct{}),
	}
	if r.ttl > 0 {
		go r.sweeper()
	}
	return r
}

// GetOrCreate returns the instance for a session, creating it on first
// access.
func (r *Registry) GetOrCreate(sessionID string) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.flows[sessionID]; ok {
		return inst
	}
	inst := newInstance(sessionID, r.router, r.generator, r.prompts, r.logger, r.hooks)
	r.flows[sessionID] = inst
	r.logger.Info("Flow instance created", "session_id", sessionID)
	return inst
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Close stops the eviction sweeper. Safe to call multiple times.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

func (r *Registry) sweeper() {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

// evictIdle drops sessions idle longer than the TTL. Instances with a turn
// in flight hold their mutex and are skipped.
func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, inst := range r.flows {
		if !inst.mu.TryLock() {
			continue
		}
		idle := inst.LastActive().Before(cutoff)
		inst.mu.Unlock()
		if idle {
			delete(r.flows, id)
			r.logger.Info("Flow instance evicted", "session_id", id)
		}
	}
}
