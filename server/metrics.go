package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vocero-ai/vocero/flow"
)

// Metrics aggregates the prometheus instruments the engine reports into.
type Metrics struct {
	registry *prometheus.Registry

	turnsTotal          *prometheus.CounterVec
	transitionsTotal    *prometheus.CounterVec
	generationFallbacks prometheus.Counter
	requestsTotal       *prometheus.CounterVec
}

// NewMetrics creates and registers the Vocero instruments on a private
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocero_turns_total",
			Help: "Total number of processed turns by conversation node",
		},
		[]string{"node"},
	)
	m.transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocero_transitions_total",
			Help: "Total number of state transitions",
		},
		[]string{"from", "to", "phase"},
	)
	m.generationFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vocero_generation_fallbacks_total",
			Help: "Total number of generation streams degraded to the fallback reply",
		},
	)
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocero_http_requests_total",
			Help: "Total number of HTTP requests by path and status",
		},
		[]string{"path", "status"},
	)
	m.registry.MustRegister(m.turnsTotal, m.transitionsTotal, m.generationFallbacks, m.requestsTotal)
	return m
}

// FlowHooks returns the lifecycle hooks that feed the flow instruments.
func (m *Metrics) FlowHooks() flow.Hooks {
	return flow.Hooks{
		OnTurn: func(node flow.NodeName) {
			m.turnsTotal.WithLabelValues(string(node)).Inc()
		},
		OnTransition: func(from, to flow.NodeName, phase string) {
			m.transitionsTotal.WithLabelValues(string(from), string(to), phase).Inc()
		},
	}
}

// OnGenerationFallback counts one degraded generation stream.
func (m *Metrics) OnGenerationFallback() { m.generationFallbacks.Inc() }

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
