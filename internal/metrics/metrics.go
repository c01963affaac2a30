// Package metrics provides the Prometheus collectors for flow invocations,
// explanation state changes and sessions.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	flowInvocations   *prometheus.CounterVec
	flowDuration      *prometheus.HistogramVec
	analysisRuns      *prometheus.CounterVec
	explanations      *prometheus.CounterVec
	staleCompletions  prometheus.Counter
	activeSessions    prometheus.Gauge
	conversationTurns prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		flowInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radassist_flow_invocations_total",
			Help: "Backend flow invocations by stage and outcome.",
		}, []string{"stage", "outcome"}),
		flowDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "radassist_flow_duration_seconds",
			Help:    "Duration of backend flow invocations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"stage"}),
		analysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radassist_analysis_runs_total",
			Help: "Fan-out analysis runs by outcome.",
		}, []string{"outcome"}),
		explanations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radassist_explanation_transitions_total",
			Help: "Explanation state transitions by target state.",
		}, []string{"state"}),
		staleCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radassist_explanation_stale_completions_total",
			Help: "Explanation responses discarded because a newer run or request superseded them.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radassist_active_sessions",
			Help: "Sessions currently held in memory.",
		}),
		conversationTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radassist_conversation_turns_total",
			Help: "Confirmed question and answer pairs.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.flowInvocations, m.flowDuration, m.analysisRuns, m.explanations,
		m.staleCompletions, m.activeSessions, m.conversationTurns,
		collectors.NewGoCollector(),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFlow records one backend invocation.
func (m *Metrics) ObserveFlow(stage, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.flowInvocations.WithLabelValues(stage, outcome).Inc()
	m.flowDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) ObserveAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.analysisRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveExplanation(state string) {
	if m == nil {
		return
	}
	m.explanations.WithLabelValues(state).Inc()
}

func (m *Metrics) IncStaleCompletion() {
	if m == nil {
		return
	}
	m.staleCompletions.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *Metrics) IncConversationTurn() {
	if m == nil {
		return
	}
	m.conversationTurns.Inc()
}
