package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFlow(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.ObserveFlow("analyze_series", "success", 1500*time.Millisecond)
	m.ObserveFlow("analyze_series", "success", time.Second)
	m.ObserveFlow("analyze_series", "backend_invocation", time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.flowInvocations.WithLabelValues("analyze_series", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.flowInvocations.WithLabelValues("analyze_series", "backend_invocation")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.flowDuration))
}

func TestCountersAndGauge(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.ObserveAnalysis("success")
	m.ObserveExplanation("ready")
	m.ObserveExplanation("ready")
	m.IncStaleCompletion()
	m.SetActiveSessions(3)
	m.IncConversationTurn()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.analysisRuns.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.explanations.WithLabelValues("ready")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.staleCompletions))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.conversationTurns))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFlow("x", "success", time.Second)
		m.ObserveAnalysis("success")
		m.ObserveExplanation("ready")
		m.IncStaleCompletion()
		m.SetActiveSessions(1)
		m.IncConversationTurn()
	})
}

func TestHandler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.ObserveAnalysis("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `radassist_analysis_runs_total{outcome="success"} 1`)
}
