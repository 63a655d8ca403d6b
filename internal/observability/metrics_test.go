package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_JobLifecycle(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.JobSubmitted("best5")
	m.JobSubmitted("best5")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubmittedTotal.WithLabelValues("best5")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Queued))

	m.JobStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Running))

	m.JobFinished("best5", "done", 20*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Running))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FinishedTotal.WithLabelValues("best5", "done")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DurationSeconds))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.JobSubmitted("global_mean")
		m.JobStarted()
		m.JobFinished("global_mean", "failed", time.Second)
	})
	assert.NotNil(t, m.Handler())
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.JobSubmitted("states_mean")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `survey_stats_jobs_submitted_total{operation="states_mean"} 1`)
}
