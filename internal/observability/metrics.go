// Package observability provides prometheus metrics and tracing setup for
// the job scheduler.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "survey_stats"
	jobsSubsystem    = "jobs"
)

// Metrics holds the scheduler's prometheus collectors.
//
// All methods are safe on a nil *Metrics so callers that don't care about
// metrics can pass nil.
type Metrics struct {
	// SubmittedTotal counts accepted submissions. Labels: operation
	SubmittedTotal *prometheus.CounterVec

	// FinishedTotal counts jobs reaching a terminal state.
	// Labels: operation, status (done, failed)
	FinishedTotal *prometheus.CounterVec

	// DurationSeconds measures execution time from dequeue to terminal state.
	// Labels: operation
	DurationSeconds *prometheus.HistogramVec

	// Queued is the number of jobs waiting for a worker.
	Queued prometheus.Gauge

	// Running is the number of jobs a worker is executing.
	Running prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers the collectors on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: jobsSubsystem,
				Name:      "submitted_total",
				Help:      "Jobs accepted by the scheduler",
			},
			[]string{"operation"},
		),
		FinishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: jobsSubsystem,
				Name:      "finished_total",
				Help:      "Jobs that reached a terminal state",
			},
			[]string{"operation", "status"},
		),
		DurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: jobsSubsystem,
				Name:      "duration_seconds",
				Help:      "Job execution time",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		Queued: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: jobsSubsystem,
			Name:      "queued",
			Help:      "Jobs waiting for a worker",
		}),
		Running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: jobsSubsystem,
			Name:      "running",
			Help:      "Jobs being executed",
		}),
		gatherer: reg,
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) JobSubmitted(operation string) {
	if m == nil {
		return
	}
	m.SubmittedTotal.WithLabelValues(operation).Inc()
	m.Queued.Inc()
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.Queued.Dec()
	m.Running.Inc()
}

func (m *Metrics) JobFinished(operation, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Running.Dec()
	m.FinishedTotal.WithLabelValues(operation, status).Inc()
	m.DurationSeconds.WithLabelValues(operation).Observe(elapsed.Seconds())
}
