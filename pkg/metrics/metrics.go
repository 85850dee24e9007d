// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SessionsTotal tracks total sessions created.
	SessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_total",
			Help: "Total chat sessions created",
		},
	)

	// SessionsDeleted tracks total sessions deleted.
	SessionsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_deleted_total",
			Help: "Total chat sessions deleted",
		},
	)

	// MessagesTotal tracks messages appended to transcripts, by role
	// and kind.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages appended",
		},
		[]string{"role", "kind"},
	)

	// GenerationsStarted tracks generation runs started.
	GenerationsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generations_started_total",
			Help: "Total generation runs started",
		},
	)

	// GenerationsCompleted tracks generation runs that reached commit,
	// by outcome (committed or orphaned when the session was deleted).
	GenerationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generations_completed_total",
			Help: "Total generation runs completed",
		},
		[]string{"outcome"},
	)

	// GenerationDuration tracks wall time from start to text commit.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Generation run duration from start to commit",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordMessage records a message appended to a transcript.
func RecordMessage(role, kind string) {
	MessagesTotal.WithLabelValues(role, kind).Inc()
}

// RecordGeneration records a completed generation run.
func RecordGeneration(outcome string, duration float64) {
	GenerationsCompleted.WithLabelValues(outcome).Inc()
	GenerationDuration.Observe(duration)
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
