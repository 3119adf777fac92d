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

	// WebhookInvocations tracks total platform webhook invocations.
	WebhookInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_invocations_total",
			Help: "Total Dialogflow webhook invocations",
		},
		[]string{"platform"},
	)

	// TurnDuration tracks end-to-end turn processing duration.
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turn_duration_seconds",
			Help:    "Conversation turn processing duration",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"platform", "outcome"},
	)

	// SessionStoreOps tracks session store operations.
	SessionStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_ops_total",
			Help: "Session store operations by backend and result",
		},
		[]string{"backend", "op", "result"},
	)

	// AnalyticsEvents tracks analytics events dispatched.
	AnalyticsEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Analytics events dispatched by event kind",
		},
		[]string{"event", "request"},
	)

	// AnalyticsFailures tracks analytics dispatch failures.
	AnalyticsFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_failures_total",
			Help: "Analytics dispatch failures (logged, never surfaced)",
		},
	)

	// CommandMatches tracks command resolver outcomes.
	CommandMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_matches_total",
			Help: "Command resolver matches by command kind",
		},
		[]string{"kind"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordInvocation records a webhook invocation for a platform.
func RecordInvocation(platform string) {
	WebhookInvocations.WithLabelValues(platform).Inc()
}

// RecordTurn records a completed conversation turn.
func RecordTurn(platform, outcome string, duration float64) {
	TurnDuration.WithLabelValues(platform, outcome).Observe(duration)
}

// RecordSessionOp records a session store operation.
func RecordSessionOp(backend, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SessionStoreOps.WithLabelValues(backend, op, result).Inc()
}
