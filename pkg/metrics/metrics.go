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

	// ConversationsCreated tracks total conversations created.
	ConversationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversations_created_total",
			Help: "Total conversations created",
		},
		[]string{"tenant_id"},
	)

	// ConversationTransitions tracks status transitions.
	ConversationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_transitions_total",
			Help: "Total conversation status transitions",
		},
		[]string{"from", "to"},
	)

	// MessagesTotal tracks total messages appended to conversations.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages sent",
		},
		[]string{"tenant_id", "sender_role"},
	)

	// EventsPublished tracks lifecycle events published to the stream.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total lifecycle events published",
		},
		[]string{"type", "status"},
	)

	// DashboardQueries tracks dashboard snapshot computations.
	DashboardQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_queries_total",
			Help: "Total dashboard snapshot queries",
		},
		[]string{"status"},
	)

	// SuggestionDuration tracks LLM reply suggestion latency.
	SuggestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suggestion_duration_seconds",
			Help:    "LLM reply suggestion duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTransition records a conversation status transition.
func RecordTransition(from, to string) {
	ConversationTransitions.WithLabelValues(from, to).Inc()
}

// RecordEvent records a lifecycle event publish attempt.
func RecordEvent(eventType, status string) {
	EventsPublished.WithLabelValues(eventType, status).Inc()
}

// RecordDashboardQuery records a dashboard snapshot computation.
func RecordDashboardQuery(status string) {
	DashboardQueries.WithLabelValues(status).Inc()
}
