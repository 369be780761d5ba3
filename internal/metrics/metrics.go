// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for production observability:
// - API endpoint latency and throughput
// - Enrichment and provider calls
// - Rule path outcomes
// - Orchestrator state transitions
// - Sessions, WebSocket clients and the event bus

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Enrichment Metrics
	EnrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Total number of enrichment requests by outcome",
		},
		[]string{"mode", "result"}, // result: success, config_error, transport_error, schema_error, empty_result
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "End-to-end enrichment request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"mode"},
	)

	EnrichmentSuggestions = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_suggestions",
			Help:    "Usable suggestions per successful enrichment after hydration",
			Buckets: []float64{1, 2, 4, 6, 8, 10, 15},
		},
	)

	// Provider Metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of generation requests sent to the model provider",
		},
		[]string{"provider", "status"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Model provider request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"provider"},
	)

	// Rule Path Metrics
	RuleEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_evaluations_total",
			Help: "Total number of local rule path evaluations by outcome",
		},
		[]string{"outcome"}, // active, disabled
	)

	// Orchestrator Metrics
	OrchestratorTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_state_transitions_total",
			Help: "Total number of recommendation state machine transitions",
		},
		[]string{"from_state", "to_state"},
	)

	OrchestratorOptimisticAccepts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orchestrator_optimistic_accepts_total",
			Help: "Cart changes that accepted suggested items without recomputation",
		},
	)

	OrchestratorStaleResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orchestrator_stale_results_total",
			Help: "Enrichment results discarded because the cart changed while in flight",
		},
	)

	OrchestratorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_fallbacks_total",
			Help: "Enrichment outcomes recovered through the local rule path",
		},
		[]string{"reason"},
	)

	// Session Metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of live recommendation sessions",
		},
	)

	SessionsEvicted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_evicted_total",
			Help: "Total number of sessions removed from the registry",
		},
		[]string{"reason"}, // capacity, idle, deleted
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of state events published to the bus",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of state events consumed from the bus",
		},
		[]string{"topic", "result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEnrichment records one enrichment call and its outcome.
func RecordEnrichment(mode, result string, duration time.Duration, suggestions int) {
	EnrichmentRequests.WithLabelValues(mode, result).Inc()
	EnrichmentDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if result == "success" {
		EnrichmentSuggestions.Observe(float64(suggestions))
	}
}

// RecordProviderRequest records one model provider round trip.
func RecordProviderRequest(provider, status string, duration time.Duration) {
	ProviderRequests.WithLabelValues(provider, status).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordRuleEvaluation records a rule path outcome.
func RecordRuleEvaluation(active bool) {
	if active {
		RuleEvaluations.WithLabelValues("active").Inc()
		return
	}
	RuleEvaluations.WithLabelValues("disabled").Inc()
}

// RecordTransition records a state machine transition. Self-transitions
// are not recorded.
func RecordTransition(from, to string) {
	if from == to {
		return
	}
	OrchestratorTransitions.WithLabelValues(from, to).Inc()
}

// RecordSessionEviction records a session leaving the registry.
func RecordSessionEviction(reason string) {
	SessionsEvicted.WithLabelValues(reason).Inc()
}
