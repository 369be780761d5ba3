// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics in the Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Enrichment Metrics:
  - enrichment_requests_total: Labels mode (direct, remote), result
  - enrichment_duration_seconds: End-to-end latency by mode
  - enrichment_suggestions: Usable suggestions per success
  - provider_requests_total / provider_request_duration_seconds

Recommendation Metrics:
  - rule_evaluations_total: Labels outcome (active, disabled)
  - orchestrator_state_transitions_total: Labels from_state, to_state
  - orchestrator_optimistic_accepts_total
  - orchestrator_stale_results_total
  - orchestrator_fallbacks_total: Labels reason

Session, WebSocket and Event Metrics:
  - sessions_active, sessions_evicted_total
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_received_total, websocket_errors_total
  - events_published_total, events_consumed_total

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

# Usage

	metrics.RecordAPIRequest("POST", "/api/analyze", "200", time.Since(start))
	metrics.RecordEnrichment("direct", "success", elapsed, len(suggestions))
*/
package metrics
