// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it for
    logging.Ctx and the response envelope
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - LatencyTracker: sliding window of recent requests with per-route
    percentiles, reported by the health endpoint

All middleware has the chi signature func(http.Handler) http.Handler and is
installed with r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(tracker.Middleware)

Response writers are wrapped with chi's WrapResponseWriter, which keeps
http.Hijacker available for websocket upgrades.
*/
package middleware
