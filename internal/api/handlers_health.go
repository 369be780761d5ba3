// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/cartsense/internal/middleware"
)

// maxRecentSamples caps ?recent= on the latency endpoint.
const maxRecentSamples = 100

// LatencyReport is the payload of GET /api/v1/health/latency. Recent is
// only filled when ?recent=N is given.
type LatencyReport struct {
	Routes []middleware.RouteStats    `json:"routes"`
	Recent []middleware.RequestSample `json:"recent,omitempty"`
}

// Health statuses.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status             string  `json:"status"`
	Version            string  `json:"version"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
	CatalogProducts    int     `json:"catalog_products"`
	ProviderConfigured bool    `json:"provider_configured"`
	EnrichMode         string  `json:"enrich_mode"`
	BreakerState       string  `json:"breaker_state,omitempty"`
	ActiveSessions     int     `json:"active_sessions"`
	WebSocketClients   int     `json:"websocket_clients"`
	EventsBackend      string  `json:"events_backend,omitempty"`
}

// Health reports component status. The service is degraded, not down,
// while the breaker is open or the provider is unconfigured: carts still
// get rule-based suggestions.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:             StatusHealthy,
		Version:            h.deps.Version,
		UptimeSeconds:      time.Since(h.startTime).Seconds(),
		CatalogProducts:    h.deps.Catalog.Len(),
		ProviderConfigured: h.deps.Generator.Configured(),
		EnrichMode:         h.deps.EnrichMode,
		EventsBackend:      h.deps.EventsBackend,
	}
	if h.deps.Breaker != nil {
		status.BreakerState = h.deps.Breaker.State()
	}
	if h.deps.Sessions != nil {
		status.ActiveSessions = h.deps.Sessions.Len()
	}
	if h.deps.Streamer != nil {
		status.WebSocketClients = h.deps.Streamer.ClientCount()
	}

	if status.BreakerState == "open" || (h.deps.EnrichMode == "direct" && !status.ProviderConfigured) {
		status.Status = StatusDegraded
	}
	WriteSuccess(w, r, status)
}

// HealthLive answers liveness probes regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady reports whether the service can take traffic: the catalog
// must be loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.deps.Catalog.Len() == 0 {
		NewResponseWriter(w, r).ServiceUnavailable("Catalog is empty")
		return
	}
	WriteSuccess(w, r, map[string]interface{}{"ready": true})
}

// HealthLatency returns per-route latency percentiles from the recent
// request window.
func (h *Handler) HealthLatency(w http.ResponseWriter, r *http.Request) {
	recent := 0
	if raw := r.URL.Query().Get("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxRecentSamples {
			NewResponseWriter(w, r).BadRequest("recent must be an integer between 0 and " + strconv.Itoa(maxRecentSamples))
			return
		}
		recent = n
	}

	report := LatencyReport{Routes: []middleware.RouteStats{}}
	if h.deps.Latency != nil {
		report.Routes = h.deps.Latency.Stats()
		if recent > 0 {
			report.Recent = h.deps.Latency.Recent(recent)
		}
	}
	WriteSuccess(w, r, report)
}
