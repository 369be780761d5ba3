// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cartsense/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler      *Handler
	chi          *ChiMiddleware
	maxBodyBytes int64
}

// NewRouter creates a router. maxBodyBytes caps request bodies on routes
// that accept one.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, maxBodyBytes int64) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chi: chiMw, maxBodyBytes: maxBodyBytes}
}

// SetupChi builds the HTTP handler with every route.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chi.CORS()) // must be global to answer preflight
	r.Use(middleware.PrometheusMetrics)
	if h.deps.Latency != nil {
		r.Use(h.deps.Latency.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
		r.Get("/latency", h.HealthLatency)
	})

	// ========================
	// Analyze Endpoint
	// ========================
	// Every method is routed to the handler, which answers OPTIONS and 405
	// itself. Mounted twice for storefronts built against the bare path.
	analyze := chi.Chain(
		router.chi.RateLimitAnalyze(),
		APISecurityHeaders(),
		MaxBodySize(router.maxBodyBytes),
	).HandlerFunc(h.Analyze)
	r.Handle("/api/analyze", analyze)
	r.Handle("/api/v1/analyze", analyze)

	// ========================
	// Catalog Endpoints
	// ========================
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(router.chi.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5, "application/json"))
		r.Get("/contexts", h.CatalogContexts)
		r.Get("/products", h.CatalogProducts)
	})

	// ========================
	// Session Endpoints
	// ========================
	if h.deps.Sessions != nil {
		r.Route("/api/v1/sessions", func(r chi.Router) {
			r.Use(router.chi.RateLimit())
			r.Use(APISecurityHeaders())
			r.Use(MaxBodySize(router.maxBodyBytes))

			r.Post("/", h.CreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Put("/cart", h.UpdateCart)
				r.Post("/refresh", h.RefreshSession)
				if h.deps.Streamer != nil {
					r.Get("/ws", h.SessionStream)
				}
			})
		})
	}

	return r
}
