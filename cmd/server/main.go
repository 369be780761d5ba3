// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cartsense/internal/api"
	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/config"
	"github.com/tomtom215/cartsense/internal/enrich"
	"github.com/tomtom215/cartsense/internal/events"
	"github.com/tomtom215/cartsense/internal/logging"
	"github.com/tomtom215/cartsense/internal/middleware"
	"github.com/tomtom215/cartsense/internal/orchestrator"
	"github.com/tomtom215/cartsense/internal/provider"
	"github.com/tomtom215/cartsense/internal/recommend"
	"github.com/tomtom215/cartsense/internal/session"
	"github.com/tomtom215/cartsense/internal/supervisor"
	"github.com/tomtom215/cartsense/internal/supervisor/services"
	ws "github.com/tomtom215/cartsense/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	latencySamples     = 2000
	slowRequestLatency = 2 * time.Second
	heartbeatInterval  = 5 * time.Minute
)

//nolint:gocyclo // sequential startup wiring
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("enrich_mode", cfg.Enrich.Mode).
		Str("events_backend", cfg.Events.Backend).
		Bool("provider_configured", cfg.ProviderConfigured()).
		Msg("Starting cartsense")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to the storefront origins")
	}

	// === CATALOG AND RULES ===

	cat, err := catalog.Load(cfg.Recommend.CatalogPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalog")
	}
	logging.Info().Int("products", cat.Len()).Strs("categories", cat.Categories()).Msg("Catalog loaded")

	rules, err := recommend.NewRuleEngine(cat, cfg.RecommendConfig(), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build rule engine")
	}

	// === ENRICHMENT ===

	gemini := provider.NewGemini(provider.Config{
		APIKey:            cfg.Provider.APIKey,
		BaseURL:           cfg.Provider.BaseURL,
		Model:             cfg.Provider.Model,
		Temperature:       &cfg.Provider.Temperature,
		Timeout:           cfg.Provider.Timeout,
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Burst:             cfg.Provider.Burst,
		MaxRetries:        cfg.Provider.MaxRetries,
		RetryBaseDelay:    cfg.Provider.RetryBaseDelay,
	})
	enricher, breaker := initEnrichment(cfg, gemini, cat, logger)

	// === EVENTS AND WEBSOCKET ===

	bus, err := initEvents(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	hub := ws.NewHub(logger)

	// === SESSIONS ===

	orchCfg := orchestrator.Config{
		Debounce:         cfg.Orchestrator.Debounce,
		QuietPeriod:      cfg.Orchestrator.QuietPeriod,
		ThinkingInterval: cfg.Orchestrator.ThinkingInterval,
		CallTimeout:      cfg.Enrich.Timeout,
	}
	registry, err := session.NewRegistry(session.Config{
		Capacity:      cfg.Sessions.Capacity,
		IdleTTL:       cfg.Sessions.IdleTTL,
		SweepInterval: cfg.Sessions.SweepInterval,
	}, func(id string) (*orchestrator.Orchestrator, error) {
		orch, err := orchestrator.New(rules, enricher, orchCfg, logger.With().Str("session_id", id).Logger())
		if err != nil {
			return nil, err
		}
		states, _ := orch.Subscribe()
		go bus.Relay(id, states)
		return orch, nil
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create session registry")
	}
	registry.OnEvict(func(id, reason string) {
		hub.CloseSession(id, reason)
	})
	// An open stream keeps its session from idling out.
	hub.OnActivity(func(id string) {
		registry.Touch(id)
	})

	// === HTTP ===

	latency := middleware.NewLatencyTracker(latencySamples, slowRequestLatency, logger)
	deps := api.Deps{
		Catalog:       cat,
		Generator:     gemini,
		Sessions:      registry,
		Streamer:      hub,
		Upgrader:      ws.NewUpgrader(cfg.Security.CORSOrigins),
		Latency:       latency,
		EnrichMode:    cfg.Enrich.Mode,
		EventsBackend: bus.Backend(),
		Version:       version,
	}
	if breaker != nil {
		deps.Breaker = breaker
	}
	handler, err := api.NewHandler(deps)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	chiMw := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins:       cfg.Security.CORSOrigins,
		CORSAllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		CORSAllowedHeaders:       []string{"Content-Type", "X-Request-ID"},
		CORSExposedHeaders:       []string{"X-Request-ID", "Retry-After"},
		CORSMaxAge:               86400,
		RateLimitRequests:        cfg.Security.RateLimitReqs,
		RateLimitWindow:          cfg.Security.RateLimitWindow,
		RateLimitDisabled:        cfg.Security.RateLimitDisabled,
		AnalyzeRateLimitRequests: cfg.Security.AnalyzeRateLimitReqs,
	})
	router := api.NewRouter(handler, chiMw, cfg.Security.MaxBodyBytes)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.WithComponent("supervisor")), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStateService(registry)
	tree.AddStateService(services.NewHeartbeatService(heartbeatInterval, heartbeatFields(registry, hub, breaker), logger))
	tree.AddMessagingService(hub)
	tree.AddMessagingService(events.NewForwarder(bus, hub, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree stopped")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Closing the registry closes every orchestrator, which ends the relay
	// goroutines before the bus goes away.
	registry.Close()

	logging.Info().Msg("cartsense stopped")
}

func heartbeatFields(registry *session.Registry, hub *ws.Hub, breaker *enrich.Breaker) []services.Field {
	fields := []services.Field{
		{Name: "active_sessions", Value: func() interface{} { return registry.Len() }},
		{Name: "websocket_clients", Value: func() interface{} { return hub.ClientCount() }},
	}
	if breaker != nil {
		fields = append(fields, services.Field{
			Name:  "breaker_state",
			Value: func() interface{} { return breaker.State() },
		})
	}
	return fields
}
