// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/config"
	"github.com/tomtom215/cartsense/internal/enrich"
	"github.com/tomtom215/cartsense/internal/logging"
)

// initEnrichment picks the enrichment client for cfg.Enrich.Mode.
//
// In disabled mode both returns are nil and sessions stay on rule-based
// suggestions. The enrich.Client return is an untyped nil in that case so
// the orchestrator's nil check holds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEnrichment(cfg *config.Config, gen enrich.Generator, cat *catalog.Catalog, logger zerolog.Logger) (enrich.Client, *enrich.Breaker) {
	if cfg.Enrich.Mode == config.EnrichModeDisabled {
		logging.Info().Msg("Enrichment disabled (ENRICH_MODE=disabled); serving rule-based suggestions only")
		return nil, nil
	}

	breaker := enrich.NewBreaker(enrich.BreakerConfig{
		Name:         "enrichment",
		MaxRequests:  cfg.Enrich.Breaker.MaxRequests,
		Interval:     cfg.Enrich.Breaker.Interval,
		Timeout:      cfg.Enrich.Breaker.Timeout,
		MinRequests:  cfg.Enrich.Breaker.MinRequests,
		FailureRatio: cfg.Enrich.Breaker.FailureRatio,
	}, logger)

	switch cfg.Enrich.Mode {
	case config.EnrichModeRemote:
		logging.Info().
			Str("endpoint", logging.RedactURL(cfg.Enrich.RemoteEndpoint)).
			Msg("Enrichment via remote analyze endpoint")
		return enrich.NewRemoteClient(cfg.Enrich.RemoteEndpoint, cfg.Enrich.Timeout, cat, breaker, logger), breaker
	default:
		if !cfg.ProviderConfigured() {
			logging.Warn().Msg("No provider API key (GEMINI_API_KEY); enrichment calls will fail and sessions fall back to rules")
		}
		logging.Info().
			Str("model", cfg.Provider.Model).
			Str("api_key", logging.RedactSecret(cfg.Provider.APIKey)).
			Msg("Enrichment via direct provider calls")
		return enrich.NewDirectClient(gen, cat, breaker, logger), breaker
	}
}
