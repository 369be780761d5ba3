// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/cartsense/internal/logging"
	"github.com/tomtom215/cartsense/internal/recommend"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateProvider,
		c.validateEnrich,
		c.validateRecommend,
		c.validateOrchestrator,
		c.validateSessions,
		c.validateEvents,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin (use * to allow all)")
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS entry", true); err != nil {
			return err
		}
	}
	if c.Security.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024, got %d", c.Security.MaxBodyBytes)
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.AnalyzeRateLimitReqs < 1 {
		return fmt.Errorf("ANALYZE_RATE_LIMIT_REQS must be at least 1, got %d", c.Security.AnalyzeRateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

// ShouldWarnAboutCORS reports whether production runs with a wildcard
// origin list. The analyze endpoint spends provider quota for any caller.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a recognised level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateProvider checks provider tuning. A missing API key is not an
// error: the analyze endpoint reports it per request.
func (c *Config) validateProvider() error {
	p := c.Provider
	if err := validateHTTPURL(p.BaseURL, "GEMINI_BASE_URL", true); err != nil {
		return err
	}
	if p.Model == "" {
		return fmt.Errorf("GEMINI_MODEL is required")
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("provider.temperature must be between 0 and 2, got %v", p.Temperature)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("GEMINI_TIMEOUT must be positive")
	}
	if p.RequestsPerSecond <= 0 || p.Burst < 1 {
		return fmt.Errorf("provider rate limit must allow at least one request (rps=%v burst=%d)", p.RequestsPerSecond, p.Burst)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("GEMINI_MAX_RETRIES must not be negative")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	e := c.Enrich
	switch e.Mode {
	case EnrichModeDirect, EnrichModeDisabled:
	case EnrichModeRemote:
		if e.RemoteEndpoint == "" {
			return fmt.Errorf("ENRICH_REMOTE_ENDPOINT is required when ENRICH_MODE=remote")
		}
		if err := validateHTTPURL(e.RemoteEndpoint, "ENRICH_REMOTE_ENDPOINT", false); err != nil {
			return err
		}
	default:
		return fmt.Errorf("ENRICH_MODE must be direct, remote or disabled, got %q", e.Mode)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("ENRICH_TIMEOUT must be positive")
	}
	if e.Breaker.FailureRatio <= 0 || e.Breaker.FailureRatio > 1 {
		return fmt.Errorf("enrich.breaker.failure_ratio must be in (0, 1], got %v", e.Breaker.FailureRatio)
	}
	if e.Breaker.MaxRequests == 0 {
		return fmt.Errorf("enrich.breaker.max_requests must be at least 1")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if _, ok := recommend.ParseFormula(r.RuleFormula); !ok {
		return fmt.Errorf("recommend.rule_formula must be quantity or revenue, got %q", r.RuleFormula)
	}
	if _, ok := recommend.ParseFormula(r.EnrichFormula); !ok {
		return fmt.Errorf("recommend.enrich_formula must be quantity or revenue, got %q", r.EnrichFormula)
	}
	return c.RecommendConfig().Validate()
}

// RecommendConfig converts the recommend section. Formulas must already
// be valid.
func (c *Config) RecommendConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.PoolSize = c.Recommend.PoolSize
	cfg.TopK = c.Recommend.TopK
	cfg.StrongScore = c.Recommend.StrongScore
	cfg.StrongConfidence = c.Recommend.StrongConfidence
	cfg.MaxRuleSuggestions = c.Recommend.MaxRuleSuggestions
	cfg.Seed = c.Recommend.Seed
	if f, ok := recommend.ParseFormula(c.Recommend.RuleFormula); ok {
		cfg.RuleFormula = f
	}
	if f, ok := recommend.ParseFormula(c.Recommend.EnrichFormula); ok {
		cfg.EnrichFormula = f
	}
	return cfg
}

func (c *Config) validateOrchestrator() error {
	o := c.Orchestrator
	if o.Debounce <= 0 || o.QuietPeriod <= 0 || o.ThinkingInterval <= 0 {
		return fmt.Errorf("orchestrator timings must be positive (debounce=%s quiet_period=%s thinking_interval=%s)",
			o.Debounce, o.QuietPeriod, o.ThinkingInterval)
	}
	return nil
}

func (c *Config) validateSessions() error {
	s := c.Sessions
	if s.Capacity < 1 {
		return fmt.Errorf("SESSION_CAPACITY must be at least 1, got %d", s.Capacity)
	}
	if s.IdleTTL < time.Minute {
		return fmt.Errorf("SESSION_IDLE_TTL must be at least 1m, got %s", s.IdleTTL)
	}
	if s.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	ev := c.Events
	if ev.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required")
	}
	switch ev.Backend {
	case "memory":
		return nil
	case "nats":
		if err := validateNATSURL(ev.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
		return nil
	case "embedded":
		if ev.EmbeddedPort < -1 || ev.EmbeddedPort > 65535 {
			return fmt.Errorf("EVENTS_EMBEDDED_PORT must be -1 or 0-65535, got %d", ev.EmbeddedPort)
		}
		return nil
	default:
		return fmt.Errorf("EVENTS_BACKEND must be memory, nats or embedded, got %q", ev.Backend)
	}
}
