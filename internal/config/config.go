// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package config

import "time"

// Enrichment modes.
const (
	EnrichModeDirect   = "direct"
	EnrichModeRemote   = "remote"
	EnrichModeDisabled = "disabled"
)

// Config is the complete service configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Security     SecurityConfig     `koanf:"security"`
	Logging      LoggingConfig      `koanf:"logging"`
	Provider     ProviderConfig     `koanf:"provider"`
	Enrich       EnrichConfig       `koanf:"enrich"`
	Recommend    RecommendConfig    `koanf:"recommend"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Sessions     SessionsConfig     `koanf:"sessions"`
	Events       EventsConfig       `koanf:"events"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds browser-facing protections.
type SecurityConfig struct {
	// CORSOrigins is the allow-list for CORS and websocket origins. "*"
	// allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client IP on the
	// general API.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AnalyzeRateLimitReqs is the tighter per-IP limit on the analyze
	// endpoint, which spends provider quota.
	AnalyzeRateLimitReqs int `koanf:"analyze_rate_limit_reqs"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ProviderConfig configures the generative model client.
type ProviderConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Model             string        `koanf:"model"`
	Temperature       float64       `koanf:"temperature"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
}

// EnrichConfig selects how orchestrators reach the provider.
type EnrichConfig struct {
	// Mode is direct (in-process provider call), remote (POST to
	// RemoteEndpoint) or disabled (rule path only).
	Mode           string        `koanf:"mode"`
	RemoteEndpoint string        `koanf:"remote_endpoint"`
	Timeout        time.Duration `koanf:"timeout"`
	Breaker        BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the enrichment circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// RecommendConfig tunes detection and candidate selection.
type RecommendConfig struct {
	CatalogPath        string  `koanf:"catalog_path"` // empty uses the embedded catalog
	PoolSize           int     `koanf:"pool_size"`
	TopK               int     `koanf:"top_k"`
	StrongScore        float64 `koanf:"strong_score"`
	StrongConfidence   float64 `koanf:"strong_confidence"`
	MaxRuleSuggestions int     `koanf:"max_rule_suggestions"`
	RuleFormula        string  `koanf:"rule_formula"`
	EnrichFormula      string  `koanf:"enrich_formula"`
	Seed               int64   `koanf:"seed"`
}

// OrchestratorConfig holds the per-cart timings.
type OrchestratorConfig struct {
	Debounce         time.Duration `koanf:"debounce"`
	QuietPeriod      time.Duration `koanf:"quiet_period"`
	ThinkingInterval time.Duration `koanf:"thinking_interval"`
}

// SessionsConfig bounds the in-memory session registry.
type SessionsConfig struct {
	Capacity      int           `koanf:"capacity"`
	IdleTTL       time.Duration `koanf:"idle_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// EventsConfig selects the state event bus.
type EventsConfig struct {
	Backend       string        `koanf:"backend"` // memory, nats or embedded
	Topic         string        `koanf:"topic"`
	NATSURL       string        `koanf:"nats_url"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`

	// EmbeddedHost and EmbeddedPort bind the in-process NATS server of the
	// embedded backend. Port -1 picks a free port.
	EmbeddedHost string `koanf:"embedded_host"`
	EmbeddedPort int    `koanf:"embedded_port"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ProviderConfigured reports whether a provider key is set.
func (c *Config) ProviderConfigured() bool {
	return c.Provider.APIKey != ""
}
