// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cartsense/config.yaml",
	"/etc/cartsense/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    45 * time.Second, // longer than the provider timeout
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:          []string{"*"},
			RateLimitReqs:        120,
			RateLimitWindow:      time.Minute,
			AnalyzeRateLimitReqs: 20,
			MaxBodyBytes:         64 << 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Provider: ProviderConfig{
			BaseURL:           "https://generativelanguage.googleapis.com",
			Model:             "gemini-3-flash-preview",
			Temperature:       0.3,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
			MaxRetries:        2,
			RetryBaseDelay:    500 * time.Millisecond,
		},
		Enrich: EnrichConfig{
			Mode:    EnrichModeDirect,
			Timeout: 30 * time.Second,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Recommend: RecommendConfig{
			PoolSize:           80,
			TopK:               3,
			StrongScore:        4.0,
			StrongConfidence:   0.4,
			MaxRuleSuggestions: 6,
			RuleFormula:        "quantity",
			EnrichFormula:      "revenue",
		},
		Orchestrator: OrchestratorConfig{
			Debounce:         3 * time.Second,
			QuietPeriod:      10 * time.Second,
			ThinkingInterval: 1200 * time.Millisecond,
		},
		Sessions: SessionsConfig{
			Capacity:      10000,
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Events: EventsConfig{
			Backend:       "memory",
			Topic:         "cartsense.state",
			NATSURL:       "nats://127.0.0.1:4222",
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
			EmbeddedHost:  "127.0.0.1",
			EmbeddedPort:  4222,
		},
	}
}

// Load builds the configuration from three layers, later layers winning:
//  1. built-in defaults
//  2. an optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables listed in envMappings
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"port":             "server.port",
	"http_host":        "server.host",
	"environment":      "server.environment",
	"shutdown_timeout": "server.shutdown_timeout",

	"cors_origins":            "security.cors_origins",
	"rate_limit_reqs":         "security.rate_limit_reqs",
	"rate_limit_window":       "security.rate_limit_window",
	"disable_rate_limit":      "security.rate_limit_disabled",
	"analyze_rate_limit_reqs": "security.analyze_rate_limit_reqs",
	"max_body_bytes":          "security.max_body_bytes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"api_key":                 "provider.api_key",
	"gemini_api_key":          "provider.api_key",
	"gemini_base_url":         "provider.base_url",
	"gemini_model":            "provider.model",
	"gemini_temperature":      "provider.temperature",
	"gemini_timeout":          "provider.timeout",
	"gemini_rps":              "provider.requests_per_second",
	"gemini_max_retries":      "provider.max_retries",
	"enrich_mode":             "enrich.mode",
	"enrich_remote_endpoint":  "enrich.remote_endpoint",
	"enrich_timeout":          "enrich.timeout",
	"enrich_breaker_timeout":  "enrich.breaker.timeout",
	"enrich_breaker_ratio":    "enrich.breaker.failure_ratio",
	"enrich_breaker_min_reqs": "enrich.breaker.min_requests",

	"catalog_path":                   "recommend.catalog_path",
	"recommend_pool_size":            "recommend.pool_size",
	"recommend_top_k":                "recommend.top_k",
	"recommend_strong_score":         "recommend.strong_score",
	"recommend_strong_confidence":    "recommend.strong_confidence",
	"recommend_max_rule_suggestions": "recommend.max_rule_suggestions",
	"recommend_seed":                 "recommend.seed",

	"debounce":          "orchestrator.debounce",
	"quiet_period":      "orchestrator.quiet_period",
	"thinking_interval": "orchestrator.thinking_interval",

	"session_capacity":       "sessions.capacity",
	"session_idle_ttl":       "sessions.idle_ttl",
	"session_sweep_interval": "sessions.sweep_interval",

	"events_backend": "events.backend",
	"events_topic":   "events.topic",
	"nats_url":       "events.nats_url",

	"events_embedded_host": "events.embedded_host",
	"events_embedded_port": "events.embedded_port",
}

// envTransformFunc maps an environment variable to its config path, or ""
// to skip it. Only listed variables are honoured so unrelated environment
// does not leak into the config.
//
//   - GEMINI_API_KEY -> provider.api_key
//   - ENRICH_MODE    -> enrich.mode
//   - NATS_URL       -> events.nats_url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
