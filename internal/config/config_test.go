// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cartsense/internal/recommend"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}
	if cfg.ProviderConfigured() {
		t.Error("ProviderConfigured() = true without a key")
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"no cors origins", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"cors origin with path", func(c *Config) { c.Security.CORSOrigins = []string{"https://a.example/x"} }, "CORS_ORIGINS"},
		{"cors origin bad scheme", func(c *Config) { c.Security.CORSOrigins = []string{"ftp://a.example"} }, "CORS_ORIGINS"},
		{"tiny body limit", func(c *Config) { c.Security.MaxBodyBytes = 10 }, "MAX_BODY_BYTES"},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQS"},
		{"analyze rate limit zero", func(c *Config) { c.Security.AnalyzeRateLimitReqs = 0 }, "ANALYZE_RATE_LIMIT_REQS"},
		{"rate window too short", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"provider base url path", func(c *Config) { c.Provider.BaseURL = "https://api.example/v1" }, "GEMINI_BASE_URL"},
		{"provider model missing", func(c *Config) { c.Provider.Model = "" }, "GEMINI_MODEL"},
		{"provider temperature", func(c *Config) { c.Provider.Temperature = 3 }, "temperature"},
		{"provider rps", func(c *Config) { c.Provider.RequestsPerSecond = 0 }, "rate limit"},
		{"unknown enrich mode", func(c *Config) { c.Enrich.Mode = "magic" }, "ENRICH_MODE"},
		{"remote without endpoint", func(c *Config) { c.Enrich.Mode = EnrichModeRemote }, "ENRICH_REMOTE_ENDPOINT"},
		{"breaker ratio", func(c *Config) { c.Enrich.Breaker.FailureRatio = 0 }, "failure_ratio"},
		{"bad rule formula", func(c *Config) { c.Recommend.RuleFormula = "popularity" }, "rule_formula"},
		{"bad enrich formula", func(c *Config) { c.Recommend.EnrichFormula = "" }, "enrich_formula"},
		{"top k zero", func(c *Config) { c.Recommend.TopK = 0 }, "top_k"},
		{"debounce zero", func(c *Config) { c.Orchestrator.Debounce = 0 }, "orchestrator"},
		{"session capacity", func(c *Config) { c.Sessions.Capacity = 0 }, "SESSION_CAPACITY"},
		{"session ttl", func(c *Config) { c.Sessions.IdleTTL = time.Second }, "SESSION_IDLE_TTL"},
		{"unknown events backend", func(c *Config) { c.Events.Backend = "kafka" }, "EVENTS_BACKEND"},
		{"bad nats url", func(c *Config) {
			c.Events.Backend = "nats"
			c.Events.NATSURL = "http://nats:4222"
		}, "NATS_URL"},
		{"empty topic", func(c *Config) { c.Events.Topic = "" }, "EVENTS_TOPIC"},
		{"embedded port", func(c *Config) {
			c.Events.Backend = "embedded"
			c.Events.EmbeddedPort = 70000
		}, "EVENTS_EMBEDDED_PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AcceptedVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"rate limit disabled skips limits", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}},
		{"remote mode with path", func(c *Config) {
			c.Enrich.Mode = EnrichModeRemote
			c.Enrich.RemoteEndpoint = "https://edge.example.com/api/analyze"
		}},
		{"disabled enrichment", func(c *Config) { c.Enrich.Mode = EnrichModeDisabled }},
		{"nats backend", func(c *Config) {
			c.Events.Backend = "nats"
			c.Events.NATSURL = "nats://nats.internal:4222"
		}},
		{"embedded backend on a random port", func(c *Config) {
			c.Events.Backend = "embedded"
			c.Events.EmbeddedPort = -1
		}},
		{"explicit origins", func(c *Config) {
			c.Security.CORSOrigins = []string{"https://shop.example.com", "http://localhost:5173"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("warned outside production")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("no warning for wildcard in production")
	}
	cfg.Security.CORSOrigins = []string{"https://shop.example.com"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("warned for explicit origins")
	}
}

func TestRecommendConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.TopK = 5
	cfg.Recommend.RuleFormula = "revenue"
	cfg.Recommend.EnrichFormula = "quantity"
	cfg.Recommend.Seed = 42

	got := cfg.RecommendConfig()
	if got.TopK != 5 || got.Seed != 42 {
		t.Errorf("RecommendConfig() = %+v", got)
	}
	if got.RuleFormula != recommend.FormulaRevenue || got.EnrichFormula != recommend.FormulaQuantity {
		t.Errorf("formulas = %v/%v", got.RuleFormula, got.EnrichFormula)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("converted config invalid: %v", err)
	}
}

func TestValidateURLs(t *testing.T) {
	tests := []struct {
		url      string
		baseOnly bool
		wantErr  bool
	}{
		{"https://api.example.com", true, false},
		{"https://api.example.com/", true, false},
		{"https://api.example.com/v1", true, true},
		{"https://api.example.com/v1", false, false},
		{"https://api.example.com?x=1", true, true},
		{"ws://api.example.com", false, true},
		{"https://", false, true},
	}
	for _, tt := range tests {
		err := validateHTTPURL(tt.url, "URL", tt.baseOnly)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateHTTPURL(%q, %v) error = %v, wantErr %v", tt.url, tt.baseOnly, err, tt.wantErr)
		}
	}

	for url, wantErr := range map[string]bool{
		"nats://localhost:4222": false,
		"tls://nats.example":    false,
		"wss://nats.example":    false,
		"http://nats.example":   true,
		"nats://":               true,
	} {
		if err := validateNATSURL(url); (err != nil) != wantErr {
			t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", url, err, wantErr)
		}
	}
}
