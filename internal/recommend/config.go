// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"fmt"
)

// Config contains the tunables of the scoring and selection pipeline.
type Config struct {
	// PoolSize bounds the candidate pool sent to the enrichment provider.
	PoolSize int `json:"pool_size"`

	// TopK is how many detected contexts are described to the provider.
	TopK int `json:"top_k"`

	// StrongScore is the quantity-weighted score at which the leading
	// context counts as strong.
	StrongScore float64 `json:"strong_score"`

	// StrongConfidence is the confidence at which the leading context
	// counts as strong.
	StrongConfidence float64 `json:"strong_confidence"`

	// MaxRuleSuggestions caps the local rule path's suggestion list.
	MaxRuleSuggestions int `json:"max_rule_suggestions"`

	// RuleFormula ranks contexts for the local rule path.
	RuleFormula Formula `json:"rule_formula"`

	// EnrichFormula ranks contexts when preparing an enrichment request.
	EnrichFormula Formula `json:"enrich_formula"`

	// Seed seeds candidate sampling. Zero selects a fixed default seed.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:           80,
		TopK:               3,
		StrongScore:        4.0,
		StrongConfidence:   0.4,
		MaxRuleSuggestions: 6,
		RuleFormula:        FormulaQuantity,
		EnrichFormula:      FormulaRevenue,
		Seed:               0,
	}
}

// Validate checks that every field is within its allowed range.
func (c *Config) Validate() error {
	if c.PoolSize < 1 || c.PoolSize > 1000 {
		return fmt.Errorf("pool_size must be between 1 and 1000, got %d", c.PoolSize)
	}
	if c.TopK < 1 || c.TopK > 25 {
		return fmt.Errorf("top_k must be between 1 and 25, got %d", c.TopK)
	}
	if c.StrongScore < 0 {
		return fmt.Errorf("strong_score must be non-negative, got %v", c.StrongScore)
	}
	if c.StrongConfidence < 0 || c.StrongConfidence > 1 {
		return fmt.Errorf("strong_confidence must be between 0 and 1, got %v", c.StrongConfidence)
	}
	if c.MaxRuleSuggestions < 1 || c.MaxRuleSuggestions > 50 {
		return fmt.Errorf("max_rule_suggestions must be between 1 and 50, got %d", c.MaxRuleSuggestions)
	}
	if c.RuleFormula.String() == "unknown" {
		return fmt.Errorf("rule_formula is not a known formula")
	}
	if c.EnrichFormula.String() == "unknown" {
		return fmt.Errorf("enrich_formula is not a known formula")
	}
	return nil
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

func (c *Config) effectiveSeed() int64 {
	if c.Seed == 0 {
		return 42
	}
	return c.Seed
}
