// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/catalog"
)

// RuleEngine runs the local, deterministic recommendation path and prepares
// the inputs of an enrichment request. It is safe for concurrent use.
type RuleEngine struct {
	config  *Config
	logger  zerolog.Logger
	catalog *catalog.Catalog

	ruleScorer   *Scorer
	enrichScorer *Scorer
	selector     *Selector

	evaluations atomic.Int64
	disabled    atomic.Int64
}

// Preparation is everything an enrichment request is built from.
type Preparation struct {
	Detection  Detection
	Signals    TemporalSignals
	Candidates []catalog.Product
}

// NewRuleEngine creates a rule engine over cat.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRuleEngine(cat *catalog.Catalog, cfg *Config, logger zerolog.Logger) (*RuleEngine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.Clone()

	defs := catalog.Contexts()

	return &RuleEngine{
		config:       cfg,
		logger:       logger.With().Str("component", "recommend").Logger(),
		catalog:      cat,
		ruleScorer:   NewScorer(defs, cfg.RuleFormula, cfg),
		enrichScorer: NewScorer(defs, cfg.EnrichFormula, cfg),
		selector:     NewSelector(cat, cfg.PoolSize, cfg.effectiveSeed()),
	}, nil
}

// Catalog returns the catalog the engine draws products from.
func (e *RuleEngine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Config returns a copy of the engine configuration.
func (e *RuleEngine) Config() *Config {
	return e.config.Clone()
}

// Evaluate runs the rule path: pick the best context under the rule
// formula, rank its candidate pool by affinity, and compose the nudge.
// An inactive state means no context qualified or no product survived.
func (e *RuleEngine) Evaluate(cart catalog.Cart, now time.Time) RuleState {
	e.evaluations.Add(1)

	if cart.IsEmpty() {
		return RuleState{}
	}

	det := e.ruleScorer.DetectTop(cart, e.config.TopK)
	top, ok := det.Primary()
	if !ok {
		e.disabled.Add(1)
		e.logger.Debug().
			Int("cart_items", len(cart)).
			Msg("no context qualified")
		return RuleState{}
	}

	signals := SignalsAt(now)
	pool := e.selector.Pool(cart, det, signals)

	var triggers []string
	if def, found := catalog.ContextByID(top.ID); found {
		triggers = def.Triggers
	}
	ranked := RankByAffinity(pool, cart, triggers, e.config.MaxRuleSuggestions)
	if len(ranked) == 0 {
		e.disabled.Add(1)
		e.logger.Debug().
			Str("context", top.ID).
			Int("pool", len(pool)).
			Msg("context qualified but no candidates survived")
		return RuleState{}
	}

	suggestions := make([]Suggestion, len(ranked))
	for i := range ranked {
		suggestions[i] = Suggestion{Product: ranked[i]}
	}

	e.logger.Debug().
		Str("context", top.ID).
		Float64("score", top.WeightedScore).
		Bool("strong", det.Strong).
		Int("suggestions", len(suggestions)).
		Msg("rule path evaluated")

	return RuleState{
		Active:       true,
		ContextID:    top.ID,
		ContextTitle: top.Title,
		Message:      Compose(top.ID, cart),
		Suggestions:  suggestions,
	}
}

// Prepare scores the cart under the enrichment formula, derives the
// temporal signals and samples the candidate pool.
func (e *RuleEngine) Prepare(cart catalog.Cart, now time.Time) Preparation {
	det := e.enrichScorer.DetectTop(cart, e.config.TopK)
	signals := SignalsAt(now)
	return Preparation{
		Detection:  det,
		Signals:    signals,
		Candidates: e.selector.Select(cart, det, signals),
	}
}

// EngineStats are cumulative counters since construction.
type EngineStats struct {
	Evaluations int64 `json:"evaluations"`
	Disabled    int64 `json:"disabled"`
}

// Stats returns the engine counters.
func (e *RuleEngine) Stats() EngineStats {
	return EngineStats{
		Evaluations: e.evaluations.Load(),
		Disabled:    e.disabled.Load(),
	}
}
