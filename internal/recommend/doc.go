// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package recommend implements the local, deterministic recommendation path.
//
// # Pipeline
//
// A cart flows through four pure stages:
//
//   - Scorer: matches cart item names against context triggers with an
//     Aho-Corasick index and ranks contexts by a weighted score.
//   - Selector: maps the leading context (or the time of day when no
//     context is strong) to catalog aisles and builds the candidate pool.
//   - RankByAffinity: orders candidates by category overlap, trigger match
//     and price proximity to the cart.
//   - Compose: picks a nudge line keyed on cart membership.
//
// # Scoring Formulas
//
// Two formulas serve two consumers:
//
//	FormulaQuantity  score = matchCount*2 + matchingQty        (rule path, qualifies when > 0)
//	FormulaRevenue   score = matchCount*10 + matchingRevenue*0.1 (enrichment prep, qualifies when >= 10)
//
// Equal scores keep context declaration order. Confidence is matchCount over
// the trigger count clamped to [3, 10].
//
// # Determinism
//
// Everything except the candidate sample is a pure function of its inputs.
// The sample is drawn from a seeded source (Config.Seed, default 42) guarded
// by a mutex, so a fresh engine with the same seed replays the same samples.
//
// # Usage
//
//	engine, err := recommend.NewRuleEngine(cat, recommend.DefaultConfig(), logger)
//	state := engine.Evaluate(cart, time.Now())
//	prep := engine.Prepare(cart, time.Now()) // inputs for an enrichment request
package recommend
