// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/cartsense/internal/catalog"
)

// Scorer ranks context definitions against a cart.
// It holds only immutable data and is safe for concurrent use.
type Scorer struct {
	defs    []catalog.ContextDefinition
	index   *triggerIndex
	formula Formula

	strongScore      float64
	strongConfidence float64
}

// NewScorer builds a scorer over defs using formula. Strength thresholds
// come from cfg; a nil cfg uses DefaultConfig.
func NewScorer(defs []catalog.ContextDefinition, formula Formula, cfg *Config) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	owned := make([]catalog.ContextDefinition, len(defs))
	copy(owned, defs)

	return &Scorer{
		defs:             owned,
		index:            newTriggerIndex(owned),
		formula:          formula,
		strongScore:      cfg.StrongScore,
		strongConfidence: cfg.StrongConfidence,
	}
}

// Formula returns the formula the scorer ranks by.
func (s *Scorer) Formula() Formula {
	return s.formula
}

// contextTally accumulates matches for one context during a pass.
type contextTally struct {
	patterns map[int]struct{}
	qty      int
	revenue  float64
}

// Score returns every context whose weighted score qualifies under the
// scorer's formula, best first. Equal scores keep declaration order.
func (s *Scorer) Score(cart catalog.Cart) []DetectedContext {
	if cart.IsEmpty() {
		return nil
	}

	tallies := make([]contextTally, len(s.defs))

	for i := range cart {
		item := cart[i]
		hits := s.index.match(item.Name)
		if len(hits) == 0 {
			continue
		}

		touched := make(map[int]struct{})
		for _, pi := range hits {
			for _, ref := range s.index.refs[pi] {
				t := &tallies[ref.context]
				if t.patterns == nil {
					t.patterns = make(map[int]struct{})
				}
				t.patterns[pi] = struct{}{}
				touched[ref.context] = struct{}{}
			}
		}

		// An item counts once per context however many triggers it hits.
		for ci := range touched {
			tallies[ci].qty += item.Quantity
			tallies[ci].revenue += item.LineTotal()
		}
	}

	var out []DetectedContext
	for ci := range s.defs {
		t := tallies[ci]
		if len(t.patterns) == 0 {
			continue
		}
		dc := s.detected(ci, t)
		if !s.formula.Qualifies(dc.WeightedScore) {
			continue
		}
		out = append(out, dc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WeightedScore != out[j].WeightedScore {
			return out[i].WeightedScore > out[j].WeightedScore
		}
		return out[i].order < out[j].order
	})

	return out
}

func (s *Scorer) detected(ci int, t contextTally) DetectedContext {
	def := s.defs[ci]

	matched := make([]string, 0, len(t.patterns))
	seen := make(map[string]struct{}, len(t.patterns))
	for _, trig := range def.Triggers {
		text := strings.ToLower(trig)
		if _, dup := seen[text]; dup {
			continue
		}
		if pi, ok := s.index.lookup(text); ok {
			if _, hit := t.patterns[pi]; hit {
				seen[text] = struct{}{}
				matched = append(matched, trig)
			}
		}
	}

	matchCount := len(t.patterns)
	dc := DetectedContext{
		ID:              def.ID,
		Title:           def.Title,
		MatchCount:      matchCount,
		MatchedTriggers: matched,
		MatchingQty:     t.qty,
		MatchingRevenue: t.revenue,
		Confidence:      confidence(matchCount, len(def.Triggers)),
		order:           ci,
	}

	switch s.formula {
	case FormulaRevenue:
		dc.WeightedScore = float64(matchCount)*10 + t.revenue*0.1
	default:
		dc.WeightedScore = float64(matchCount*2 + t.qty)
	}
	return dc
}

// confidence is matchCount over the trigger count clamped to [3, 10],
// rounded to two decimals.
func confidence(matchCount, triggerCount int) float64 {
	if matchCount == 0 {
		return 0
	}
	denom := triggerCount
	if denom < 3 {
		denom = 3
	}
	if denom > 10 {
		denom = 10
	}
	c := float64(matchCount) / float64(denom)
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}

// DetectTop scores the cart and keeps the best k contexts. Strong reports
// whether the leader clears the configured strength thresholds.
func (s *Scorer) DetectTop(cart catalog.Cart, k int) Detection {
	ranked := s.Score(cart)
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	det := Detection{Contexts: ranked}
	if top, ok := det.Primary(); ok {
		det.Strong = IsStrong(top, s.strongScore, s.strongConfidence)
	}
	return det
}

// IsStrong reports whether a detected context is confident enough to commit
// to as the single primary intent. The score side is evaluated on the
// quantity-weighted scale regardless of the formula that ranked it.
//
//nolint:gocritic // DetectedContext is small and passed by value throughout
func IsStrong(top DetectedContext, minScore, minConfidence float64) bool {
	if top.MatchCount == 0 {
		return false
	}
	return top.QuantityScore() >= minScore || top.Confidence >= minConfidence
}
