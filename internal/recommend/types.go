// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"github.com/tomtom215/cartsense/internal/catalog"
)

// Formula selects how a context's weighted score is computed.
type Formula int

const (
	// FormulaQuantity scores matchCount*2 + matchingQty. Used by the local
	// rule engine; any positive score qualifies.
	FormulaQuantity Formula = iota
	// FormulaRevenue scores matchCount*10 + matchingRevenue*0.1. Used when
	// preparing an enrichment request; a score of at least 10 qualifies.
	FormulaRevenue
)

// String returns the config name of the formula.
func (f Formula) String() string {
	switch f {
	case FormulaQuantity:
		return "quantity"
	case FormulaRevenue:
		return "revenue"
	default:
		return "unknown"
	}
}

// ParseFormula maps a config name to a Formula.
func ParseFormula(s string) (Formula, bool) {
	switch s {
	case "quantity":
		return FormulaQuantity, true
	case "revenue":
		return FormulaRevenue, true
	default:
		return 0, false
	}
}

// Threshold is the minimum weighted score for a context to qualify.
func (f Formula) Threshold() float64 {
	if f == FormulaRevenue {
		return 10
	}
	return 0
}

// Qualifies reports whether score clears the formula's threshold.
// A zero score never qualifies.
func (f Formula) Qualifies(score float64) bool {
	if score <= 0 {
		return false
	}
	return score >= f.Threshold()
}

// DetectedContext is one scored context for a single scoring pass.
type DetectedContext struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	MatchCount      int      `json:"matchCount"`
	MatchedTriggers []string `json:"matchedTriggers"`
	MatchingQty     int      `json:"matchingQty"`
	MatchingRevenue float64  `json:"matchingRevenue"`
	Confidence      float64  `json:"confidence"`
	WeightedScore   float64  `json:"weightedScore"`

	// order is the catalog declaration index, used for tie-breaks.
	order int
}

// QuantityScore is matchCount*2 + matchingQty regardless of the formula
// that produced WeightedScore.
//
//nolint:gocritic // value receiver keeps DetectedContext comparable in tests
func (d DetectedContext) QuantityScore() float64 {
	return float64(d.MatchCount*2 + d.MatchingQty)
}

// Detection is the result of DetectTop: the best contexts and whether the
// leader is strong enough to commit to.
type Detection struct {
	Contexts []DetectedContext `json:"contexts"`
	Strong   bool              `json:"strong"`
}

// Primary returns the leading context, if any.
func (d *Detection) Primary() (DetectedContext, bool) {
	if len(d.Contexts) == 0 {
		return DetectedContext{}, false
	}
	return d.Contexts[0], true
}

// TimeBucket is a coarse time-of-day classification.
type TimeBucket string

// Time buckets.
const (
	TimeMorning   TimeBucket = "morning"
	TimeAfternoon TimeBucket = "afternoon"
	TimeEvening   TimeBucket = "evening"
	TimeLateNight TimeBucket = "late_night"
)

// OccasionType classifies the detected occasion.
type OccasionType string

// Occasion types.
const (
	OccasionHoliday OccasionType = "holiday"
	OccasionWeekend OccasionType = "weekend"
	OccasionNone    OccasionType = "none"
)

// TemporalSignals describe the wall-clock moment a cart is scored at.
type TemporalSignals struct {
	TimeBucket   TimeBucket   `json:"timeBucket" validate:"required,oneof=morning afternoon evening late_night"`
	HourLocal    int          `json:"hourLocal" validate:"gte=0,lte=23"`
	DayOfWeek    int          `json:"dayOfWeek" validate:"gte=0,lte=6"`
	IsWeekend    bool         `json:"isWeekend"`
	DateString   string       `json:"dateString"`
	IsMonthStart bool         `json:"isMonthStart"`
	IsMonthEnd   bool         `json:"isMonthEnd"`
	Occasion     *string      `json:"occasion"`
	OccasionType OccasionType `json:"occasionType" validate:"required,oneof=holiday weekend none"`
}

// PaydayWindow reports whether the date falls at a month start or end.
func (s *TemporalSignals) PaydayWindow() bool {
	return s.IsMonthStart || s.IsMonthEnd
}

// Suggestion is a product offered to the shopper with an optional short reason.
type Suggestion struct {
	catalog.Product
	Reason string `json:"reason,omitempty"`
}

// RuleState is the outcome of the local rule path.
// Active is false when no context cleared the threshold or no product
// survived candidate selection; that is a normal outcome, not an error.
type RuleState struct {
	Active       bool         `json:"active"`
	ContextID    string       `json:"contextId,omitempty"`
	ContextTitle string       `json:"context,omitempty"`
	Message      string       `json:"message,omitempty"`
	Suggestions  []Suggestion `json:"suggestions"`
}
