// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package orchestrator

import (
	"fmt"
	"time"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/recommend"
)

// Phase is the orchestrator's state machine position.
type Phase int

const (
	// PhaseIdle: empty cart, nothing shown.
	PhaseIdle Phase = iota
	// PhaseDebouncing: the cart changed and a decision is pending.
	PhaseDebouncing
	// PhaseAnalyzing: an enrichment call is in flight.
	PhaseAnalyzing
	// PhaseActive: suggestions are published.
	PhaseActive
	// PhaseDisabled: the cart has items but nothing could be suggested.
	PhaseDisabled
)

var phaseNames = [...]string{"idle", "debouncing", "analyzing", "active", "disabled"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Source tags where published suggestions came from.
type Source string

// Sources.
const (
	SourceRules    Source = "rules"
	SourceEnriched Source = "enriched"
)

// ThinkingLabels rotate while a call is in flight.
var ThinkingLabels = []string{
	"Analyzing cart...",
	"Checking for missed essentials...",
	"Identifying flavor pairings...",
}

// RecommendationState is the externally observed state. Only the
// orchestrator writes it; State returns copies.
type RecommendationState struct {
	Phase       Phase                  `json:"phase"`
	Active      bool                   `json:"active"`
	Source      Source                 `json:"source,omitempty"`
	ContextID   string                 `json:"contextId,omitempty"`
	Context     string                 `json:"context"`
	Message     string                 `json:"message"`
	Type        string                 `json:"type,omitempty"`
	Suggestions []recommend.Suggestion `json:"suggestions"`
	Thinking    string                 `json:"thinking,omitempty"`
	Version     uint64                 `json:"version"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func (s *RecommendationState) clone() RecommendationState {
	out := *s
	out.Suggestions = append([]recommend.Suggestion(nil), s.Suggestions...)
	if out.Suggestions == nil {
		out.Suggestions = []recommend.Suggestion{}
	}
	return out
}

// withoutCart drops suggestions whose product is in cart and reports
// whether anything was removed.
func (s *RecommendationState) withoutCart(cart catalog.Cart) bool {
	if len(s.Suggestions) == 0 {
		return false
	}
	kept := s.Suggestions[:0:0]
	for _, sug := range s.Suggestions {
		if !cart.Contains(sug.ID) {
			kept = append(kept, sug)
		}
	}
	removed := len(kept) != len(s.Suggestions)
	s.Suggestions = kept
	return removed
}

// Session records what is on offer and the cart it was computed for.
type Session struct {
	Active       bool
	SuggestedIDs []string
	CartSnapshot catalog.Cart
}

// Offers reports whether id is currently suggested.
func (s *Session) Offers(id string) bool {
	for _, sid := range s.SuggestedIDs {
		if sid == id {
			return true
		}
	}
	return false
}

func newSession(suggestions []recommend.Suggestion, snapshot catalog.Cart) Session {
	ids := make([]string, len(suggestions))
	for i := range suggestions {
		ids[i] = suggestions[i].ID
	}
	return Session{Active: true, SuggestedIDs: ids, CartSnapshot: snapshot.Clone()}
}
