// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package enrich

import (
	"fmt"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/recommend"
)

// DefaultContextTitle is shown when the provider omits a context title.
const DefaultContextTitle = "Forgot something?"

// Result is a hydrated enrichment outcome ready to publish.
type Result struct {
	Context          string                 `json:"context"`
	Message          string                 `json:"message"`
	Type             string                 `json:"type"`
	PrimaryContextID string                 `json:"primaryContextId,omitempty"`
	Suggestions      []recommend.Suggestion `json:"suggestions"`
}

// IDs returns the suggested product ids in order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Suggestions))
	for i := range r.Suggestions {
		ids[i] = r.Suggestions[i].ID
	}
	return ids
}

// Hydrate resolves suggested ids against cat, dropping unknown ids, ids
// already in cart and repeats. It returns ErrEmptyResult when nothing is
// left.
func Hydrate(resp *Response, cat *catalog.Catalog, cart catalog.Cart) (*Result, error) {
	inCart := cart.IDSet()
	seen := make(map[string]struct{}, len(resp.Suggestions))
	suggestions := make([]recommend.Suggestion, 0, len(resp.Suggestions))

	for _, s := range resp.Suggestions {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		if _, owned := inCart[s.ID]; owned {
			continue
		}
		product, ok := cat.FindByID(s.ID)
		if !ok {
			continue
		}
		seen[s.ID] = struct{}{}
		suggestions = append(suggestions, recommend.Suggestion{Product: product, Reason: s.Reason})
	}

	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: %d suggested, none usable", ErrEmptyResult, len(resp.Suggestions))
	}

	result := &Result{
		Context:     DefaultContextTitle,
		Type:        resp.Type,
		Suggestions: suggestions,
	}
	if resp.Context != nil && *resp.Context != "" {
		result.Context = *resp.Context
	}
	if resp.Message != nil {
		result.Message = *resp.Message
	}
	if resp.PrimaryContextID != nil {
		result.PrimaryContextID = *resp.PrimaryContextID
	}
	return result, nil
}
