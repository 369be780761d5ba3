// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package enrich

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartsense/internal/validation"
)

// Suggestion types.
const (
	TypeRetention = "retention"
	TypeUpsell    = "upsell"
)

// SuggestedItem is one {id, reason} pair from the provider.
type SuggestedItem struct {
	ID     string `json:"id" validate:"required"`
	Reason string `json:"reason"`
}

// Response is the structured provider reply. Context and message may be
// empty strings but must be present in the JSON.
type Response struct {
	Context           *string         `json:"context" validate:"required"`
	Message           *string         `json:"message" validate:"required"`
	Type              string          `json:"type" validate:"required,oneof=retention upsell"`
	PrimaryContextID  *string         `json:"primaryContextId,omitempty"`
	ContextConfidence *float64        `json:"contextConfidence,omitempty"`
	Suggestions       []SuggestedItem `json:"suggestions" validate:"required,dive"`
}

// ParseResponse extracts the JSON object between the first '{' and the
// last '}' of text and validates it. Every failure wraps ErrSchema.
func ParseResponse(text string) (*Response, error) {
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first == -1 || last < first {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrSchema)
	}

	var resp Response
	if err := json.Unmarshal([]byte(text[first:last+1]), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if verr := validation.ValidateStruct(&resp); verr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, verr)
	}
	return &resp, nil
}
