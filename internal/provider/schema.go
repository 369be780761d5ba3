// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package provider

// Schema is the OpenAPI subset accepted as a Gemini responseSchema.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// SuggestionSchema describes the structured enrichment reply.
func SuggestionSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"context": {Type: "STRING", Description: "Display title, e.g., 'Movie Night Essentials'"},
			"message": {Type: "STRING", Description: "Helpful reminder, not salesy."},
			"type":    {Type: "STRING", Enum: []string{"retention", "upsell"}},

			"primaryContextId":  {Type: "STRING"},
			"contextConfidence": {Type: "NUMBER"},
			"suggestions": {
				Type: "ARRAY",
				Items: &Schema{
					Type: "OBJECT",
					Properties: map[string]*Schema{
						"id":     {Type: "STRING"},
						"reason": {Type: "STRING", Description: "Max 3 words, specific to context."},
					},
					Required: []string{"id", "reason"},
				},
			},
		},
		Required: []string{"context", "message", "type", "suggestions"},
	}
}
