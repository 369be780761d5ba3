// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package enrich

import (
	"errors"
	"testing"
)

const validReply = `{"context":"Breakfast Essentials","message":"Running low on spreads?","type":"retention",` +
	`"primaryContextId":"breakfast","contextConfidence":0.8,` +
	`"suggestions":[{"id":"butter","reason":"Pairs with Bread"},{"id":"eggs","reason":"Protein Boost"}]}`

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantErr   bool
		wantCount int
	}{
		{name: "plain json", text: validReply, wantCount: 2},
		{name: "fenced json", text: "```json\n" + validReply + "\n```", wantCount: 2},
		{name: "prose around json", text: "Sure! " + validReply + " Hope that helps.", wantCount: 2},
		{name: "empty suggestions", text: `{"context":"","message":"","type":"upsell","suggestions":[]}`, wantCount: 0},
		{name: "no braces", text: "I cannot help with that", wantErr: true},
		{name: "reversed braces", text: "} nope {", wantErr: true},
		{name: "truncated", text: `{"context":"x","message":"y"`, wantErr: true},
		{name: "missing suggestions", text: `{"context":"x","message":"y","type":"upsell"}`, wantErr: true},
		{name: "missing message", text: `{"context":"x","type":"upsell","suggestions":[]}`, wantErr: true},
		{name: "bad type", text: `{"context":"x","message":"y","type":"crosssell","suggestions":[]}`, wantErr: true},
		{name: "suggestion without id", text: `{"context":"x","message":"y","type":"upsell","suggestions":[{"reason":"r"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrSchema) {
					t.Fatalf("error = %v, want ErrSchema", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if len(resp.Suggestions) != tt.wantCount {
				t.Errorf("suggestions = %d, want %d", len(resp.Suggestions), tt.wantCount)
			}
		})
	}
}

func TestParseResponse_OptionalFields(t *testing.T) {
	resp, err := ParseResponse(validReply)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if resp.PrimaryContextID == nil || *resp.PrimaryContextID != "breakfast" {
		t.Errorf("PrimaryContextID = %v", resp.PrimaryContextID)
	}
	if resp.ContextConfidence == nil || *resp.ContextConfidence != 0.8 {
		t.Errorf("ContextConfidence = %v", resp.ContextConfidence)
	}
}

func TestHydrate(t *testing.T) {
	cat := testCatalog(t)
	cart := testCart(t, cat)

	resp, err := ParseResponse(`{"context":"","message":"m","type":"upsell","suggestions":[` +
		`{"id":"milk","reason":"in cart"},` +
		`{"id":"ghost","reason":"unknown"},` +
		`{"id":"coffee","reason":"Morning Boost"},` +
		`{"id":"coffee","reason":"again"},` +
		`{"id":"butter","reason":"Pairs with Bread"}]}`)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}

	result, err := Hydrate(resp, cat, cart)
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}

	ids := result.IDs()
	if len(ids) != 2 || ids[0] != "coffee" || ids[1] != "butter" {
		t.Errorf("ids = %v, want [coffee butter]", ids)
	}
	if result.Suggestions[0].Reason != "Morning Boost" {
		t.Errorf("reason = %q", result.Suggestions[0].Reason)
	}
	if result.Suggestions[0].Price != 310 {
		t.Errorf("hydrated price = %v, want 310", result.Suggestions[0].Price)
	}
	if result.Context != DefaultContextTitle {
		t.Errorf("Context = %q, want %q", result.Context, DefaultContextTitle)
	}
	for _, id := range ids {
		if cart.Contains(id) {
			t.Errorf("suggestion %q is already in the cart", id)
		}
	}
}

func TestHydrate_Empty(t *testing.T) {
	cat := testCatalog(t)
	cart := testCart(t, cat)

	resp, err := ParseResponse(`{"context":"c","message":"m","type":"retention","suggestions":[{"id":"bread","reason":"r"},{"id":"nope","reason":"r"}]}`)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if _, err := Hydrate(resp, cat, cart); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("error = %v, want ErrEmptyResult", err)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{ErrConfig, "config_error"},
		{ErrTransport, "transport_error"},
		{ErrSchema, "schema_error"},
		{ErrEmptyResult, "empty_result"},
		{errors.New("other"), "unknown"},
	}
	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
