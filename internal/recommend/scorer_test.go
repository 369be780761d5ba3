// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/cartsense/internal/catalog"
)

func item(id, name string, price float64, qty int, category string) catalog.CartItem {
	return catalog.CartItem{
		Product:  catalog.Product{ID: id, Name: name, Price: price, CategoryID: category},
		Quantity: qty,
	}
}

func TestTriggerIndex_Match(t *testing.T) {
	defs := []catalog.ContextDefinition{
		{ID: "a", Triggers: []string{"tea", "green tea", "ginger"}},
		{ID: "b", Triggers: []string{"tea", "he"}},
	}
	ix := newTriggerIndex(defs)

	hits := ix.match("Tetley GREEN TEA with Ginger")
	var got []string
	for _, pi := range hits {
		got = append(got, ix.patterns[pi])
	}
	joined := "," + strings.Join(got, ",") + ","
	for _, want := range []string{"tea", "green tea", "ginger"} {
		if !strings.Contains(joined, ","+want+",") {
			t.Errorf("match() = %v, missing %q", got, want)
		}
	}
	if strings.Contains(joined, ",he,") {
		t.Errorf("match() = %v, should not contain \"he\"", got)
	}

	pi, ok := ix.lookup("tea")
	if !ok {
		t.Fatal("lookup(tea) not found")
	}
	if len(ix.refs[pi]) != 2 {
		t.Errorf("shared trigger should reference both contexts, got %d refs", len(ix.refs[pi]))
	}

	if hits := ix.match("Basmati Rice"); len(hits) != 0 {
		t.Errorf("match(Basmati Rice) = %v, want none", hits)
	}
}

func TestScorer_QuantityOutweighsVariety(t *testing.T) {
	defs := []catalog.ContextDefinition{
		{ID: "variety", Title: "Variety", Triggers: []string{"milk", "bread"}},
		{ID: "bulk", Title: "Bulk", Triggers: []string{"coke"}},
	}
	scorer := NewScorer(defs, FormulaQuantity, nil)

	cart := catalog.NewCart(
		item("milk", "Amul Milk", 60, 1, catalog.CategoryDairy),
		item("bread", "Britannia Bread", 40, 1, catalog.CategoryBakeryBiscuits),
		item("coke", "Coke Can", 40, 10, catalog.CategoryBeverages),
	)

	ranked := scorer.Score(cart)
	if len(ranked) != 2 {
		t.Fatalf("Score() returned %d contexts, want 2", len(ranked))
	}
	if ranked[0].ID != "bulk" || ranked[0].WeightedScore != 12 {
		t.Errorf("leader = %s (%v), want bulk (12)", ranked[0].ID, ranked[0].WeightedScore)
	}
	if ranked[1].ID != "variety" || ranked[1].WeightedScore != 6 {
		t.Errorf("runner-up = %s (%v), want variety (6)", ranked[1].ID, ranked[1].WeightedScore)
	}
	if ranked[1].MatchCount != 2 || ranked[1].MatchingQty != 2 {
		t.Errorf("variety matchCount=%d matchingQty=%d, want 2 and 2", ranked[1].MatchCount, ranked[1].MatchingQty)
	}
}

func TestScorer_RevenueFormula(t *testing.T) {
	defs := []catalog.ContextDefinition{
		{ID: "breakfast", Title: "Breakfast", Triggers: []string{"milk", "bread"}},
	}
	scorer := NewScorer(defs, FormulaRevenue, nil)

	tests := []struct {
		name      string
		cart      catalog.Cart
		wantScore float64
		wantQty   int
	}{
		{
			name: "two items",
			cart: catalog.NewCart(
				item("milk", "Milk", 60, 1, ""),
				item("bread", "Bread", 40, 2, ""),
			),
			wantScore: 2*10 + 140*0.1,
			wantQty:   3,
		},
		{
			name:      "one item hitting two triggers counts once",
			cart:      catalog.NewCart(item("mb", "Milk Bread", 50, 2, "")),
			wantScore: 2*10 + 100*0.1,
			wantQty:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := scorer.Score(tt.cart)
			if len(ranked) != 1 {
				t.Fatalf("Score() returned %d contexts, want 1", len(ranked))
			}
			if math.Abs(ranked[0].WeightedScore-tt.wantScore) > 1e-9 {
				t.Errorf("WeightedScore = %v, want %v", ranked[0].WeightedScore, tt.wantScore)
			}
			if ranked[0].MatchingQty != tt.wantQty {
				t.Errorf("MatchingQty = %d, want %d", ranked[0].MatchingQty, tt.wantQty)
			}
		})
	}
}

func TestScorer_TieBreakByDeclarationOrder(t *testing.T) {
	first := catalog.ContextDefinition{ID: "first", Triggers: []string{"tea"}}
	second := catalog.ContextDefinition{ID: "second", Triggers: []string{"tea"}}
	cart := catalog.NewCart(item("t", "Tata Tea", 100, 1, ""))

	got := NewScorer([]catalog.ContextDefinition{first, second}, FormulaQuantity, nil).Score(cart)
	if len(got) != 2 || got[0].ID != "first" {
		t.Errorf("order = %v, want first leading", ids(got))
	}

	got = NewScorer([]catalog.ContextDefinition{second, first}, FormulaQuantity, nil).Score(cart)
	if len(got) != 2 || got[0].ID != "second" {
		t.Errorf("order = %v, want second leading", ids(got))
	}
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer(catalog.Contexts(), FormulaRevenue, nil)
	cart := catalog.NewCart(
		item("a", "Lays Magic Masala Chips", 20, 3, catalog.CategorySnacks),
		item("b", "Coca-Cola Soft Drink", 40, 2, catalog.CategoryBeverages),
		item("c", "Cadbury Dairy Milk Silk", 80, 1, catalog.CategorySweetsChocolates),
	)

	first := scorer.Score(cart)
	for i := 0; i < 20; i++ {
		if again := scorer.Score(cart); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, ids(first), ids(again))
		}
	}
	if len(first) == 0 {
		t.Fatal("expected party/movie contexts to match")
	}
}

func TestScorer_EmptyAndUnmatched(t *testing.T) {
	scorer := NewScorer(catalog.Contexts(), FormulaQuantity, nil)
	if got := scorer.Score(nil); got != nil {
		t.Errorf("Score(nil) = %v, want nil", got)
	}

	det := scorer.DetectTop(catalog.NewCart(item("x", "Zzz Qqq", 10, 4, "")), 3)
	if len(det.Contexts) != 0 || det.Strong {
		t.Errorf("DetectTop(unmatched) = %+v, want empty and weak", det)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		match, triggers int
		want            float64
	}{
		{0, 5, 0},
		{1, 2, 0.33},
		{2, 10, 0.2},
		{2, 25, 0.2},
		{3, 4, 0.75},
		{5, 3, 1},
	}
	for _, tt := range tests {
		if got := confidence(tt.match, tt.triggers); got != tt.want {
			t.Errorf("confidence(%d, %d) = %v, want %v", tt.match, tt.triggers, got, tt.want)
		}
	}
}

func TestDetectTop_MilkAndBread(t *testing.T) {
	scorer := NewScorer(catalog.Contexts(), FormulaQuantity, nil)
	cart := catalog.NewCart(
		item("milk", "Amul Milk", 60, 1, catalog.CategoryDairy),
		item("bread", "Britannia Bread", 40, 1, catalog.CategoryBakeryBiscuits),
	)

	det := scorer.DetectTop(cart, 3)
	top, ok := det.Primary()
	if !ok {
		t.Fatal("expected a detected context")
	}
	if top.ID != "breakfast" {
		t.Fatalf("top context = %s, want breakfast (all: %v)", top.ID, ids(det.Contexts))
	}
	if top.MatchCount != 2 || top.MatchingQty != 2 || top.WeightedScore != 6 {
		t.Errorf("breakfast = %+v, want matchCount=2 matchingQty=2 score=6", top)
	}
	if !reflect.DeepEqual(top.MatchedTriggers, []string{"bread", "milk"}) {
		t.Errorf("MatchedTriggers = %v, want [bread milk]", top.MatchedTriggers)
	}
	if !det.Strong {
		t.Error("score 6 should be strong")
	}
	if len(det.Contexts) > 3 {
		t.Errorf("DetectTop kept %d contexts, want at most 3", len(det.Contexts))
	}
}

func TestIsStrong(t *testing.T) {
	tests := []struct {
		name string
		dc   DetectedContext
		want bool
	}{
		{"score clears", DetectedContext{MatchCount: 1, MatchingQty: 2}, true},
		{"confidence clears", DetectedContext{MatchCount: 1, MatchingQty: 1, Confidence: 0.4}, true},
		{"neither", DetectedContext{MatchCount: 1, MatchingQty: 1, Confidence: 0.1}, false},
		{"no match", DetectedContext{Confidence: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStrong(tt.dc, 4.0, 0.4); got != tt.want {
				t.Errorf("IsStrong() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormula(t *testing.T) {
	if FormulaQuantity.Qualifies(0) || !FormulaQuantity.Qualifies(1) {
		t.Error("quantity formula should qualify any positive score")
	}
	if FormulaRevenue.Qualifies(9.9) || !FormulaRevenue.Qualifies(10) {
		t.Error("revenue formula should qualify at 10")
	}
	for _, f := range []Formula{FormulaQuantity, FormulaRevenue} {
		parsed, ok := ParseFormula(f.String())
		if !ok || parsed != f {
			t.Errorf("ParseFormula(%q) = %v, %v", f.String(), parsed, ok)
		}
	}
	if _, ok := ParseFormula("bogus"); ok {
		t.Error("ParseFormula(bogus) should fail")
	}
}

func ids(dcs []DetectedContext) []string {
	out := make([]string, len(dcs))
	for i := range dcs {
		out[i] = dcs[i].ID
	}
	return out
}
