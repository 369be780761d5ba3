// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/catalog"
)

func newBreakfastCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Product{
		{ID: "milk", Name: "Amul Milk", Price: 60, CategoryID: catalog.CategoryDairy},
		{ID: "bread", Name: "Britannia Bread", Price: 40, CategoryID: catalog.CategoryBakeryBiscuits},
		{ID: "butter", Name: "Amul Butter", Price: 58, CategoryID: catalog.CategoryDairy},
		{ID: "eggs", Name: "Farm Fresh Eggs", Price: 54, CategoryID: catalog.CategoryMeatEggs},
		{ID: "jam", Name: "Kissan Mixed Fruit Jam", Price: 140, CategoryID: catalog.CategoryPantrySpicesSauces},
		{ID: "coffee", Name: "Nescafe Classic Coffee", Price: 310, CategoryID: catalog.CategoryBeverages},
		{ID: "chips", Name: "Lays Classic Salted", Price: 20, CategoryID: catalog.CategorySnacks},
		{ID: "harpic", Name: "Harpic Toilet Cleaner", Price: 99, CategoryID: catalog.CategoryHomeCleaning},
		{ID: "banana", Name: "Banana Robusta", Price: 45, CategoryID: catalog.CategoryFreshProduce},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func milkAndBread(t *testing.T, cat *catalog.Catalog) catalog.Cart {
	t.Helper()
	cart, unknown := cat.Hydrate([]catalog.Line{{ID: "milk", Quantity: 1}, {ID: "bread", Quantity: 1}})
	if len(unknown) != 0 {
		t.Fatalf("unknown ids %v", unknown)
	}
	return cart
}

var weekdayNoon = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func TestNewRuleEngine(t *testing.T) {
	cat := newBreakfastCatalog(t)

	if _, err := NewRuleEngine(nil, nil, zerolog.Nop()); err == nil {
		t.Error("NewRuleEngine(nil catalog) should fail")
	}

	bad := DefaultConfig()
	bad.PoolSize = 0
	if _, err := NewRuleEngine(cat, bad, zerolog.Nop()); err == nil {
		t.Error("NewRuleEngine(invalid config) should fail")
	}

	engine, err := NewRuleEngine(cat, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRuleEngine() error = %v", err)
	}
	if engine.Config().PoolSize != 80 {
		t.Errorf("default pool size = %d, want 80", engine.Config().PoolSize)
	}
}

func TestRuleEngine_Evaluate_MilkAndBread(t *testing.T) {
	cat := newBreakfastCatalog(t)
	engine, err := NewRuleEngine(cat, nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	cart := milkAndBread(t, cat)

	state := engine.Evaluate(cart, weekdayNoon)
	if !state.Active {
		t.Fatal("expected an active rule state")
	}
	if state.ContextID != "breakfast" || state.ContextTitle != "Breakfast Prep" {
		t.Errorf("context = %s/%s, want breakfast/Breakfast Prep", state.ContextID, state.ContextTitle)
	}
	if state.Message == "" {
		t.Error("expected a composed message")
	}

	var got []string
	for _, s := range state.Suggestions {
		got = append(got, s.ID)
		if cart.Contains(s.ID) {
			t.Errorf("suggestion %s is already in the cart", s.ID)
		}
	}
	// butter: same aisle + trigger + price (180); eggs: trigger + price (80);
	// coffee: trigger only (50); banana: price only (30).
	want := []string{"butter", "eggs", "coffee", "banana"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
}

func TestRuleEngine_Evaluate_Disabled(t *testing.T) {
	cat := newBreakfastCatalog(t)
	engine, _ := NewRuleEngine(cat, nil, zerolog.Nop())

	if state := engine.Evaluate(nil, weekdayNoon); state.Active {
		t.Error("empty cart should be inactive")
	}

	unmatched := catalog.NewCart(item("widget", "Plain Widget", 10, 1, ""))
	if state := engine.Evaluate(unmatched, weekdayNoon); state.Active {
		t.Errorf("no context should qualify, got %+v", state)
	}

	// Cleaning qualifies, but the only cleaning product is already in the cart.
	lonely, err := catalog.New([]catalog.Product{
		{ID: "harpic", Name: "Harpic Toilet Cleaner", Price: 99, CategoryID: catalog.CategoryHomeCleaning},
	})
	if err != nil {
		t.Fatal(err)
	}
	engine, _ = NewRuleEngine(lonely, nil, zerolog.Nop())
	cart, _ := lonely.Hydrate([]catalog.Line{{ID: "harpic", Quantity: 1}})
	if state := engine.Evaluate(cart, weekdayNoon); state.Active {
		t.Errorf("empty candidate pool should be inactive, got %+v", state)
	}
	if engine.Stats().Disabled != 1 {
		t.Errorf("Disabled = %d, want 1", engine.Stats().Disabled)
	}
}

func TestRuleEngine_Prepare(t *testing.T) {
	cat := newBreakfastCatalog(t)
	engine, _ := NewRuleEngine(cat, nil, zerolog.Nop())
	cart := milkAndBread(t, cat)

	prep := engine.Prepare(cart, weekdayNoon)
	top, ok := prep.Detection.Primary()
	if !ok || top.ID != "breakfast" {
		t.Fatalf("primary = %+v, want breakfast", top)
	}
	// Revenue formula: 2*10 + (60+40)*0.1
	if top.WeightedScore != 30 {
		t.Errorf("WeightedScore = %v, want 30", top.WeightedScore)
	}
	if prep.Signals.TimeBucket != TimeAfternoon {
		t.Errorf("TimeBucket = %s, want afternoon", prep.Signals.TimeBucket)
	}
	for _, p := range prep.Candidates {
		if p.ID == "milk" || p.ID == "bread" {
			t.Errorf("candidate %s is in the cart", p.ID)
		}
	}
}
