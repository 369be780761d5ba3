// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/tomtom215/cartsense/internal/catalog"
)

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestTargetCategories(t *testing.T) {
	strongBreakfast := Detection{
		Contexts: []DetectedContext{{ID: "breakfast", MatchCount: 2}},
		Strong:   true,
	}
	weak := Detection{
		Contexts: []DetectedContext{{ID: "breakfast", MatchCount: 1}},
		Strong:   false,
	}

	tests := []struct {
		name   string
		cart   catalog.Cart
		det    Detection
		bucket TimeBucket
		want   []string
	}{
		{
			name:   "strong context drives the aisles",
			cart:   catalog.NewCart(item("x", "X", 1, 1, catalog.CategoryDairy)),
			det:    strongBreakfast,
			bucket: TimeLateNight,
			want: []string{
				catalog.CategoryBakeryBiscuits, catalog.CategoryBeverages, catalog.CategoryDairy,
				catalog.CategoryFreshProduce, catalog.CategoryMeatEggs,
			},
		},
		{
			name:   "weak morning",
			cart:   catalog.NewCart(item("x", "X", 1, 1, "")),
			det:    weak,
			bucket: TimeMorning,
			want:   []string{catalog.CategoryBakeryBiscuits, catalog.CategoryDairy, catalog.CategoryMeatEggs},
		},
		{
			name:   "weak late night",
			cart:   catalog.NewCart(item("x", "X", 1, 1, "")),
			det:    weak,
			bucket: TimeLateNight,
			want:   []string{catalog.CategoryBeverages, catalog.CategorySnacks, catalog.CategorySweetsChocolates},
		},
		{
			name:   "weak evening plus cart adjacency",
			cart:   catalog.NewCart(item("x", "X", 1, 1, catalog.CategoryStaplesFlours)),
			det:    Detection{},
			bucket: TimeEvening,
			want: []string{
				catalog.CategoryDairy, catalog.CategoryFreshProduce, catalog.CategoryPantrySpicesSauces,
				catalog.CategorySnacks, catalog.CategoryStaplesFlours,
			},
		},
		{
			name:   "strong context without a mapping",
			cart:   catalog.NewCart(item("x", "X", 1, 1, catalog.CategoryPetCare)),
			det:    Detection{Contexts: []DetectedContext{{ID: "taco", MatchCount: 3}}, Strong: true},
			bucket: TimeMorning,
			want:   []string{catalog.CategoryHomeCleaning, catalog.CategoryPetCare},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortedKeys(TargetCategories(tt.cart, tt.det, TemporalSignals{TimeBucket: tt.bucket}))
			sort.Strings(tt.want)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TargetCategories() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelector_PoolExcludesCart(t *testing.T) {
	cat := newBreakfastCatalog(t)
	cart := milkAndBread(t, cat)
	det := NewScorer(catalog.Contexts(), FormulaQuantity, nil).DetectTop(cart, 3)

	sel := NewSelector(cat, 80, 1)
	pool := sel.Pool(cart, det, SignalsAt(weekdayNoon))

	var got []string
	for _, p := range pool {
		got = append(got, p.ID)
	}
	want := []string{"butter", "eggs", "coffee", "banana"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pool() = %v, want %v (catalog order, breakfast aisles, no cart items)", got, want)
	}

	if sel.PoolSize() != 80 {
		t.Errorf("PoolSize() = %d", sel.PoolSize())
	}
}

func TestSelector_SampleIsBoundedAndSeeded(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	cart, _ := cat.Hydrate([]catalog.Line{
		{ID: "amul-milk-500", Quantity: 1},
		{ID: "lays-magic-masala", Quantity: 1},
		{ID: "onion-1kg", Quantity: 1},
	})
	det := Detection{}
	signals := SignalsAt(time.Date(2026, time.March, 4, 18, 0, 0, 0, time.UTC))

	full := NewSelector(cat, 1000, 7).Pool(cart, det, signals)
	if len(full) <= 10 {
		t.Fatalf("pool of %d is too small for the sampling test", len(full))
	}
	eligible := make(map[string]bool, len(full))
	for _, p := range full {
		eligible[p.ID] = true
	}

	a := NewSelector(cat, 10, 7).Select(cart, det, signals)
	b := NewSelector(cat, 10, 7).Select(cart, det, signals)

	if len(a) != 10 {
		t.Fatalf("Select() returned %d products, want 10", len(a))
	}
	seen := make(map[string]bool)
	for i := range a {
		if !eligible[a[i].ID] {
			t.Errorf("sampled %s is not in the eligible pool", a[i].ID)
		}
		if seen[a[i].ID] {
			t.Errorf("sampled %s twice", a[i].ID)
		}
		seen[a[i].ID] = true
		if a[i].ID != b[i].ID {
			t.Errorf("same seed diverged at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}

	// A pool that fits is returned whole, in catalog order.
	whole := NewSelector(cat, len(full), 7).Select(cart, det, signals)
	if !reflect.DeepEqual(whole, full) {
		t.Error("Select() should not reorder a pool that fits")
	}
}
