// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"math/rand"
	"sync"

	"github.com/tomtom215/cartsense/internal/catalog"
)

// Selector builds the bounded candidate pool for a cart.
// Category inclusion is deterministic; only the sample drawn from an
// oversized pool depends on the random source. Safe for concurrent use.
type Selector struct {
	catalog  *catalog.Catalog
	poolSize int

	// Random source (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewSelector creates a selector drawing at most poolSize products.
// A zero seed selects the fixed default seed.
func NewSelector(cat *catalog.Catalog, poolSize int, seed int64) *Selector {
	if poolSize <= 0 {
		poolSize = DefaultConfig().PoolSize
	}
	if seed == 0 {
		seed = 42
	}
	return &Selector{
		catalog:  cat,
		poolSize: poolSize,
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for prompt sampling
	}
}

// TargetCategories returns the category ids eligible for suggestion.
// A strong detection contributes its context's mapped aisles; otherwise the
// time-of-day defaults apply. Every cart category and its adjacent
// categories are always added.
//
//nolint:gocritic // Detection and TemporalSignals are read-only inputs
func TargetCategories(cart catalog.Cart, det Detection, signals TemporalSignals) map[string]struct{} {
	targets := make(map[string]struct{})
	add := func(cats ...string) {
		for _, c := range cats {
			targets[c] = struct{}{}
		}
	}

	if det.Strong {
		if top, ok := det.Primary(); ok {
			add(catalog.CategoriesForContext(top.ID)...)
		}
	} else {
		switch signals.TimeBucket {
		case TimeMorning:
			add(catalog.CategoryDairy, catalog.CategoryBakeryBiscuits, catalog.CategoryMeatEggs)
		case TimeLateNight:
			add(catalog.CategorySnacks, catalog.CategoryBeverages, catalog.CategorySweetsChocolates)
		default:
			add(catalog.CategoryFreshProduce, catalog.CategorySnacks)
		}
	}

	for _, c := range cart.Categories() {
		add(c)
		add(catalog.AdjacentCategories(c)...)
	}

	return targets
}

// Pool returns every eligible product in catalog order, unsampled.
//
//nolint:gocritic // Detection and TemporalSignals are read-only inputs
func (s *Selector) Pool(cart catalog.Cart, det Detection, signals TemporalSignals) []catalog.Product {
	targets := TargetCategories(cart, det, signals)
	inCart := cart.IDSet()

	return s.catalog.Filter(func(p catalog.Product) bool {
		if p.CategoryID == "" {
			return false
		}
		if _, ok := inCart[p.ID]; ok {
			return false
		}
		_, ok := targets[p.CategoryID]
		return ok
	})
}

// Select returns the candidate pool, sampled down to the pool size when it
// is larger.
//
//nolint:gocritic // Detection and TemporalSignals are read-only inputs
func (s *Selector) Select(cart catalog.Cart, det Detection, signals TemporalSignals) []catalog.Product {
	pool := s.Pool(cart, det, signals)
	if len(pool) <= s.poolSize {
		return pool
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	s.rngMu.Unlock()

	return pool[:s.poolSize]
}

// PoolSize returns the sampling bound.
func (s *Selector) PoolSize() int {
	return s.poolSize
}
