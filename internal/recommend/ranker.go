// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/cartsense/internal/catalog"
)

// Affinity weights.
const (
	affinitySameCategory = 100
	affinityContextMatch = 50
	affinityPriceNear    = 30
	affinityPriceFar     = 10

	// defaultMeanPrice stands in for the mean unit price of an empty cart.
	defaultMeanPrice = 100.0
)

type scoredProduct struct {
	product catalog.Product
	score   int
}

// RankByAffinity orders candidates by how well they fit the cart and keeps
// the first limit. Products already in the cart are skipped.
//
// Scoring: +100 when the product shares a category with a cart item, +50
// when its name contains one of triggers, and +30 when its price is within
// 0.5x-2x of the mean cart unit price (+10 within 0.2x-5x). Ties go to the
// more expensive product.
func RankByAffinity(candidates []catalog.Product, cart catalog.Cart, triggers []string, limit int) []catalog.Product {
	inCart := cart.IDSet()
	cartCats := make(map[string]struct{})
	for _, c := range cart.Categories() {
		cartCats[c] = struct{}{}
	}

	lowered := make([]string, 0, len(triggers))
	for _, t := range triggers {
		if t != "" {
			lowered = append(lowered, strings.ToLower(t))
		}
	}

	mean := meanUnitPrice(cart)

	scored := make([]scoredProduct, 0, len(candidates))
	for _, p := range candidates {
		if _, ok := inCart[p.ID]; ok {
			continue
		}

		score := 0
		if _, ok := cartCats[p.CategoryID]; ok && p.CategoryID != "" {
			score += affinitySameCategory
		}
		if nameMatchesAny(p.Name, lowered) {
			score += affinityContextMatch
		}

		ratio := p.Price / mean
		switch {
		case ratio >= 0.5 && ratio <= 2.0:
			score += affinityPriceNear
		case ratio >= 0.2 && ratio <= 5.0:
			score += affinityPriceFar
		}

		scored = append(scored, scoredProduct{product: p, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].product.Price > scored[j].product.Price
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]catalog.Product, len(scored))
	for i := range scored {
		out[i] = scored[i].product
	}
	return out
}

func meanUnitPrice(cart catalog.Cart) float64 {
	if cart.IsEmpty() {
		return defaultMeanPrice
	}
	var total float64
	for i := range cart {
		total += cart[i].Price
	}
	mean := total / float64(len(cart))
	if mean <= 0 {
		return defaultMeanPrice
	}
	return mean
}

func nameMatchesAny(name string, lowered []string) bool {
	n := strings.ToLower(name)
	for _, t := range lowered {
		if strings.Contains(n, t) {
			return true
		}
	}
	return false
}
