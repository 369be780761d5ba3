// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package catalog

import (
	"sort"
	"strings"
)

// Product is an immutable catalog entry.
type Product struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	OriginalPrice float64 `json:"originalPrice" validate:"gte=0"`
	CategoryID    string  `json:"categoryId,omitempty"`
	Image         string  `json:"image,omitempty"`
	Weight        string  `json:"weight,omitempty"`
	Discount      string  `json:"discount,omitempty"`
}

// CartItem is a product with a quantity of at least one.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price * quantity.
//
//nolint:gocritic // value receiver keeps CartItem usable in sort closures
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is an ordered set of cart items keyed by product id.
// Use NewCart to build one; it enforces id uniqueness.
type Cart []CartItem

// NewCart builds a cart from items, merging duplicate ids (quantities add up)
// and dropping items whose quantity is zero or negative.
// Insertion order of first occurrence is preserved.
func NewCart(items ...CartItem) Cart {
	cart := make(Cart, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if pos, ok := index[item.ID]; ok {
			cart[pos].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(cart)
		cart = append(cart, item)
	}

	out := cart[:0]
	for _, item := range cart {
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Contains reports whether a product id is in the cart.
func (c Cart) Contains(id string) bool {
	for i := range c {
		if c[i].ID == id {
			return true
		}
	}
	return false
}

// IDSet returns the set of product ids in the cart.
func (c Cart) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c))
	for i := range c {
		set[c[i].ID] = struct{}{}
	}
	return set
}

// IDs returns product ids in cart order.
func (c Cart) IDs() []string {
	ids := make([]string, len(c))
	for i := range c {
		ids[i] = c[i].ID
	}
	return ids
}

// Signature returns the sorted product ids joined by "|".
// Two carts have equal signatures iff they hold the same products,
// regardless of quantities or order.
func (c Cart) Signature() string {
	ids := c.IDs()
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// Categories returns the distinct category ids of the cart in first-seen order.
// Items without a category are skipped.
func (c Cart) Categories() []string {
	seen := make(map[string]struct{}, len(c))
	var out []string
	for i := range c {
		cat := c[i].CategoryID
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
