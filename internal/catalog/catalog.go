// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartsense/internal/validation"
)

//go:embed data/products.json
var seedProducts []byte

// Catalog is the read-only product lookup table.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog from products. Product ids must be unique and every
// product must pass struct validation.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for i := range products {
		p := products[i]
		if verr := validation.ValidateStruct(&p); verr != nil {
			return nil, fmt.Errorf("product %d (%q): %w", i, p.ID, verr)
		}
		if !validation.IsProductID(p.ID) {
			return nil, fmt.Errorf("product %d: invalid id %q", i, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Parse decodes a JSON array of products.
func Parse(data []byte) (*Catalog, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(products)
}

// Load reads a JSON catalog file. An empty path returns the embedded seed catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

var (
	defaultCatalog    *Catalog
	defaultCatalogErr error
	defaultOnce       sync.Once
)

// Default returns the embedded seed catalog, parsed once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = Parse(seedProducts)
	})
	return defaultCatalog, defaultCatalogErr
}

// FindByID looks up a product.
func (c *Catalog) FindByID(id string) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Filter returns products matching pred in catalog order.
func (c *Catalog) Filter(pred func(Product) bool) []Product {
	var out []Product
	for i := range c.products {
		if pred(c.products[i]) {
			out = append(out, c.products[i])
		}
	}
	return out
}

// Products returns a copy of all products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Categories returns the distinct category ids present, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for i := range c.products {
		if cat := c.products[i].CategoryID; cat != "" {
			seen[cat] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Hydrate resolves id/quantity pairs into a cart. Unknown ids are returned
// separately so callers can report them.
func (c *Catalog) Hydrate(lines []Line) (Cart, []string) {
	items := make([]CartItem, 0, len(lines))
	var unknown []string
	for _, line := range lines {
		p, ok := c.FindByID(line.ID)
		if !ok {
			unknown = append(unknown, line.ID)
			continue
		}
		items = append(items, CartItem{Product: p, Quantity: line.Quantity})
	}
	return NewCart(items...), unknown
}

// Line is a product id and quantity, the wire form of a cart entry.
type Line struct {
	ID       string `json:"id" validate:"product_id"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=999"`
}
