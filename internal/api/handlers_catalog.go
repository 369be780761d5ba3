// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/cartsense/internal/catalog"
)

// ContextResponse is one shopping context with its copy and categories.
type ContextResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Triggers   []string `json:"triggers"`
	Categories []string `json:"categories"`
	Lines      []string `json:"lines"`
	Keywords   []string `json:"keywords"`
}

// CatalogContexts lists every shopping context in detection order.
func (h *Handler) CatalogContexts(w http.ResponseWriter, r *http.Request) {
	defs := catalog.Contexts()
	out := make([]ContextResponse, 0, len(defs))
	for _, def := range defs {
		cc, _ := catalog.CopyFor(def.ID)
		out = append(out, ContextResponse{
			ID:         def.ID,
			Title:      def.Title,
			Triggers:   def.Triggers,
			Categories: catalog.CategoriesForContext(def.ID),
			Lines:      cc.Lines,
			Keywords:   cc.Keywords,
		})
	}
	WriteSuccess(w, r, out)
}

// CatalogProducts lists products, optionally filtered by ?category=.
// An unknown category yields an empty list.
func (h *Handler) CatalogProducts(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if len(category) > 64 {
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "category is too long")
		return
	}

	var products []catalog.Product
	if category == "" {
		products = h.deps.Catalog.Products()
	} else {
		products = h.deps.Catalog.Filter(func(p catalog.Product) bool {
			return p.CategoryID == category
		})
	}
	if products == nil {
		products = []catalog.Product{}
	}
	WriteSuccess(w, r, map[string]interface{}{
		"products":   products,
		"count":      len(products),
		"categories": h.deps.Catalog.Categories(),
	})
}
