// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package catalog holds the read-only reference data the recommendation
// pipeline consumes: products, shopping contexts and their keyword triggers,
// per-context copy, and the category association tables.
//
// # Ownership
//
// Everything in this package is loaded once per process and never mutated
// afterwards. A *Catalog is safe to share across goroutines without locking.
// Package-level tables (contexts, copy, associations) are unexported and are
// only reachable through accessor functions that return copies.
//
// # Loading
//
//	cat, err := catalog.Load(cfg.Recommend.CatalogPath)
//	if err != nil {
//	    return err
//	}
//	p, ok := cat.FindByID("amul-milk-500")
//
// An empty path loads the embedded seed catalog.
package catalog
