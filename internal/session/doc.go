// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package session keeps server-hosted carts in memory.
//
// Each session owns one orchestrator. The Registry bounds the number of
// live sessions with LRU eviction and drops sessions that go idle for
// longer than the configured TTL. Nothing is persisted; a restart starts
// from an empty registry.
//
// The registry doubles as the janitor service:
//
//	reg, _ := session.NewRegistry(cfg, factory, logger)
//	tree.AddDataService(reg) // sweeps idle sessions every SweepInterval
//	defer reg.Close()
package session
