// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Package orchestrator decides when suggestions for a cart are recomputed.

An Orchestrator owns one cart, one suggestion Session and the published
RecommendationState. It is an explicit state machine:

	Idle ──change──▶ Debouncing ──3s──▶ Analyzing ──ok──▶ Active
	  ▲                  ▲                  │               │
	  └──empty cart──────┴──────change──────┴──fail/none──▶ Disabled

Cart changes are classified by the pure function ClassifyChange. Adding
only items that are currently on offer is an optimistic accept: the items
leave the published list at once, and enrichment runs immediately if the
list is exhausted or after a 10s quiet period otherwise. Every other change
re-arms the 3s debounce.

Timers are keyed ("debounce", "quiet", "thinking"); arming a key cancels
the timer already armed under it. Time comes from an injectable Clock so
tests can drive the machine without sleeping.

At most one enrichment call is in flight. A trigger during the call is kept
as a pending decision and issued when the call returns. A result whose cart
membership no longer matches the current cart is discarded. Any enrichment
failure falls back to the local rule path; if that finds nothing the state
becomes Disabled.

Usage:

	orch, err := orchestrator.New(engine, client, orchestrator.DefaultConfig(), logger)
	states, unsubscribe := orch.Subscribe()
	defer unsubscribe()
	_ = orch.CartChanged(cart)
*/
package orchestrator
