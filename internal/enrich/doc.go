// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Package enrich turns a prepared cart into model-backed suggestions.

A request is built from the cart and a recommend.Preparation (detected
contexts, temporal signals, sampled candidates). The prompt is assembled
server side from that data only, so clients can never inject instructions.

Two clients implement Client:

  - DirectClient calls a Generator (the provider package) in process.
  - RemoteClient posts the request to an analyze endpoint and reads the
    provider text from the API envelope.

Both run through an optional circuit Breaker, parse the reply with
ParseResponse and resolve it against the catalog with Hydrate.

# Failures

Every error wraps one of four sentinels:

	ErrConfig       provider credential missing
	ErrTransport    network, timeout, non-2xx, open circuit
	ErrSchema       reply not JSON or missing required fields
	ErrEmptyResult  nothing usable after hydration

Callers are expected to fall back to the rule path on any of them.
*/
package enrich
