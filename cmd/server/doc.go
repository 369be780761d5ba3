// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Command server runs the cartsense recommendation service.

It serves the stateless analyze endpoint used by storefront clients and,
for clients that let the server own the cart, per-session recommendation
orchestrators whose state changes stream over websockets.

# Startup

 1. Configuration: koanf v2 layering defaults, config.yaml and environment
 2. Logging: zerolog, JSON or console
 3. Catalog: embedded seed catalog or CATALOG_PATH
 4. Rules: context scorer and candidate selector
 5. Enrichment: direct provider calls, a remote analyze endpoint, or none
 6. Event bus: in-process channels or NATS (EVENTS_BACKEND)
 7. Session registry, websocket hub and event forwarder
 8. HTTP router (chi) and the suture supervisor tree

# Configuration

Common environment variables:

	GEMINI_API_KEY     provider key; without it /api/analyze answers CONFIG_ERROR
	ENRICH_MODE        direct (default), remote or disabled
	ENRICH_REMOTE_ENDPOINT
	                   analyze URL used in remote mode
	HTTP_PORT          listen port (default 8080)
	CORS_ORIGINS       comma-separated storefront origins
	DEBOUNCE           cart-change debounce (default 3s)
	SESSION_IDLE_TTL   idle session expiry (default 30m)
	EVENTS_BACKEND     memory (default) or nats
	NATS_URL           NATS server for the nats backend
	LOG_LEVEL          trace, debug, info, warn, error
	LOG_FORMAT         json or console
	CONFIG_PATH        explicit config file path

# Example

	export GEMINI_API_KEY=...
	export CORS_ORIGINS=https://shop.example.com
	./cartsense

	curl -X POST localhost:8080/api/analyze \
	  -H 'Content-Type: application/json' \
	  -d '{"signals":{"timeBucket":"morning","occasionType":"none"},
	       "cartSummary":"Amul Milk x1","candidateList":"amul-butter-100|Amul Butter|58"}'

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
SHUTDOWN_TIMEOUT, then every session's orchestrator is closed and the event
bus is shut down.
*/
package main
