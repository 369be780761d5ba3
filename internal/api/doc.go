// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Package api exposes Cartsense over HTTP using the chi router.

# Endpoints

	POST   /api/analyze                    enrichment proxy (also /api/v1/analyze)
	POST   /api/v1/sessions                create a server-hosted cart session
	GET    /api/v1/sessions/{id}           cart and current recommendation state
	PUT    /api/v1/sessions/{id}/cart      replace the cart: {"items":[{"id","quantity"}]}
	POST   /api/v1/sessions/{id}/refresh   enrich now, skipping the debounce
	DELETE /api/v1/sessions/{id}           end the session
	GET    /api/v1/sessions/{id}/ws        websocket stream of state changes
	GET    /api/v1/catalog/contexts        shopping contexts with copy
	GET    /api/v1/catalog/products        products, optional ?category=
	GET    /api/v1/health                  component status (also /live, /ready, /latency)
	GET    /metrics                        Prometheus metrics

# Analyze

The analyze endpoint receives data only (signals, detected contexts, cart
summary, candidate list). The prompt is assembled server side, so callers
cannot inject instructions. The provider reply text is returned unchanged
as data.text; the enrichment client validates it.

# Responses

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "..."}, "meta": {...}}

Error codes: BAD_REQUEST, NOT_FOUND, METHOD_NOT_ALLOWED, TOO_MANY_REQUESTS,
VALIDATION_FAILED, CONFIG_ERROR, EXTERNAL_SERVICE_FAILED,
SERVICE_UNAVAILABLE and INTERNAL_ERROR.

# Middleware

Request ids, real IP extraction, panic recovery, CORS (go-chi/cors) and
Prometheus metrics apply to every route. Rate limits (go-chi/httprate) are
per client IP, with a tighter limit on analyze.
*/
package api
