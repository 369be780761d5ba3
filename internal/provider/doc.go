// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package provider is the HTTP client for the model that backs enrichment.
//
// Gemini posts a prompt to the generateContent REST endpoint with a JSON
// response schema and returns the raw reply text. Outbound calls are paced
// with a token bucket and retried with exponential backoff on HTTP 429.
// Interpreting the text is left to the enrich package.
package provider
