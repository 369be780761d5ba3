// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package enrich

import (
	"errors"
)

// Failure kinds. Every error returned by a Client wraps exactly one of these.
var (
	// ErrConfig means the provider credential is missing.
	ErrConfig = errors.New("enrichment provider is not configured")

	// ErrTransport covers network failures, timeouts, non-2xx replies and
	// an open circuit breaker.
	ErrTransport = errors.New("enrichment transport failed")

	// ErrSchema means the reply was not valid JSON or lacked required fields.
	ErrSchema = errors.New("enrichment response failed schema validation")

	// ErrEmptyResult means the reply was well formed but no suggestion
	// survived hydration.
	ErrEmptyResult = errors.New("enrichment returned no usable suggestions")
)

// Reason returns a short label for err suitable for metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConfig):
		return "config_error"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrSchema):
		return "schema_error"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	default:
		return "unknown"
	}
}
