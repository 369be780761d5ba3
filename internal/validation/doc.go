// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package validation provides struct validation using go-playground/validator v10.
//
// It exposes a thread-safe singleton validator, reports failing fields by
// their JSON names, and converts failures into the API error shape used by
// the HTTP layer.
//
// # Custom Rules
//
//   - product_id: non-empty, no whitespace, no "|"
//
// # Usage
//
//	type CartLine struct {
//	    ID       string `json:"id" validate:"product_id"`
//	    Quantity int    `json:"quantity" validate:"gte=0,lte=99"`
//	}
//
//	if verr := validation.ValidateStruct(&line); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// The same validator checks enrichment provider replies against their
// required fields, so a malformed reply is detected before hydration.
package validation
