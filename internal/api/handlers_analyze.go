// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cartsense/internal/enrich"
	"github.com/tomtom215/cartsense/internal/logging"
	"github.com/tomtom215/cartsense/internal/provider"
	"github.com/tomtom215/cartsense/internal/validation"
)

// AnalyzeResponse is the data payload of a successful analyze call. Text
// is the raw provider reply; callers parse and validate it themselves.
type AnalyzeResponse struct {
	Text string `json:"text"`
}

// Analyze accepts an enrichment request, builds the prompt server side and
// returns the provider text.
//
//   - OPTIONS: 200 with no body (preflight from non-browser clients)
//   - non-POST: 405 METHOD_NOT_ALLOWED
//   - no provider key: 500 CONFIG_ERROR
//   - missing cartSummary or candidateList: 400 VALIDATION_FAILED
//   - provider failure: 502 EXTERNAL_SERVICE_FAILED
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		rw.MethodNotAllowed("POST, OPTIONS")
		return
	}

	if !h.deps.Generator.Configured() {
		logging.Ctx(r.Context()).Error().Msg("analyze called without a provider API key")
		rw.ConfigError("Server configuration error: provider API key is not set")
		return
	}

	var req enrich.Request
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	text, err := h.deps.Generator.Generate(r.Context(), enrich.BuildPrompt(&req))
	if err != nil {
		if errors.Is(err, provider.ErrNoAPIKey) {
			rw.ConfigError("Server configuration error: provider API key is not set")
			return
		}
		rw.ExternalServiceError("provider", err)
		return
	}

	rw.Success(AnalyzeResponse{Text: text})
}
