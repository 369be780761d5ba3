// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/logging"
	"github.com/tomtom215/cartsense/internal/orchestrator"
	"github.com/tomtom215/cartsense/internal/session"
	"github.com/tomtom215/cartsense/internal/validation"
)

// SessionResponse describes a server-hosted cart session.
type SessionResponse struct {
	ID        string                           `json:"id"`
	CreatedAt time.Time                        `json:"createdAt"`
	Cart      []catalog.Line                   `json:"cart"`
	State     orchestrator.RecommendationState `json:"state"`
}

// CartRequest replaces the whole cart of a session. Lines with quantity 0
// are dropped.
type CartRequest struct {
	Items []catalog.Line `json:"items" validate:"max=200,dive"`
}

func newSessionResponse(s *session.Session) SessionResponse {
	cart := s.Orchestrator.Cart()
	lines := make([]catalog.Line, len(cart))
	for i := range cart {
		lines[i] = catalog.Line{ID: cart[i].ID, Quantity: cart[i].Quantity}
	}
	return SessionResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Cart:      lines,
		State:     s.Orchestrator.State(),
	}
}

// lookupSession resolves {sessionID} or writes the error response.
func (h *Handler) lookupSession(rw *ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, err := h.deps.Sessions.Get(id)
	if err != nil {
		rw.NotFound("Session not found or expired")
		return nil, false
	}
	return s, true
}

// CreateSession starts a new session with an empty cart.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, err := h.deps.Sessions.Create()
	if err != nil {
		if errors.Is(err, session.ErrClosed) {
			rw.ServiceUnavailable("Server is shutting down")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("create session failed")
		rw.InternalError("Failed to create session")
		return
	}
	logging.Ctx(logging.ContextWithSessionID(r.Context(), s.ID)).Info().Msg("session created")
	rw.Created(newSessionResponse(s))
}

// GetSession returns the cart and current recommendation state.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.lookupSession(rw, r)
	if !ok {
		return
	}
	rw.Success(newSessionResponse(s))
}

// UpdateCart replaces the session cart. Unknown product ids reject the
// whole update.
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.lookupSession(rw, r)
	if !ok {
		return
	}

	var req CartRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	cart, unknown := h.deps.Catalog.Hydrate(req.Items)
	if len(unknown) > 0 {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"Cart contains unknown product ids", map[string]interface{}{"unknown_ids": unknown})
		return
	}

	if err := s.Orchestrator.CartChanged(cart); err != nil {
		h.sessionGone(rw, r, s.ID, err)
		return
	}
	rw.Success(newSessionResponse(s))
}

// RefreshSession starts enrichment now, skipping the debounce.
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.lookupSession(rw, r)
	if !ok {
		return
	}
	if err := s.Orchestrator.Refresh(); err != nil {
		h.sessionGone(rw, r, s.ID, err)
		return
	}
	rw.Success(newSessionResponse(s))
}

// DeleteSession ends a session and closes its websocket clients.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.deps.Sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		rw.NotFound("Session not found or expired")
		return
	}
	rw.NoContent()
}

// SessionStream upgrades to a websocket that receives every state change
// of the session, starting with the current state.
func (h *Handler) SessionStream(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.lookupSession(rw, r)
	if !ok {
		return
	}
	// The upgrader writes its own HTTP error on failure.
	if err := h.deps.Streamer.ServeSession(w, r, h.deps.Upgrader, s.ID, s.Orchestrator.State()); err != nil {
		logging.Ctx(logging.ContextWithSessionID(r.Context(), s.ID)).
			Warn().Err(err).Msg("websocket stream not started")
	}
}

// sessionGone maps an orchestrator error after lookup. The registry may
// evict between Get and the call.
func (h *Handler) sessionGone(rw *ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, orchestrator.ErrClosed) {
		rw.NotFound("Session not found or expired")
		return
	}
	logging.Ctx(logging.ContextWithSessionID(r.Context(), id)).Error().Err(err).Msg("session update failed")
	rw.InternalError("Failed to update session")
}
