// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/middleware"
	"github.com/tomtom215/cartsense/internal/orchestrator"
	"github.com/tomtom215/cartsense/internal/session"
)

// Generator turns a prompt into provider text. *provider.Gemini
// implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// SessionStore holds server-hosted carts. *session.Registry implements it.
type SessionStore interface {
	Create() (*session.Session, error)
	Get(id string) (*session.Session, error)
	Delete(id string) error
	Len() int
}

// StateStreamer pushes state changes to websocket clients.
// *websocket.Hub implements it.
type StateStreamer interface {
	ServeSession(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, sessionID string, initial orchestrator.RecommendationState) error
	ClientCount() int
}

// BreakerStatus reports the enrichment circuit breaker state.
type BreakerStatus interface {
	State() string
	Name() string
}

// Deps are the handler dependencies. Catalog and Generator are required;
// Sessions and Streamer may be nil, which disables the session routes.
type Deps struct {
	Catalog   *catalog.Catalog
	Generator Generator
	Sessions  SessionStore
	Streamer  StateStreamer
	Upgrader  *websocket.Upgrader
	Breaker   BreakerStatus
	Latency   *middleware.LatencyTracker

	// EnrichMode and EventsBackend are reported by the health endpoint.
	EnrichMode    string
	EventsBackend string
	Version       string
}

// Handler serves the HTTP API.
//
// Handler methods are split across files:
//   - handlers_analyze.go: the analyze endpoint
//   - handlers_sessions.go: session lifecycle and websocket stream
//   - handlers_catalog.go: read-only catalog endpoints
//   - handlers_health.go: health and latency endpoints
type Handler struct {
	deps      Deps
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Catalog == nil {
		return nil, errors.New("api: catalog is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("api: generator is required")
	}
	if deps.Streamer != nil && deps.Upgrader == nil {
		return nil, errors.New("api: upgrader is required with a streamer")
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Handler{deps: deps, startTime: time.Now()}, nil
}

// decodeJSON reads one JSON document from the request body. Trailing data
// is rejected.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("request body is not valid JSON")
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
