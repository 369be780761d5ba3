// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/events"
	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/orchestrator"
)

// Message types sent to and accepted from clients.
const (
	MessageTypeState         = "state"
	MessageTypeSessionClosed = "session_closed"
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
)

// Message is one frame on the wire.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// delivery is a message addressed to every client of one session.
type delivery struct {
	sessionID string
	version   uint64
	versioned bool
	message   Message
	closeAll  bool
}

// Hub routes session state changes to the websocket clients watching that
// session.
//
// All client bookkeeping happens on the RunWithContext goroutine. The
// version of the last state delivered per session is kept so that a state
// arriving out of order is never pushed after a newer one.
type Hub struct {
	sessions    map[string]map[*Client]bool
	lastVersion map[string]uint64
	deliveries  chan delivery
	Register    chan *Client
	Unregister  chan *Client
	logger      zerolog.Logger

	mu         sync.RWMutex
	count      int
	onActivity func(sessionID string)
}

// NewHub creates a hub. Call RunWithContext to start it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		sessions:    make(map[string]map[*Client]bool),
		lastVersion: make(map[string]uint64),
		deliveries:  make(chan delivery, 256),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		logger:      logger.With().Str("component", "websocket-hub").Logger(),
	}
}

// RunWithContext processes registrations and deliveries until ctx is
// canceled, then closes every client. It implements suture.Service.
//
// Lifecycle events are drained before deliveries so a client registered
// just before a state change receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case d := <-h.deliveries:
			h.deliver(d)
		}
	}
}

// Serve is an alias of RunWithContext so the hub can be added to a
// supervisor directly.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture logging.
func (h *Hub) String() string {
	return "websocket-hub"
}

// OnActivity registers fn to run whenever a client shows it is still
// connected: any inbound frame or pong. fn runs on the client's read
// goroutine and must not block.
func (h *Hub) OnActivity(fn func(sessionID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onActivity = fn
}

func (h *Hub) activity(sessionID string) {
	h.mu.RLock()
	fn := h.onActivity
	h.mu.RUnlock()
	if fn != nil {
		fn(sessionID)
	}
}

// DeliverState implements events.Sink.
func (h *Hub) DeliverState(event events.StateEvent) {
	h.Broadcast(event.SessionID, event.State)
}

// Broadcast queues state for every client watching sessionID. It never
// blocks; when the queue is full the state is dropped and the next one
// supersedes it.
//
//nolint:gocritic // state is copied into the queued message
func (h *Hub) Broadcast(sessionID string, state orchestrator.RecommendationState) {
	h.enqueue(delivery{
		sessionID: sessionID,
		version:   state.Version,
		versioned: true,
		message:   Message{Type: MessageTypeState, Data: state},
	})
}

// CloseSession tells the session's clients it has ended and disconnects
// them. Registered as a session registry eviction hook.
func (h *Hub) CloseSession(sessionID, reason string) {
	h.enqueue(delivery{
		sessionID: sessionID,
		message:   Message{Type: MessageTypeSessionClosed, Data: map[string]string{"reason": reason}},
		closeAll:  true,
	})
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.deliveries <- d:
	default:
		metrics.WSErrors.WithLabelValues("queue_full").Inc()
		h.logger.Warn().Str("session_id", d.sessionID).Str("type", d.message.Type).Msg("delivery queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// sessionClientCount returns the number of clients watching sessionID.
func (h *Hub) sessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		clients = make(map[*Client]bool)
		h.sessions[c.sessionID] = clients
	}
	clients[c] = true
	if c.version > h.lastVersion[c.sessionID] {
		h.lastVersion[c.sessionID] = c.version
	}
	h.count++
	total := h.count
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Str("session_id", c.sessionID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	total := h.count
	h.mu.Unlock()

	if removed {
		metrics.WSConnections.Set(float64(total))
		h.logger.Info().Str("session_id", c.sessionID).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// removeLocked drops c and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(c *Client) bool {
	clients, ok := h.sessions[c.sessionID]
	if !ok || !clients[c] {
		return false
	}
	delete(clients, c)
	close(c.send)
	h.count--
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
		delete(h.lastVersion, c.sessionID)
	}
	return true
}

// deliver sends d to the session's clients in client id order. A client
// whose buffer is full is disconnected.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClientsLocked(d.sessionID)
	if d.versioned {
		if d.version <= h.lastVersion[d.sessionID] && len(clients) > 0 {
			return
		}
		if len(clients) > 0 {
			h.lastVersion[d.sessionID] = d.version
		}
	}

	for _, c := range clients {
		select {
		case c.send <- d.message:
		default:
			metrics.WSErrors.WithLabelValues("slow_client").Inc()
			h.removeLocked(c)
			continue
		}
		if d.closeAll {
			h.removeLocked(c)
		}
	}
	metrics.WSConnections.Set(float64(h.count))
}

func (h *Hub) sortedClientsLocked(sessionID string) []*Client {
	clients := make([]*Client, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[sessionID] {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	closed := h.count
	for _, clients := range h.sessions {
		for c := range clients {
			close(c.send)
		}
	}
	h.sessions = make(map[string]map[*Client]bool)
	h.lastVersion = make(map[string]uint64)
	h.count = 0
	h.mu.Unlock()

	metrics.WSConnections.Set(0)
	h.logger.Info().Int("clients_closed", closed).Msg("websocket hub stopped")
}
