// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package websocket

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/orchestrator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

// clientIDCounter gives clients a stable delivery order.
var clientIDCounter atomic.Uint64

// Client is one websocket connection watching one session.
type Client struct {
	id        uint64
	sessionID string
	version   uint64
	hub       *Hub
	conn      *websocket.Conn
	send      chan Message
	pong      chan struct{}
}

// NewClient creates a client whose first frame is initial.
//
//nolint:gocritic // initial is copied into the first frame
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, initial orchestrator.RecommendationState) *Client {
	c := &Client{
		id:        clientIDCounter.Add(1),
		sessionID: sessionID,
		version:   initial.Version,
		hub:       hub,
		conn:      conn,
		send:      make(chan Message, sendBuffer),
		pong:      make(chan struct{}, 1),
	}
	c.send <- Message{Type: MessageTypeState, Data: initial}
	return c
}

// ID returns the client's delivery order key.
func (c *Client) ID() uint64 {
	return c.id
}

// SessionID returns the session the client watches.
func (c *Client) SessionID() string {
	return c.sessionID
}

// NewUpgrader builds an upgrader that accepts browser origins from the CORS
// allow-list. "*" allows any origin; a missing Origin header is rejected.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return false
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// ServeSession upgrades the request and attaches the connection to
// sessionID. The client first receives initial, then every newer state.
//
//nolint:gocritic // initial is copied into the first frame
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, sessionID string, initial orchestrator.RecommendationState) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		return err
	}

	client := NewClient(h, conn, sessionID, initial)
	select {
	case h.Register <- client:
	case <-r.Context().Done():
		_ = conn.Close()
		return r.Context().Err()
	}
	client.Start()
	return nil
}

// Start runs the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump reads client frames until the connection fails, then unregisters.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		c.hub.activity(c.sessionID)
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("unexpected_close").Inc()
				c.hub.logger.Debug().Err(err).Str("session_id", c.sessionID).Msg("unexpected websocket close")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()
		c.hub.activity(c.sessionID)

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			metrics.WSErrors.WithLabelValues("decode").Inc()
			continue
		}

		if msg.Type == MessageTypePing {
			select {
			case c.pong <- struct{}{}:
			default:
			}
		}
	}
}

// writePump drains send to the connection and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.writeMessage(message); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-c.pong:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.writeMessage(Message{Type: MessageTypePong}); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeMessage encodes msg with MarshalMessage and sends it as one text frame.
func (c *Client) writeMessage(msg Message) error {
	data, err := MarshalMessage(msg)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
