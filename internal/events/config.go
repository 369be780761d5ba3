// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package events

import (
	"fmt"
	"time"
)

// Bus backends.
const (
	BackendMemory   = "memory"
	BackendNATS     = "nats"
	BackendEmbedded = "embedded"
)

// DefaultTopic carries every session's state changes.
const DefaultTopic = "cartsense.state"

// Config selects and tunes the bus transport.
type Config struct {
	// Backend is memory (in-process Go channels), nats, or embedded (nats
	// against a server started in this process).
	Backend string

	// Topic is the subject state events are published on.
	Topic string

	// NATSURL is required when Backend is nats.
	NATSURL string

	// EmbeddedHost and EmbeddedPort bind the in-process server of the
	// embedded backend. Port -1 picks a free port.
	EmbeddedHost string
	EmbeddedPort int

	MaxReconnects int
	ReconnectWait time.Duration
	CloseTimeout  time.Duration

	// OutputBuffer is the per-subscriber buffer of the memory backend.
	OutputBuffer int64
}

// DefaultConfig returns an in-process bus.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendMemory,
		Topic:         DefaultTopic,
		NATSURL:       "nats://127.0.0.1:4222",
		EmbeddedHost:  "127.0.0.1",
		EmbeddedPort:  4222,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		CloseTimeout:  5 * time.Second,
		OutputBuffer:  256,
	}
}

// Validate checks the backend selection.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("nats url is required for the nats backend")
		}
	case BackendEmbedded:
		if c.EmbeddedPort < -1 || c.EmbeddedPort > 65535 {
			return fmt.Errorf("embedded nats port %d out of range", c.EmbeddedPort)
		}
	default:
		return fmt.Errorf("unknown event backend %q (want %s, %s or %s)", c.Backend, BackendMemory, BackendNATS, BackendEmbedded)
	}
	if c.Topic == "" {
		return fmt.Errorf("event topic is required")
	}
	return nil
}
