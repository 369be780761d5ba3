// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package events moves session state changes over a Watermill bus.
//
// Each server-hosted session relays its orchestrator's states onto the bus
// (Bus.Relay); a Forwarder consumes the topic and hands events to the
// websocket hub. With the memory backend this is an in-process channel.
// With the nats backend every replica receives every event, so a client
// connected to any replica sees updates for its session.
//
// Delivery order across goroutines is not guaranteed. Consumers compare
// RecommendationState.Version and drop anything older than what they last
// delivered.
package events
