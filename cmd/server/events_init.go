// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/config"
	"github.com/tomtom215/cartsense/internal/events"
	"github.com/tomtom215/cartsense/internal/logging"
)

// initEvents opens the state bus. With the nats backend the forwarder on
// every replica receives every session's state changes; sessions
// themselves stay on the replica that created them.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEvents(cfg *config.Config, logger zerolog.Logger) (*events.Bus, error) {
	busCfg := events.DefaultConfig()
	busCfg.Backend = cfg.Events.Backend
	busCfg.Topic = cfg.Events.Topic
	busCfg.NATSURL = cfg.Events.NATSURL
	busCfg.EmbeddedHost = cfg.Events.EmbeddedHost
	busCfg.EmbeddedPort = cfg.Events.EmbeddedPort
	busCfg.MaxReconnects = cfg.Events.MaxReconnects
	busCfg.ReconnectWait = cfg.Events.ReconnectWait

	bus, err := events.NewBus(busCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("events backend %s: %w", busCfg.Backend, err)
	}

	ev := logging.Info().Str("backend", bus.Backend()).Str("topic", bus.Topic())
	switch busCfg.Backend {
	case events.BackendNATS:
		ev = ev.Str("nats_url", logging.RedactURL(busCfg.NATSURL))
	case events.BackendEmbedded:
		ev = ev.Str("embedded_url", bus.NATSURL())
	}
	ev.Msg("Event bus opened")
	return bus, nil
}
