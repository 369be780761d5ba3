// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Field is one value reported on each heartbeat line.
type Field struct {
	Name  string
	Value func() interface{}
}

// HeartbeatService logs a one-line status summary on a fixed interval:
// live sessions, websocket clients, breaker state. It gives log-only
// deployments the numbers /metrics would otherwise carry.
type HeartbeatService struct {
	interval time.Duration
	fields   []Field
	logger   zerolog.Logger
}

// NewHeartbeatService creates the service. A non-positive interval
// becomes five minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHeartbeatService(interval time.Duration, fields []Field, logger zerolog.Logger) *HeartbeatService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &HeartbeatService{
		interval: interval,
		fields:   fields,
		logger:   logger.With().Str("service", "heartbeat").Logger(),
	}
}

// Serve implements suture.Service.
func (s *HeartbeatService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.beat(time.Since(start))
		}
	}
}

func (s *HeartbeatService) beat(uptime time.Duration) {
	event := s.logger.Info().Dur("uptime", uptime)
	for _, f := range s.fields {
		event = event.Interface(f.Name, f.Value())
	}
	event.Msg("heartbeat")
}

// String implements fmt.Stringer for suture's logs.
func (s *HeartbeatService) String() string {
	return "heartbeat"
}
