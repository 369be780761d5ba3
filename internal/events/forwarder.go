// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package events

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Sink receives every consumed state event.
type Sink interface {
	DeliverState(event StateEvent)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(event StateEvent)

// DeliverState implements Sink.
func (f SinkFunc) DeliverState(event StateEvent) { f(event) }

// Forwarder consumes the bus and hands each event to a Sink. It is a
// suture.Service: a subscription that ends while ctx is still live is
// reported as an error so the supervisor restarts it.
type Forwarder struct {
	bus    *Bus
	sink   Sink
	logger zerolog.Logger
}

// NewForwarder creates a forwarder from bus to sink.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewForwarder(bus *Bus, sink Sink, logger zerolog.Logger) *Forwarder {
	return &Forwarder{
		bus:    bus,
		sink:   sink,
		logger: logger.With().Str("service", "event-forwarder").Logger(),
	}
}

// Serve implements suture.Service.
func (f *Forwarder) Serve(ctx context.Context) error {
	events, err := f.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	f.logger.Info().Str("topic", f.bus.Topic()).Msg("event forwarder started")

	for {
		select {
		case <-ctx.Done():
			f.logger.Info().Msg("event forwarder stopping")
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("event subscription on %s ended", f.bus.Topic())
			}
			f.sink.DeliverState(event)
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (f *Forwarder) String() string {
	return "event-forwarder"
}
