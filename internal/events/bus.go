// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/logging"
	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/orchestrator"
)

// ErrBusClosed is returned by operations on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// Bus carries session state changes from orchestrators to whoever pushes
// them to clients. The memory backend stays in-process; the nats backend
// fans every event out to all replicas over core NATS subjects. The
// embedded backend is the nats backend against an in-process server.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	closers    []func() error
	topic      string
	backend    string
	natsURL    string
	logger     zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewBus builds the configured backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(cfg Config, logger zerolog.Logger) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event bus config: %w", err)
	}

	b := &Bus{
		topic:   cfg.Topic,
		backend: cfg.Backend,
		logger:  logger.With().Str("component", "event_bus").Str("backend", cfg.Backend).Logger(),
	}
	wmLogger := logging.NewWatermillAdapter(logger)

	switch cfg.Backend {
	case BackendNATS:
		if err := b.openNATS(cfg, wmLogger); err != nil {
			return nil, err
		}
	case BackendEmbedded:
		srv, err := NewEmbeddedServer(cfg.EmbeddedHost, cfg.EmbeddedPort)
		if err != nil {
			return nil, err
		}
		cfg.NATSURL = srv.ClientURL()
		if err := b.openNATS(cfg, wmLogger); err != nil {
			_ = srv.Shutdown()
			return nil, err
		}
		// The server goes last so the clients can drain first.
		b.closers = append(b.closers, srv.Shutdown)
		b.natsURL = cfg.NATSURL
	default:
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: cfg.OutputBuffer}, wmLogger)
		b.publisher = ch
		b.subscriber = ch
		b.closers = []func() error{ch.Close}
	}
	return b, nil
}

func (b *Bus) openNATS(cfg Config, wmLogger watermill.LoggerAdapter) error {
	natsOpts := []natsgo.Option{
		natsgo.Name("cartsense"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				wmLogger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			wmLogger.Info("NATS reconnected", watermill.LogFields{"url": logging.RedactURL(nc.ConnectedUrl())})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		return fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		_ = pub.Close()
		return fmt.Errorf("create nats subscriber: %w", err)
	}

	b.publisher = pub
	b.subscriber = sub
	b.closers = []func() error{sub.Close, pub.Close}
	b.logger.Info().Str("url", logging.RedactURL(cfg.NATSURL)).Str("topic", cfg.Topic).Msg("connected event bus to NATS")
	return nil
}

// Topic returns the subject state events use.
func (b *Bus) Topic() string {
	return b.topic
}

// Backend returns memory, nats or embedded.
func (b *Bus) Backend() string {
	return b.backend
}

// NATSURL returns the URL of the embedded server, or "" for other
// backends.
func (b *Bus) NATSURL() string {
	return b.natsURL
}

// PublishState publishes one state change for sessionID.
//
//nolint:gocritic // state is copied into the event
func (b *Bus) PublishState(ctx context.Context, sessionID string, state orchestrator.RecommendationState) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	event := NewStateEvent(sessionID, state)
	msg, err := event.toMessage()
	if err != nil {
		metrics.EventsPublished.WithLabelValues(b.topic, "error").Inc()
		return err
	}
	msg.SetContext(ctx)

	if err := b.publisher.Publish(b.topic, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(b.topic, "error").Inc()
		return fmt.Errorf("publish state event: %w", err)
	}
	metrics.EventsPublished.WithLabelValues(b.topic, "success").Inc()
	return nil
}

// Subscribe returns decoded state events until ctx is canceled or the bus
// closes. Messages that fail to decode are acked and dropped.
func (b *Bus) Subscribe(ctx context.Context) (<-chan StateEvent, error) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil, ErrBusClosed
	}
	messages, err := b.subscriber.Subscribe(ctx, b.topic)
	b.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", b.topic, err)
	}

	out := make(chan StateEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			event, err := fromMessage(msg)
			msg.Ack()
			if err != nil {
				metrics.EventsConsumed.WithLabelValues(b.topic, "malformed").Inc()
				b.logger.Warn().Err(err).Msg("dropping malformed state event")
				continue
			}
			metrics.EventsConsumed.WithLabelValues(b.topic, "success").Inc()
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Relay publishes every state read from states until the channel closes.
// Pair it with Orchestrator.Subscribe; the orchestrator closes the channel
// when its session ends.
func (b *Bus) Relay(sessionID string, states <-chan orchestrator.RecommendationState) {
	for state := range states {
		if err := b.PublishState(context.Background(), sessionID, state); err != nil {
			if errors.Is(err, ErrBusClosed) {
				return
			}
			b.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to relay state change")
		}
	}
}

// Close shuts the transport down. It is safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
