// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/orchestrator"
)

func newMemoryBus(t *testing.T) *Bus {
	t.Helper()
	bus, err := NewBus(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func receive(t *testing.T, ch <-chan StateEvent) StateEvent {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed")
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return StateEvent{}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "nats with url", mutate: func(c *Config) { c.Backend = BackendNATS }},
		{name: "nats without url", mutate: func(c *Config) { c.Backend = BackendNATS; c.NATSURL = "" }, wantErr: true},
		{name: "embedded random port", mutate: func(c *Config) { c.Backend = BackendEmbedded; c.EmbeddedPort = -1 }},
		{name: "embedded bad port", mutate: func(c *Config) { c.Backend = BackendEmbedded; c.EmbeddedPort = 1 << 20 }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "kafka" }, wantErr: true},
		{name: "empty topic", mutate: func(c *Config) { c.Topic = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := newMemoryBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(DefaultTopic, "success"))

	state := orchestrator.RecommendationState{
		Phase:   orchestrator.PhaseActive,
		Active:  true,
		Context: "Breakfast Prep",
		Message: "Add eggs?",
		Version: 7,
	}
	if err := bus.PublishState(ctx, "sess-1", state); err != nil {
		t.Fatalf("PublishState() error = %v", err)
	}

	got := receive(t, events)
	if got.SessionID != "sess-1" || got.EventID == "" {
		t.Errorf("event = %+v", got)
	}
	if got.State.Phase != orchestrator.PhaseActive || got.State.Context != "Breakfast Prep" || got.State.Version != 7 {
		t.Errorf("state = %+v", got.State)
	}
	if d := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(DefaultTopic, "success")) - before; d != 1 {
		t.Errorf("published delta = %v, want 1", d)
	}
}

func TestBus_DropsMalformedMessages(t *testing.T) {
	bus := newMemoryBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	bad := message.NewMessage("bad-1", []byte("not json"))
	noSession := message.NewMessage("bad-2", []byte(`{"eventId":"x","state":{"phase":"idle"}}`))
	if err := bus.publisher.Publish(bus.Topic(), bad, noSession); err != nil {
		t.Fatalf("raw publish: %v", err)
	}
	if err := bus.PublishState(ctx, "sess-2", orchestrator.RecommendationState{Phase: orchestrator.PhaseIdle}); err != nil {
		t.Fatalf("PublishState() error = %v", err)
	}

	if got := receive(t, events); got.SessionID != "sess-2" {
		t.Errorf("SessionID = %q, want sess-2", got.SessionID)
	}
}

func TestBus_Relay(t *testing.T) {
	bus := newMemoryBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	states := make(chan orchestrator.RecommendationState, 2)
	states <- orchestrator.RecommendationState{Phase: orchestrator.PhaseDebouncing, Version: 1}
	states <- orchestrator.RecommendationState{Phase: orchestrator.PhaseAnalyzing, Version: 2}
	close(states)

	done := make(chan struct{})
	go func() {
		bus.Relay("sess-3", states)
		close(done)
	}()

	seen := map[uint64]bool{}
	for i := 0; i < 2; i++ {
		e := receive(t, events)
		if e.SessionID != "sess-3" {
			t.Errorf("SessionID = %q", e.SessionID)
		}
		seen[e.State.Version] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("versions seen = %v", seen)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Relay did not return after the channel closed")
	}
}

func TestBus_Closed(t *testing.T) {
	bus, err := NewBus(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := bus.PublishState(context.Background(), "s", orchestrator.RecommendationState{}); !errors.Is(err, ErrBusClosed) {
		t.Errorf("PublishState() error = %v, want ErrBusClosed", err)
	}
	if _, err := bus.Subscribe(context.Background()); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Subscribe() error = %v, want ErrBusClosed", err)
	}
}

func TestNewBus_InvalidConfig(t *testing.T) {
	if _, err := NewBus(Config{Backend: "kafka", Topic: "t"}, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestForwarder(t *testing.T) {
	bus := newMemoryBus(t)

	var mu sync.Mutex
	var delivered []StateEvent
	sink := SinkFunc(func(e StateEvent) {
		mu.Lock()
		delivered = append(delivered, e)
		mu.Unlock()
	})

	fwd := NewForwarder(bus, sink, zerolog.Nop())
	if fwd.String() != "event-forwarder" {
		t.Errorf("String() = %q", fwd.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fwd.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := bus.PublishState(context.Background(), "sess-4", orchestrator.RecommendationState{Version: 1}); err != nil {
			t.Fatalf("PublishState() error = %v", err)
		}
		mu.Lock()
		n := len(delivered)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	if len(delivered) == 0 || delivered[0].SessionID != "sess-4" {
		t.Errorf("delivered = %+v", delivered)
	}
	mu.Unlock()

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}
