// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/orchestrator"
	"github.com/tomtom215/cartsense/internal/recommend"
)

type nopRules struct{}

func (nopRules) Evaluate(catalog.Cart, time.Time) recommend.RuleState {
	return recommend.RuleState{Suggestions: []recommend.Suggestion{}}
}

func (nopRules) Prepare(catalog.Cart, time.Time) recommend.Preparation {
	return recommend.Preparation{}
}

func testFactory(id string) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(nopRules{}, nil, orchestrator.DefaultConfig(), zerolog.Nop())
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(t *testing.T, cfg Config) (*Registry, *manualClock) {
	t.Helper()
	r, err := NewRegistry(cfg, testFactory, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	clock := &manualClock{now: time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)}
	r.now = clock.Now
	t.Cleanup(r.Close)
	return r, clock
}

func TestNewRegistry(t *testing.T) {
	if _, err := NewRegistry(Config{}, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for nil factory")
	}

	r, err := NewRegistry(Config{}, testFactory, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	defer r.Close()
	if r.cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", r.cfg)
	}
}

func TestRegistry_CreateGetDelete(t *testing.T) {
	r, _ := newTestRegistry(t, Config{Capacity: 4, IdleTTL: time.Minute})

	s, err := r.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.ID == "" || s.Orchestrator == nil {
		t.Fatalf("session = %+v", s)
	}

	got, err := r.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	if err := r.Delete(s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := r.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := r.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if err := s.Orchestrator.Refresh(); !errors.Is(err, orchestrator.ErrClosed) {
		t.Errorf("deleted orchestrator Refresh() error = %v, want ErrClosed", err)
	}
}

func TestRegistry_CapacityEvictsLeastRecentlyUsed(t *testing.T) {
	r, _ := newTestRegistry(t, Config{Capacity: 2, IdleTTL: time.Hour})

	var evicted []string
	r.OnEvict(func(id, reason string) {
		if reason == ReasonCapacity {
			evicted = append(evicted, id)
		}
	})

	a, _ := r.Create()
	b, _ := r.Create()
	if _, err := r.Get(a.ID); err != nil {
		t.Fatalf("Get(a) error = %v", err)
	}

	before := testutil.ToFloat64(metrics.SessionsEvicted.WithLabelValues(ReasonCapacity))
	c, _ := r.Create()

	if len(evicted) != 1 || evicted[0] != b.ID {
		t.Fatalf("evicted = %v, want [%s]", evicted, b.ID)
	}
	if _, err := r.Get(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(b) error = %v, want ErrNotFound", err)
	}
	for _, s := range []*Session{a, c} {
		if _, err := r.Get(s.ID); err != nil {
			t.Errorf("Get(%s) error = %v", s.ID, err)
		}
	}
	if got := testutil.ToFloat64(metrics.SessionsEvicted.WithLabelValues(ReasonCapacity)) - before; got != 1 {
		t.Errorf("capacity evictions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.SessionsActive); got != 2 {
		t.Errorf("sessions_active = %v, want 2", got)
	}
}

func TestRegistry_IdleExpiry(t *testing.T) {
	r, clock := newTestRegistry(t, Config{Capacity: 10, IdleTTL: time.Minute})

	s, _ := r.Create()
	clock.Advance(61 * time.Second)

	if _, err := r.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound for idle session", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistry_GetRefreshesIdleTimer(t *testing.T) {
	r, clock := newTestRegistry(t, Config{Capacity: 10, IdleTTL: time.Minute})

	s, _ := r.Create()
	for i := 0; i < 3; i++ {
		clock.Advance(45 * time.Second)
		if _, err := r.Get(s.ID); err != nil {
			t.Fatalf("Get() at step %d error = %v", i, err)
		}
	}
}

func TestRegistry_TouchKeepsSessionAlive(t *testing.T) {
	r, clock := newTestRegistry(t, Config{Capacity: 10, IdleTTL: time.Minute})

	s, _ := r.Create()
	for i := 0; i < 3; i++ {
		clock.Advance(45 * time.Second)
		if !r.Touch(s.ID) {
			t.Fatalf("Touch() at step %d = false", i)
		}
	}
	if n := r.Sweep(); n != 0 {
		t.Errorf("Sweep() = %d, want 0 for a touched session", n)
	}

	clock.Advance(61 * time.Second)
	if r.Touch(s.ID) {
		t.Error("Touch() = true for an expired session")
	}
	if r.Touch("missing") {
		t.Error("Touch() = true for an unknown id")
	}
}

func TestRegistry_Sweep(t *testing.T) {
	r, clock := newTestRegistry(t, Config{Capacity: 10, IdleTTL: time.Minute})

	var reasons []string
	r.OnEvict(func(_, reason string) { reasons = append(reasons, reason) })

	old1, _ := r.Create()
	old2, _ := r.Create()
	clock.Advance(30 * time.Second)
	fresh, _ := r.Create()
	clock.Advance(40 * time.Second)

	if n := r.Sweep(); n != 2 {
		t.Fatalf("Sweep() = %d, want 2", n)
	}
	for _, s := range []*Session{old1, old2} {
		if _, err := r.Get(s.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%s) error = %v, want ErrNotFound", s.ID, err)
		}
	}
	if _, err := r.Get(fresh.ID); err != nil {
		t.Errorf("Get(fresh) error = %v", err)
	}
	for _, reason := range reasons {
		if reason != ReasonIdle {
			t.Errorf("reason = %q, want %q", reason, ReasonIdle)
		}
	}
	if n := r.Sweep(); n != 0 {
		t.Errorf("second Sweep() = %d, want 0", n)
	}
}

func TestRegistry_Close(t *testing.T) {
	r, _ := newTestRegistry(t, Config{Capacity: 10, IdleTTL: time.Minute})

	var shutdown int
	r.OnEvict(func(_, reason string) {
		if reason == ReasonShutdown {
			shutdown++
		}
	})

	a, _ := r.Create()
	_, _ = r.Create()
	r.Close()
	r.Close()

	if shutdown != 2 {
		t.Errorf("shutdown evictions = %d, want 2", shutdown)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if _, err := r.Create(); !errors.Is(err, ErrClosed) {
		t.Errorf("Create() after Close error = %v, want ErrClosed", err)
	}
	if err := a.Orchestrator.CartChanged(nil); !errors.Is(err, orchestrator.ErrClosed) {
		t.Errorf("CartChanged() error = %v, want ErrClosed", err)
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewRegistry(Config{}, func(string) (*orchestrator.Orchestrator, error) { return nil, boom }, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	defer r.Close()

	if _, err := r.Create(); !errors.Is(err, boom) {
		t.Errorf("Create() error = %v, want wrapped boom", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistry_Serve(t *testing.T) {
	r, clock := newTestRegistry(t, Config{Capacity: 10, IdleTTL: time.Minute, SweepInterval: 5 * time.Millisecond})

	_, _ = r.Create()
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for r.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if r.Len() != 0 {
		t.Error("janitor did not sweep the idle session")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if r.String() != "session-janitor" {
		t.Errorf("String() = %q", r.String())
	}
}
