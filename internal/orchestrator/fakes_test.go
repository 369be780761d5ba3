// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package orchestrator

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/enrich"
	"github.com/tomtom215/cartsense/internal/recommend"
)

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d, firing due timers in deadline order.
// Callbacks run without the clock lock held and may arm new timers.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// pendingTimers counts armed, unfired timers.
func (c *fakeClock) pendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeEnricher returns queued outcomes in order. With a gate it blocks
// each call until the test sends on it.
type fakeEnricher struct {
	mu       sync.Mutex
	outcomes []outcome
	carts    []catalog.Cart
	gate     chan struct{}
	started  chan struct{}
}

type outcome struct {
	result *enrich.Result
	err    error
}

func (f *fakeEnricher) push(result *enrich.Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome{result: result, err: err})
}

func (f *fakeEnricher) RequestSuggestions(ctx context.Context, cart catalog.Cart, _ *recommend.Preparation) (*enrich.Result, error) {
	f.mu.Lock()
	f.carts = append(f.carts, cart.Clone())
	started, gate := f.started, f.gate
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.outcomes) == 0 {
		return nil, enrich.ErrTransport
	}
	next := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return next.result, next.err
}

func (f *fakeEnricher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.carts)
}

func (f *fakeEnricher) lastCart() catalog.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.carts) == 0 {
		return nil
	}
	return f.carts[len(f.carts)-1]
}

// fakeRules returns a fixed rule state.
type fakeRules struct {
	mu    sync.Mutex
	state recommend.RuleState
	evals int
}

func (f *fakeRules) Evaluate(cart catalog.Cart, _ time.Time) recommend.RuleState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals++
	return f.state
}

func (f *fakeRules) Prepare(catalog.Cart, time.Time) recommend.Preparation {
	return recommend.Preparation{}
}

func (f *fakeRules) evaluations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.evals
}

func product(id, name string, price float64) catalog.Product {
	return catalog.Product{ID: id, Name: name, Price: price, CategoryID: catalog.CategoryDairy}
}

func cartOf(items ...catalog.CartItem) catalog.Cart {
	return catalog.NewCart(items...)
}

func line(p catalog.Product, qty int) catalog.CartItem {
	return catalog.CartItem{Product: p, Quantity: qty}
}

func enrichedResult(products ...catalog.Product) *enrich.Result {
	suggestions := make([]recommend.Suggestion, len(products))
	for i, p := range products {
		suggestions[i] = recommend.Suggestion{Product: p, Reason: "Pairs well"}
	}
	return &enrich.Result{
		Context:     "Breakfast Essentials",
		Message:     "Complete your breakfast",
		Type:        enrich.TypeRetention,
		Suggestions: suggestions,
	}
}

func suggestionIDs(state *RecommendationState) []string {
	ids := make([]string, len(state.Suggestions))
	for i := range state.Suggestions {
		ids[i] = state.Suggestions[i].ID
	}
	return ids
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
