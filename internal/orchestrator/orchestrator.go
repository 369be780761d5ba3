// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/enrich"
	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/recommend"
)

// RuleEvaluator is the local rule path. *recommend.RuleEngine satisfies it.
type RuleEvaluator interface {
	Evaluate(cart catalog.Cart, now time.Time) recommend.RuleState
	Prepare(cart catalog.Cart, now time.Time) recommend.Preparation
}

// Config holds the orchestrator timings.
type Config struct {
	Debounce         time.Duration
	QuietPeriod      time.Duration
	ThinkingInterval time.Duration
	CallTimeout      time.Duration
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		Debounce:         3 * time.Second,
		QuietPeriod:      10 * time.Second,
		ThinkingInterval: 1200 * time.Millisecond,
		CallTimeout:      30 * time.Second,
	}
}

// Validate checks that every duration is positive.
func (c *Config) Validate() error {
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %v", c.Debounce)
	}
	if c.QuietPeriod <= 0 {
		return fmt.Errorf("quiet period must be positive, got %v", c.QuietPeriod)
	}
	if c.ThinkingInterval <= 0 {
		return fmt.Errorf("thinking interval must be positive, got %v", c.ThinkingInterval)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %v", c.CallTimeout)
	}
	return nil
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithSpawn replaces the goroutine launcher used for enrichment calls.
func WithSpawn(spawn func(func())) Option {
	return func(o *Orchestrator) { o.spawn = spawn }
}

// ErrClosed is returned by operations on a closed orchestrator.
var ErrClosed = errors.New("orchestrator is closed")

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16

// call is one enrichment request and the cart it was issued for.
type call struct {
	seq       uint64
	cart      catalog.Cart
	signature string
	reason    string
}

// Orchestrator decides when to recompute suggestions for one cart and
// publishes the resulting RecommendationState.
//
// Every event (cart change, refresh, timer fire, call completion) is
// applied under one mutex in arrival order. The enrichment call is the
// only blocking step and runs outside the lock; at most one is in flight,
// and a trigger that arrives meanwhile is remembered as pending.
type Orchestrator struct {
	rules    RuleEvaluator
	enricher enrich.Client
	cfg      Config
	logger   zerolog.Logger
	clock    Clock
	spawn    func(func())

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	cart        catalog.Cart
	session     Session
	state       RecommendationState
	timers      *timerSet
	inFlight    bool
	pending     bool
	callSeq     uint64
	thinkStep   int
	closed      bool
	subscribers map[uint64]chan RecommendationState
	nextSubID   uint64
}

// New creates an orchestrator in PhaseIdle. enricher may be nil, in which
// case every trigger goes straight to the rule path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(rules RuleEvaluator, enricher enrich.Client, cfg Config, logger zerolog.Logger, opts ...Option) (*Orchestrator, error) {
	if rules == nil {
		return nil, fmt.Errorf("rule evaluator is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid orchestrator config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		rules:       rules,
		enricher:    enricher,
		cfg:         cfg,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
		clock:       NewRealClock(),
		spawn:       func(f func()) { go f() },
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[uint64]chan RecommendationState),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.timers = newTimerSet(o.clock)
	o.state = RecommendationState{
		Phase:       PhaseIdle,
		Suggestions: []recommend.Suggestion{},
		UpdatedAt:   o.clock.Now(),
	}
	return o, nil
}

// State returns a copy of the published state.
func (o *Orchestrator) State() RecommendationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Session returns a copy of the suggestion session.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.session
	s.SuggestedIDs = append([]string(nil), s.SuggestedIDs...)
	s.CartSnapshot = s.CartSnapshot.Clone()
	return s
}

// Cart returns a copy of the current cart.
func (o *Orchestrator) Cart() catalog.Cart {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cart.Clone()
}

// Subscribe returns a channel that receives every published state and a
// function that ends the subscription. A slow subscriber loses its oldest
// buffered states, never the latest one.
func (o *Orchestrator) Subscribe() (<-chan RecommendationState, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan RecommendationState, subscriberBuffer)
	if o.closed {
		close(ch)
		return ch, func() {}
	}

	o.nextSubID++
	id := o.nextSubID
	o.subscribers[id] = ch
	ch <- o.state.clone()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if sub, ok := o.subscribers[id]; ok {
				delete(o.subscribers, id)
				close(sub)
			}
		})
	}
}

// CartChanged applies a new cart.
func (o *Orchestrator) CartChanged(next catalog.Cart) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}

	prev := o.cart
	o.cart = next.Clone()

	var start *call
	if o.cart.IsEmpty() {
		o.resetLocked()
	} else {
		start = o.applyChangeLocked(ClassifyChange(prev, o.cart, &o.session))
	}
	o.mu.Unlock()

	o.launch(start)
	return nil
}

// Refresh triggers enrichment immediately, skipping the debounce.
// It is a no-op on an empty cart.
func (o *Orchestrator) Refresh() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	if o.cart.IsEmpty() {
		o.mu.Unlock()
		return nil
	}
	start := o.triggerLocked("refresh")
	o.mu.Unlock()

	o.launch(start)
	return nil
}

// Close cancels timers, aborts an in-flight call and ends subscriptions.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.timers.cancelAll()
	o.pending = false
	o.cancel()
	for id, ch := range o.subscribers {
		delete(o.subscribers, id)
		close(ch)
	}
}

// resetLocked handles an empty cart.
func (o *Orchestrator) resetLocked() {
	o.timers.cancelAll()
	o.pending = false
	o.session = Session{}
	o.setStateLocked(RecommendationState{Phase: PhaseIdle})
}

func (o *Orchestrator) applyChangeLocked(change Change) *call {
	switch change.Kind {
	case ChangeNone:
		return nil

	case ChangeOptimisticAccept:
		metrics.OrchestratorOptimisticAccepts.Inc()

		next := o.state.clone()
		next.withoutCart(o.cart)
		o.session = newSession(next.Suggestions, o.cart)

		o.logger.Debug().
			Strs("accepted", change.Accepted).
			Int("remaining", len(next.Suggestions)).
			Msg("optimistic accept")

		if len(next.Suggestions) == 0 {
			next.Active = false
			o.setStateLocked(next)
			return o.triggerLocked("exhausted")
		}

		o.timers.cancel(timerDebounce)
		o.timers.arm(timerQuiet, o.cfg.QuietPeriod, o.onTimer)
		if !o.inFlight {
			next.Phase = PhaseActive
		}
		o.setStateLocked(next)
		return nil

	default:
		o.session = Session{}
		o.timers.cancel(timerQuiet)
		o.timers.arm(timerDebounce, o.cfg.Debounce, o.onTimer)

		next := o.state.clone()
		if next.withoutCart(o.cart) && len(next.Suggestions) == 0 {
			next.Active = false
		}
		if !o.inFlight {
			next.Phase = PhaseDebouncing
		}
		o.setStateLocked(next)
		return nil
	}
}

// triggerLocked starts an enrichment call, or marks one pending when a
// call is already in flight.
func (o *Orchestrator) triggerLocked(reason string) *call {
	o.timers.cancel(timerDebounce)
	o.timers.cancel(timerQuiet)

	if o.inFlight {
		o.pending = true
		o.logger.Debug().Str("reason", reason).Msg("call in flight, trigger queued")
		return nil
	}

	o.inFlight = true
	o.pending = false
	o.callSeq++
	c := &call{
		seq:       o.callSeq,
		cart:      o.cart.Clone(),
		signature: o.cart.Signature(),
		reason:    reason,
	}

	o.thinkStep = 0
	o.timers.arm(timerThinking, o.cfg.ThinkingInterval, o.onTimer)

	next := o.state.clone()
	next.Phase = PhaseAnalyzing
	next.Thinking = ThinkingLabels[0]
	o.setStateLocked(next)

	o.logger.Debug().
		Uint64("call", c.seq).
		Str("reason", reason).
		Int("cart_items", len(c.cart)).
		Msg("enrichment triggered")
	return c
}

func (o *Orchestrator) launch(c *call) {
	if c == nil {
		return
	}
	o.spawn(func() { o.run(c) })
}

// run performs the call outside the lock and applies its outcome.
func (o *Orchestrator) run(c *call) {
	var (
		result *enrich.Result
		err    error
	)
	if o.enricher == nil {
		err = fmt.Errorf("%w: no enrichment client", enrich.ErrConfig)
	} else {
		prep := o.rules.Prepare(c.cart, o.clock.Now())
		ctx, cancel := context.WithTimeout(o.ctx, o.cfg.CallTimeout)
		result, err = o.enricher.RequestSuggestions(ctx, c.cart, &prep)
		cancel()
	}
	o.complete(c, result, err)
}

func (o *Orchestrator) complete(c *call, result *enrich.Result, err error) {
	o.mu.Lock()
	o.inFlight = false
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.timers.cancel(timerThinking)

	var start *call
	switch {
	case o.cart.IsEmpty():
		// Reset already published PhaseIdle.
		metrics.OrchestratorStaleResults.Inc()

	case c.signature != o.cart.Signature():
		metrics.OrchestratorStaleResults.Inc()
		o.logger.Debug().
			Uint64("call", c.seq).
			Str("reason", c.reason).
			Msg("discarding result for a stale cart")
		o.settlePhaseLocked()

	case err == nil:
		o.publishEnrichedLocked(c, result)

	default:
		o.fallbackLocked(err)
	}

	if o.pending && !o.cart.IsEmpty() {
		start = o.triggerLocked("pending")
	}
	o.mu.Unlock()

	o.launch(start)
}

func (o *Orchestrator) publishEnrichedLocked(c *call, result *enrich.Result) {
	next := RecommendationState{
		Active:      true,
		Source:      SourceEnriched,
		ContextID:   result.PrimaryContextID,
		Context:     result.Context,
		Message:     result.Message,
		Type:        result.Type,
		Suggestions: append([]recommend.Suggestion(nil), result.Suggestions...),
	}
	next.withoutCart(o.cart)
	if len(next.Suggestions) == 0 {
		o.fallbackLocked(enrich.ErrEmptyResult)
		return
	}

	o.session = newSession(next.Suggestions, c.cart)
	next.Phase = o.restingPhase(true)
	o.setStateLocked(next)
}

// fallbackLocked runs the rule path against the current cart.
func (o *Orchestrator) fallbackLocked(cause error) {
	reason := enrich.Reason(cause)
	metrics.OrchestratorFallbacks.WithLabelValues(reason).Inc()
	o.logger.Debug().Err(cause).Str("reason", reason).Msg("falling back to rules")

	rule := o.rules.Evaluate(o.cart, o.clock.Now())
	metrics.RecordRuleEvaluation(rule.Active)

	next := RecommendationState{
		Active:      rule.Active,
		ContextID:   rule.ContextID,
		Context:     rule.ContextTitle,
		Message:     rule.Message,
		Suggestions: append([]recommend.Suggestion(nil), rule.Suggestions...),
	}
	next.withoutCart(o.cart)

	if !rule.Active || len(next.Suggestions) == 0 {
		o.session = Session{}
		o.setStateLocked(RecommendationState{Phase: o.restingPhase(false)})
		return
	}

	next.Source = SourceRules
	o.session = newSession(next.Suggestions, o.cart)
	next.Phase = o.restingPhase(true)
	o.setStateLocked(next)
}

// settlePhaseLocked picks the phase after a discarded call.
func (o *Orchestrator) settlePhaseLocked() {
	next := o.state.clone()
	next.Phase = o.restingPhase(next.Active)
	next.Thinking = ""
	o.setStateLocked(next)
}

// restingPhase is the phase to show when no call is running.
func (o *Orchestrator) restingPhase(active bool) Phase {
	switch {
	case o.timers.armed(timerDebounce):
		return PhaseDebouncing
	case active:
		return PhaseActive
	default:
		return PhaseDisabled
	}
}

// onTimer is the callback for every keyed timer.
func (o *Orchestrator) onTimer(key string, gen uint64) {
	o.mu.Lock()
	if o.closed || !o.timers.claim(key, gen) {
		o.mu.Unlock()
		return
	}

	var start *call
	switch key {
	case timerDebounce:
		start = o.triggerLocked("debounce")
	case timerQuiet:
		start = o.triggerLocked("quiet_period")
	case timerThinking:
		if o.inFlight {
			o.thinkStep = (o.thinkStep + 1) % len(ThinkingLabels)
			next := o.state.clone()
			next.Thinking = ThinkingLabels[o.thinkStep]
			o.setStateLocked(next)
			o.timers.arm(timerThinking, o.cfg.ThinkingInterval, o.onTimer)
		}
	}
	o.mu.Unlock()

	o.launch(start)
}

// setStateLocked publishes next, bumping the version and notifying
// subscribers without blocking.
func (o *Orchestrator) setStateLocked(next RecommendationState) {
	if next.Phase != PhaseAnalyzing {
		next.Thinking = ""
	}
	if next.Suggestions == nil {
		next.Suggestions = []recommend.Suggestion{}
	}

	metrics.RecordTransition(o.state.Phase.String(), next.Phase.String())
	next.Version = o.state.Version + 1
	next.UpdatedAt = o.clock.Now()
	o.state = next

	for _, ch := range o.subscribers {
		snapshot := next.clone()
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
