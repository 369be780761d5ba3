// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/orchestrator"
)

// Eviction reasons, used as metric labels and passed to eviction hooks.
const (
	ReasonCapacity = "capacity"
	ReasonIdle     = "idle"
	ReasonDeleted  = "deleted"
	ReasonShutdown = "shutdown"
)

var (
	// ErrNotFound is returned for unknown or expired session ids.
	ErrNotFound = errors.New("session not found")

	// ErrClosed is returned by Create after Close.
	ErrClosed = errors.New("session registry is closed")
)

// Factory builds the orchestrator for a new session.
type Factory func(id string) (*orchestrator.Orchestrator, error)

// EvictFunc is called after a session leaves the registry.
type EvictFunc func(id, reason string)

// Config holds the registry limits.
type Config struct {
	// Capacity is the maximum number of live sessions. The least recently
	// used session is evicted when a new one would exceed it.
	Capacity int

	// IdleTTL is how long a session may go untouched before Sweep removes it.
	IdleTTL time.Duration

	// SweepInterval is how often the janitor calls Sweep.
	SweepInterval time.Duration
}

// DefaultConfig returns the registry defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:      10000,
		IdleTTL:       30 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// Session is one server-hosted cart and its orchestrator.
type Session struct {
	ID           string
	Orchestrator *orchestrator.Orchestrator
	CreatedAt    time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
	prev     *entry
	next     *entry
}

// Registry holds live sessions in least-recently-used order.
//
// Lookups and inserts are O(1): a map finds the node, a doubly-linked list
// with head and tail sentinels keeps the order. Evicted orchestrators are
// closed outside the lock.
type Registry struct {
	mu sync.Mutex

	cfg     Config
	factory Factory
	logger  zerolog.Logger
	now     func() time.Time

	items map[string]*entry

	// head.next is the most recently used, tail.prev the least.
	head *entry
	tail *entry

	hooks  []EvictFunc
	closed bool
}

// NewRegistry creates an empty registry. Non-positive limits fall back to
// DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRegistry(cfg Config, factory Factory, logger zerolog.Logger) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("session factory is required")
	}
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}

	r := &Registry{
		cfg:     cfg,
		factory: factory,
		logger:  logger.With().Str("component", "session_registry").Logger(),
		now:     time.Now,
		items:   make(map[string]*entry),
		head:    &entry{},
		tail:    &entry{},
	}
	r.head.next = r.tail
	r.tail.prev = r.head
	return r, nil
}

// OnEvict registers a hook that runs after any session is removed.
func (r *Registry) OnEvict(fn EvictFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Create starts a new session with a random id.
func (r *Registry) Create() (*Session, error) {
	id := uuid.NewString()
	orch, err := r.factory(id)
	if err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		orch.Close()
		return nil, ErrClosed
	}

	now := r.now()
	s := &Session{ID: id, Orchestrator: orch, CreatedAt: now}
	e := &entry{session: s, lastSeen: now}
	r.addToFront(e)
	r.items[id] = e

	var evicted []*Session
	for len(r.items) > r.cfg.Capacity {
		evicted = append(evicted, r.removeEntry(r.tail.prev))
	}
	metrics.SessionsActive.Set(float64(len(r.items)))
	hooks := r.hooks
	r.mu.Unlock()

	r.finish(evicted, ReasonCapacity, hooks)
	r.logger.Debug().Str("session_id", id).Msg("session created")
	return s, nil
}

// Get returns a live session and marks it as recently used. An idle
// session past its TTL is treated as missing and removed.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	e, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrNotFound
	}

	now := r.now()
	if now.Sub(e.lastSeen) > r.cfg.IdleTTL {
		s := r.removeEntry(e)
		metrics.SessionsActive.Set(float64(len(r.items)))
		hooks := r.hooks
		r.mu.Unlock()
		r.finish([]*Session{s}, ReasonIdle, hooks)
		return nil, ErrNotFound
	}

	e.lastSeen = now
	r.moveToFront(e)
	r.mu.Unlock()
	return e.session, nil
}

// Touch marks a live session as recently used, for activity that does not
// go through Get such as an open websocket. It reports false for unknown
// or expired ids.
func (r *Registry) Touch(id string) bool {
	_, err := r.Get(id)
	return err == nil
}

// Delete removes a session. It returns ErrNotFound for unknown ids.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	s := r.removeEntry(e)
	metrics.SessionsActive.Set(float64(len(r.items)))
	hooks := r.hooks
	r.mu.Unlock()

	r.finish([]*Session{s}, ReasonDeleted, hooks)
	return nil
}

// Sweep removes every session idle for longer than IdleTTL and returns how
// many were removed. The list is walked from the least recently used end
// and stops at the first fresh session.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	now := r.now()
	var evicted []*Session
	for e := r.tail.prev; e != r.head; {
		if now.Sub(e.lastSeen) <= r.cfg.IdleTTL {
			break
		}
		prev := e.prev
		evicted = append(evicted, r.removeEntry(e))
		e = prev
	}
	metrics.SessionsActive.Set(float64(len(r.items)))
	hooks := r.hooks
	r.mu.Unlock()

	r.finish(evicted, ReasonIdle, hooks)
	if len(evicted) > 0 {
		r.logger.Info().Int("evicted", len(evicted)).Msg("idle sessions swept")
	}
	return len(evicted)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Close removes every session and rejects further Create calls.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	evicted := make([]*Session, 0, len(r.items))
	for e := r.head.next; e != r.tail; {
		next := e.next
		evicted = append(evicted, r.removeEntry(e))
		e = next
	}
	metrics.SessionsActive.Set(0)
	hooks := r.hooks
	r.mu.Unlock()

	r.finish(evicted, ReasonShutdown, hooks)
}

// Serve runs the idle sweep until ctx is canceled. It implements
// suture.Service.
func (r *Registry) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	r.logger.Info().
		Dur("idle_ttl", r.cfg.IdleTTL).
		Dur("sweep_interval", r.cfg.SweepInterval).
		Msg("session janitor started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("session janitor stopping")
			return ctx.Err()
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// String returns the service name for logging.
func (r *Registry) String() string {
	return "session-janitor"
}

// finish closes evicted orchestrators and notifies hooks. Callers must
// not hold the lock.
func (r *Registry) finish(evicted []*Session, reason string, hooks []EvictFunc) {
	for _, s := range evicted {
		s.Orchestrator.Close()
		metrics.RecordSessionEviction(reason)
		for _, hook := range hooks {
			hook(s.ID, reason)
		}
		r.logger.Debug().Str("session_id", s.ID).Str("reason", reason).Msg("session removed")
	}
}

func (r *Registry) addToFront(e *entry) {
	e.prev = r.head
	e.next = r.head.next
	r.head.next.prev = e
	r.head.next = e
}

func (r *Registry) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	r.addToFront(e)
}

func (r *Registry) removeEntry(e *entry) *Session {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	delete(r.items, e.session.ID)
	return e.session
}
