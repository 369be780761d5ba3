// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package orchestrator

import (
	"time"
)

// Timer keys.
const (
	timerDebounce = "debounce"
	timerQuiet    = "quiet"
	timerThinking = "thinking"
)

type keyedTimer struct {
	timer Timer
	gen   uint64
}

// timerSet holds at most one timer per key. Arming a key stops the timer
// already armed under it. Callbacks receive the generation they were armed
// with so a fire that raced with a cancel can be recognised and ignored.
//
// timerSet is not safe for concurrent use; the orchestrator guards it with
// its own mutex.
type timerSet struct {
	clock  Clock
	timers map[string]keyedTimer
	gen    uint64
}

func newTimerSet(clock Clock) *timerSet {
	return &timerSet{
		clock:  clock,
		timers: make(map[string]keyedTimer),
	}
}

func (s *timerSet) arm(key string, d time.Duration, fire func(key string, gen uint64)) {
	s.cancel(key)
	s.gen++
	gen := s.gen
	s.timers[key] = keyedTimer{
		timer: s.clock.AfterFunc(d, func() { fire(key, gen) }),
		gen:   gen,
	}
}

func (s *timerSet) cancel(key string) {
	if kt, ok := s.timers[key]; ok {
		kt.timer.Stop()
		delete(s.timers, key)
	}
}

func (s *timerSet) cancelAll() {
	for key := range s.timers {
		s.cancel(key)
	}
}

func (s *timerSet) armed(key string) bool {
	_, ok := s.timers[key]
	return ok
}

// claim reports whether gen is still the live timer under key and, if so,
// forgets it.
func (s *timerSet) claim(key string, gen uint64) bool {
	kt, ok := s.timers[key]
	if !ok || kt.gen != gen {
		return false
	}
	delete(s.timers, key)
	return true
}
