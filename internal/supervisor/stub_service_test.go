// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// stubService is a controllable suture.Service.
type stubService struct {
	name       string
	startCount atomic.Int32
	stopCount  atomic.Int32
	failCount  atomic.Int32

	mu       sync.Mutex
	maxFails int32
	err      error
}

func newStubService(name string) *stubService {
	return &stubService{name: name}
}

func (s *stubService) Serve(ctx context.Context) error {
	s.startCount.Add(1)
	defer s.stopCount.Add(1)

	s.mu.Lock()
	err := s.err
	maxFails := s.maxFails
	s.mu.Unlock()

	if maxFails > 0 && s.failCount.Add(1) <= maxFails {
		return errors.New("simulated failure")
	}
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

// failTimes makes the next n Serve calls fail immediately.
func (s *stubService) failTimes(n int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxFails = n
}

func (s *stubService) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubService) starts() int32 { return s.startCount.Load() }
func (s *stubService) stops() int32  { return s.stopCount.Load() }

func (s *stubService) String() string { return s.name }
