// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestSample is one completed request.
type RequestSample struct {
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	DurationMS int64     `json:"duration_ms"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// RouteStats summarises the samples of one method and route.
type RouteStats struct {
	Route        string  `json:"route"`
	RequestCount int64   `json:"request_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        int64   `json:"p50_ms"`
	P95MS        int64   `json:"p95_ms"`
	P99MS        int64   `json:"p99_ms"`
	MinMS        int64   `json:"min_ms"`
	MaxMS        int64   `json:"max_ms"`
}

// LatencyTracker keeps a sliding window of recent request samples so the
// health endpoint can report per-route percentiles without a metrics
// backend. Analyze calls dominate latency, so slow ones are logged.
type LatencyTracker struct {
	mu         sync.RWMutex
	samples    []RequestSample
	maxSamples int
	slow       time.Duration
	logger     zerolog.Logger
}

// NewLatencyTracker keeps up to maxSamples samples and warns about requests
// slower than slow. A zero slow threshold disables the warning.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLatencyTracker(maxSamples int, slow time.Duration, logger zerolog.Logger) *LatencyTracker {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return &LatencyTracker{
		samples:    make([]RequestSample, 0, maxSamples),
		maxSamples: maxSamples,
		slow:       slow,
		logger:     logger.With().Str("component", "latency").Logger(),
	}
}

// Record adds a sample, dropping the oldest once the window is full.
func (lt *LatencyTracker) Record(s *RequestSample) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if len(lt.samples) == lt.maxSamples {
		copy(lt.samples, lt.samples[1:])
		lt.samples = lt.samples[:len(lt.samples)-1]
	}
	lt.samples = append(lt.samples, *s)
}

// Stats returns per-route statistics, busiest route first.
func (lt *LatencyTracker) Stats() []RouteStats {
	lt.mu.RLock()
	byRoute := make(map[string][]int64)
	for i := range lt.samples {
		key := lt.samples[i].Method + " " + lt.samples[i].Route
		byRoute[key] = append(byRoute[key], lt.samples[i].DurationMS)
	}
	lt.mu.RUnlock()

	stats := make([]RouteStats, 0, len(byRoute))
	for route, durations := range byRoute {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		var sum int64
		for _, d := range durations {
			sum += d
		}
		stats = append(stats, RouteStats{
			Route:        route,
			RequestCount: int64(len(durations)),
			AvgMS:        float64(sum) / float64(len(durations)),
			P50MS:        percentile(durations, 0.50),
			P95MS:        percentile(durations, 0.95),
			P99MS:        percentile(durations, 0.99),
			MinMS:        durations[0],
			MaxMS:        durations[len(durations)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Route < stats[j].Route
	})
	return stats
}

// Recent returns up to n of the newest samples, oldest first.
func (lt *LatencyTracker) Recent(n int) []RequestSample {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	if n > len(lt.samples) {
		n = len(lt.samples)
	}
	if n <= 0 {
		return []RequestSample{}
	}
	out := make([]RequestSample, n)
	copy(out, lt.samples[len(lt.samples)-n:])
	return out
}

// Middleware records every request that passes through it.
func (lt *LatencyTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := RoutePattern(r)
		lt.Record(&RequestSample{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: status,
			Timestamp:  start,
		})

		if lt.slow > 0 && elapsed > lt.slow {
			lt.logger.Warn().
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Dur("duration", elapsed).
				Msg("Slow request detected")
		}
	})
}

// percentile expects sorted input.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
