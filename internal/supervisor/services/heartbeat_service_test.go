// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HeartbeatService)(nil)

func TestHeartbeatService_Beat(t *testing.T) {
	var buf bytes.Buffer
	svc := NewHeartbeatService(time.Minute, []Field{
		{Name: "active_sessions", Value: func() interface{} { return 3 }},
		{Name: "breaker_state", Value: func() interface{} { return "closed" }},
	}, zerolog.New(&buf))

	svc.beat(90 * time.Second)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["message"] != "heartbeat" || line["service"] != "heartbeat" {
		t.Errorf("line = %v", line)
	}
	if line["active_sessions"] != float64(3) || line["breaker_state"] != "closed" {
		t.Errorf("fields = %v", line)
	}
}

func TestHeartbeatService_Serve(t *testing.T) {
	var buf syncWriter
	svc := NewHeartbeatService(10*time.Millisecond, nil, zerolog.New(&buf))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "heartbeat") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"message":"heartbeat"`) {
		t.Errorf("no heartbeat logged: %q", buf.String())
	}
}

func TestNewHeartbeatService_DefaultInterval(t *testing.T) {
	if svc := NewHeartbeatService(0, nil, zerolog.Nop()); svc.interval != 5*time.Minute {
		t.Errorf("interval = %v", svc.interval)
	}
}
