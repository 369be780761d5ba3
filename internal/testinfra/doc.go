// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package testinfra starts Docker containers for integration tests.
//
// Everything here is behind the integration build tag, so a plain
// `go test ./...` never needs Docker:
//
//	go test -tags integration ./internal/events/...
//
// # NATS
//
// NewNATSContainer runs a real broker so the event bus can be exercised
// against the same server a multi-replica deployment uses:
//
//	func TestBusOverBroker(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    broker, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, broker)
//
//	    cfg := events.DefaultConfig()
//	    cfg.Backend = events.BackendNATS
//	    cfg.NATSURL = broker.URL
//	    // ...
//	}
package testinfra
