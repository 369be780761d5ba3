// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package services adapts components without a native Serve(ctx) method
// to suture.Service.
//
// HTTPServerService turns ListenAndServe/Shutdown into a context-driven
// Serve with a bounded drain. HeartbeatService logs a periodic status line.
// Components that already implement Serve and String, such as the session
// registry, websocket hub and event forwarder, are added to the tree
// directly.
package services
