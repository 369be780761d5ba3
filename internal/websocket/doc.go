// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package websocket pushes recommendation state to browsers.
//
// A client connects to /api/v1/sessions/{id}/ws and immediately receives
// the session's current state, then one "state" frame per change:
//
//	{"type":"state","data":{"phase":"analyzing","thinking":"Analyzing cart...", ...}}
//
// When the session is deleted or evicted the client gets a
// "session_closed" frame and the connection is closed. Clients may send
// {"type":"ping"} and receive {"type":"pong"}.
//
// The Hub is fed by the event forwarder (it implements events.Sink) and
// runs under the supervisor's messaging layer.
package websocket
