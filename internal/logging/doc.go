// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

// Package logging configures the zerolog logger shared by every component.
//
// Init is called once from main with the logging section of the config.
// Components receive a zerolog.Logger by value and add their own
// component field:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logger := logging.WithComponent("api")
//	logger.Info().Str("addr", addr).Msg("listening")
//
// Handlers log through Ctx, which picks up the request id set by the
// request id middleware and the cart session id when one is present.
//
// Two bridges keep third-party output in the same stream: SlogHandler
// feeds sutureslog, and WatermillAdapter feeds the event bus.
//
// Always finish an entry with Msg or Send; an unfinished event is dropped.
package logging
