// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Package supervisor runs cartsense's long-lived services under suture v4.

The tree has three layers, each with its own failure counter:

	cartsense
	├── state-layer
	│   ├── session-janitor   (*session.Registry)
	│   └── heartbeat         (services.HeartbeatService)
	├── messaging-layer
	│   ├── websocket-hub     (*websocket.Hub)
	│   └── event-forwarder   (*events.Forwarder)
	└── api-layer
	    └── http-server       (services.HTTPServerService)

Per-session orchestrators are not suture services. They are owned by the
session registry, which closes them on delete, idle expiry and shutdown.

# Usage

	tree, err := supervisor.NewSupervisorTree(
	    logging.NewSlogLogger(logging.Logger()),
	    supervisor.DefaultTreeConfig(),
	)
	tree.AddStateService(registry)
	tree.AddMessagingService(hub)
	tree.AddMessagingService(forwarder)
	tree.AddAPIService(services.NewHTTPServerService(srv, addr, 10*time.Second, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog into the zerolog pipeline via logging.NewSlogLogger.

Services signal intent with suture's sentinel errors: ErrDoNotRestart for
one-shot work, ErrTerminateSupervisorTree to stop the process.
*/
package supervisor
