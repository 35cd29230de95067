// Package server hosts drag-and-drop boards over WebSocket.
//
// Every connection gets its own session holding one dnd.View seeded from
// the configured board. The browser renders the board, reports item
// geometry with "layout" messages and forwards pointer input; the session
// runs the coordinator and sends back "items" updates during a drag and
// "commit" messages on drop. See package protocol for the wire format.
//
//	srv := server.New(server.DefaultConfig(),
//	    server.WithLogger(logger),
//	    server.WithMetrics(metrics, prometheus.DefaultGatherer),
//	)
//	err := srv.Run(ctx)
//
// Routes:
//
//	GET /ws        WebSocket endpoint
//	GET /healthz   liveness and session count
//	GET /metrics   Prometheus exposition (when metrics are configured)
//
// All input for a session, including the stale drag watchdog, is
// serialized by the session lock; coordinator observers and commit
// callbacks run on that goroutine.
package server
