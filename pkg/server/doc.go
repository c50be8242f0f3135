// Package server streams the host mutations of mounted components to remote
// mirrors over websockets.
//
// Every websocket session mounts its own component instance on its own
// in-memory document. After each render pass the session sends the pass's
// attached mutations as binary patch frames (see pkg/protocol). The first
// frame carries sequence number 0 and the initial append of the component's
// tree; every later pass sends the next sequence number, even when it
// changed nothing.
//
// # Routes
//
//   - GET /healthz: liveness check
//   - GET /metrics: Prometheus metrics, when a registry is configured
//   - GET /snapshot: markup of a freshly mounted component
//   - GET /ws: mirror websocket
//
// # Example Usage
//
//	reg := prometheus.NewRegistry()
//	srv := server.New(&server.Config{
//	    Address:  ":8080",
//	    App:      func() server.App { return demo.NewCounter(0) },
//	    Registry: reg,
//	})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// A session's component, document and connection writes are owned by the
// instance loop goroutine. Ticks reach the component through Dispatch.
package server
