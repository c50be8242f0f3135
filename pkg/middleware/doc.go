// Package middleware provides render pass middleware for component
// instances.
//
// This package includes:
//   - Prometheus metrics for passes and host operations
//   - OpenTelemetry tracing, one span per pass
//   - Logging and panic recovery
//
// Middleware is installed when an instance is mounted. The first one given
// is the outermost:
//
//	inst := component.Mount(doc, root, render,
//	    component.WithMiddleware(
//	        middleware.Logger(logger),
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	        middleware.OpenTelemetry(),
//	        middleware.Recover(),
//	    ),
//	)
//
// Place Recover last so that a panicking pass reaches the others as an
// E110 error.
//
// # Prometheus Metrics
//
//   - hookdom_render_passes_total: passes by status
//   - hookdom_host_ops_total: host operations by kind
//   - hookdom_render_pass_duration_seconds: pass duration histogram
//   - hookdom_render_pass_errors_total: failed passes by error code
//   - hookdom_sessions_active, hookdom_frames_sent_total: recorded by the
//     server through a Metrics handle
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware

import "github.com/vango-dev/hookdom/pkg/component"

// PassFunc runs a render pass.
type PassFunc = component.PassFunc

// Middleware wraps a PassFunc.
type Middleware = component.Middleware
