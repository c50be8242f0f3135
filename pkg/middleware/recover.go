package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/pkg/component"
)

// Recover converts a panic inside a pass, typically a host crash on an
// index the tree no longer has, into an E110 error. The host tree keeps
// whatever the pass changed before panicking.
func Recover() Middleware {
	return func(next PassFunc) PassFunc {
		return func(ctx context.Context, pass *component.Pass) (err error) {
			defer func() {
				if r := recover(); r != nil {
					he := errors.New("E110").WithDetailf("pass %d: %v", pass.Number, r)
					if e, ok := r.(error); ok {
						he = he.Wrap(e)
					}
					err = he
				}
			}()
			return next(ctx, pass)
		}
	}
}

// Logger logs every pass at debug level, and failed passes at error level.
func Logger(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next PassFunc) PassFunc {
		return func(ctx context.Context, pass *component.Pass) error {
			start := time.Now()
			err := next(ctx, pass)
			duration := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "render pass failed",
					"pass", pass.Number,
					"duration", duration,
					"error", err)
				return err
			}
			logger.DebugContext(ctx, "render pass",
				"pass", pass.Number,
				"ops", pass.OpCount(),
				"mutations", pass.Mutations(),
				"duration", duration)
			return nil
		}
	}
}
