package middleware

import (
	"context"

	"github.com/vango-dev/hookdom/pkg/component"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "hookdom"

// SpanName is the name of the span started for every pass.
const SpanName = "hookdom.render"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "hookdom").
	TracerName string

	// TracerProvider supplies the tracer. If nil, the global provider is
	// used.
	TracerProvider trace.TracerProvider

	// Filter determines which passes to trace.
	// If nil, all passes are traced.
	Filter func(pass *component.Pass) bool

	// AttributeExtractor adds custom attributes after the pass ran.
	AttributeExtractor func(pass *component.Pass) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithPassFilter sets a filter function for passes.
func WithPassFilter(filter func(pass *component.Pass) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(pass *component.Pass) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every render pass.
//
// Each pass gets a span named hookdom.render carrying the pass number and,
// once the pass finished, its host operation counts. Errors are recorded
// and set the span status. The span's context is passed down the chain.
//
// Configure the global provider in main() before mounting:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	config.tracer = tp.Tracer(config.TracerName)

	return func(next PassFunc) PassFunc {
		return func(ctx context.Context, pass *component.Pass) error {
			if config.Filter != nil && !config.Filter(pass) {
				return next(ctx, pass)
			}

			spanCtx, span := config.tracer.Start(ctx, SpanName,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.Int("hookdom.pass", pass.Number)),
			)
			defer span.End()

			err := next(spanCtx, pass)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}

			span.SetAttributes(
				attribute.Int("hookdom.op_count", pass.OpCount()),
				attribute.Int("hookdom.mutations", pass.Mutations()),
			)
			if config.AttributeExtractor != nil {
				span.SetAttributes(config.AttributeExtractor(pass)...)
			}
			return err
		}
	}
}
