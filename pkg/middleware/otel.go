package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/keel-go/keel"
)

// Default tracer name for keel stores.
const defaultTracerName = "keel"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "keel").
	TracerName string

	// Filter determines which actions to trace.
	// Return true to trace the dispatch, false to skip.
	// If nil, all dispatches are traced.
	Filter func(action any) bool

	// AttributeExtractor extracts custom attributes from the action.
	// Called for each traced dispatch.
	AttributeExtractor func(action any) []attribute.KeyValue

	// tracer is the resolved tracer instance.
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

// WithDispatchFilter sets a filter function for actions.
func WithDispatchFilter(filter func(action any) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(action any) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that opens one span per dispatch.
//
// The middleware:
//   - Creates a span named "keel.dispatch" with the action type attribute
//   - Records errors and sets span status
//   - Skips actions rejected by the configured filter
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it in
// your main() before constructing the store.
func OpenTelemetry[S any](opts ...OTelOption) keel.Middleware[S] {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(api keel.MiddlewareAPI[S]) keel.Interceptor {
		return func(next keel.Dispatcher) keel.Dispatcher {
			return func(action any) (any, error) {
				if config.Filter != nil && !config.Filter(action) {
					return next(action)
				}

				typ, _ := keel.ActionType(action)
				_, span := config.tracer.Start(context.Background(), "keel.dispatch",
					trace.WithSpanKind(trace.SpanKindInternal),
					trace.WithAttributes(attribute.String("keel.action.type", typ)),
				)
				defer span.End()

				if config.AttributeExtractor != nil {
					span.SetAttributes(config.AttributeExtractor(action)...)
				}

				out, err := next(action)
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					return out, err
				}
				span.SetStatus(codes.Ok, "")
				return out, nil
			}
		}
	}
}
