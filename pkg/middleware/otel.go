package middleware

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/router"
)

const defaultTracerName = "github.com/mlb-trending/trending"

// Span attribute keys.
const (
	AttrPath      = attribute.Key("trending.path")
	AttrRouteName = attribute.Key("trending.route.name")
	AttrRouteView = attribute.Key("trending.route.view")
	AttrErrorCode = attribute.Key("trending.error.code")
)

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the instrumentation name of the tracer.
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// IncludeParams adds captured path parameters as span attributes.
	// Player ids end up in traces, so it is off by default.
	IncludeParams bool

	// Filter determines which resolutions to trace. If nil, all are traced.
	Filter func(ctx router.Ctx) bool
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

// WithIncludeParams enables path parameter attributes.
func WithIncludeParams(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeParams = include
	}
}

// WithFilter sets a filter function.
func WithFilter(filter func(ctx router.Ctx) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// OpenTelemetry creates middleware that wraps every resolution in a span.
//
// The span starts as "navigate" and is renamed to "navigate <route>" once the
// route is known. Not-found and invalid paths set an error status with the
// error code as an attribute. Middleware registered after this one sees the
// span in ctx.Context() and can start child spans under it.
//
// The tracer comes from the global provider unless one is given; see
// internal/telemetry for exporter setup.
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(ctx router.Ctx, next func() error) error {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		parent := ctx.Context()
		spanCtx, span := tracer.Start(parent, "navigate",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(AttrPath.String(ctx.Path())),
		)
		defer span.End()

		ctx.SetContext(spanCtx)
		err := next()
		ctx.SetContext(parent)

		if match := ctx.Match(); match != nil {
			span.SetName("navigate " + match.Route.Name)
			span.SetAttributes(
				AttrRouteName.String(match.Route.Name),
				AttrRouteView.String(string(match.Route.View)),
			)
			if config.IncludeParams {
				for k, v := range match.Params {
					span.SetAttributes(attribute.String("trending.param."+k, v))
				}
			}
		}

		if err != nil {
			if code := errors.Code(err); code != "" {
				span.SetAttributes(AttrErrorCode.String(code))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}
