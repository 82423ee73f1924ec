// Package tracing provides an OpenTelemetry tracing stage for pipelines. It
// is entirely optional — tracing is only active when a [Config] is wired in
// via the WithTracing pipeline option.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Config holds the OpenTelemetry configuration used by the tracing stage.
type Config struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider

	// Propagators extracts trace context from inbound headers. When nil the
	// global otel.GetTextMapPropagator() is used.
	Propagators propagation.TextMapPropagator
}

// tracer returns a configured [trace.Tracer].
func (c *Config) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer("github.com/Keksclan/goFlowSquirrel/tracing")
}

// propagators returns the configured propagator (or global default).
func (c *Config) propagators() propagation.TextMapPropagator {
	if c.Propagators != nil {
		return c.Propagators
	}
	return otel.GetTextMapPropagator()
}

// Middleware returns a stage that opens a span for every dispatch, linked to
// any trace context carried by the inbound headers. If cfg is nil the stage
// is a no-op passthrough.
func Middleware(cfg *Config) flow.Middleware {
	if cfg == nil {
		return func(next flow.Handler) flow.Handler {
			return next
		}
	}
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			carrier := headerCarrier(ctx.HeaderMap())
			parent := cfg.propagators().Extract(context.Background(), carrier)

			_, span := cfg.tracer().Start(parent, ctx.Method()+" "+ctx.Path(),
				trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("pipeline.method", ctx.Method()),
				attribute.String("pipeline.path", ctx.Path()),
			)

			err := next(ctx)
			recordOutcome(span, ctx, err)
			return err
		}
	}
}

// headerCarrier adapts the inbound header mapping to the OTel
// [propagation.TextMapCarrier] interface.
type headerCarrier map[string]string

func (hc headerCarrier) Get(key string) string { return hc[key] }

func (hc headerCarrier) Set(key, value string) { hc[key] = value }

func (hc headerCarrier) Keys() []string {
	keys := make([]string, 0, len(hc))
	for k := range hc {
		keys = append(keys, k)
	}
	return keys
}

// recordOutcome sets the span status from the stage error and records the
// response status code.
func recordOutcome(span trace.Span, ctx *flow.Context, err error) {
	span.SetAttributes(attribute.Int("pipeline.status", ctx.Status()))
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(
			attribute.String("pipeline.failed_stage", flow.StageOf(err)),
			attribute.String("pipeline.failure_kind", flow.KindOf(err).String()),
		)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
