package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer every span is recorded under.
const TracerName = "github.com/matzehuels/cablemoment"

// TracingOptions configures InitTracing.
type TracingOptions struct {
	Service string
	Version string

	// Endpoint is an OTLP/HTTP URL. Empty falls back to
	// OTEL_EXPORTER_OTLP_ENDPOINT; when that is unset too, spans are
	// recorded and discarded.
	Endpoint string
}

// InitTracing installs a global tracer provider and returns it. Call
// Shutdown on it to flush pending spans.
func InitTracing(ctx context.Context, opts TracingOptions) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(opts.Service),
			semconv.ServiceVersion(opts.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing resource: %w", err)
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	var exporter sdktrace.SpanExporter
	if endpoint != "" {
		exporter, err = otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(io.Discard))
	}
	if err != nil {
		return nil, fmt.Errorf("tracing exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}

// TraceHooks records completed pipeline stages and HTTP requests as spans.
// Spans are opened retroactively from the reported duration, so the start
// events are ignored.
type TraceHooks struct {
	tracer trace.Tracer
}

// NewTraceHooks returns hooks that record spans with tp.
func NewTraceHooks(tp trace.TracerProvider) *TraceHooks {
	return &TraceHooks{tracer: tp.Tracer(TracerName)}
}

func (h *TraceHooks) OnComputeStart(context.Context, int, int) {}

func (h *TraceHooks) OnComputeComplete(ctx context.Context, root string, moment float64, d time.Duration, err error) {
	h.record(ctx, "compute", d, err,
		attribute.String("cablemoment.root", root),
		attribute.Float64("cablemoment.moment", moment))
}

func (h *TraceHooks) OnRenderStart(context.Context, string) {}

func (h *TraceHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.record(ctx, "render "+format, d, err,
		attribute.String("cablemoment.format", format),
		attribute.Int("cablemoment.bytes", size))
}

func (h *TraceHooks) OnRequest(context.Context, string, string) {}

func (h *TraceHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	var err error
	if status >= 500 {
		err = fmt.Errorf("HTTP %d", status)
	}
	h.record(ctx, method+" "+route, d, err,
		semconv.HTTPRequestMethodKey.String(method),
		semconv.HTTPRoute(route),
		semconv.HTTPResponseStatusCode(status))
}

func (h *TraceHooks) record(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

var (
	_ PipelineHooks = (*TraceHooks)(nil)
	_ HTTPHooks     = (*TraceHooks)(nil)
)
