// Package telemetry sets up OpenTelemetry tracing for a scan. Without an
// OTLP endpoint every span is a no-op.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/waftester/wpvane/pkg/defaults"
	"github.com/waftester/wpvane/pkg/duration"
)

// Options configures the exporter.
type Options struct {
	// Endpoint is the OTLP gRPC endpoint, e.g. "localhost:4317". Empty
	// disables tracing.
	Endpoint string

	// ServiceName defaults to the tool name.
	ServiceName string

	// Insecure uses a plaintext connection.
	Insecure bool

	Headers map[string]string

	ShutdownTimeout   time.Duration
	ConnectionTimeout time.Duration
}

// Provider hands out tracers and flushes spans on Shutdown.
type Provider struct {
	tp       trace.TracerProvider
	sdk      *sdktrace.TracerProvider
	shutdown time.Duration
}

// Setup builds a Provider and installs it as the global tracer provider,
// so packages using otel.Tracer pick it up.
func Setup(opts Options) (*Provider, error) {
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = duration.Shutdown
	}
	if opts.Endpoint == "" {
		p := &Provider{tp: noop.NewTracerProvider(), shutdown: opts.ShutdownTimeout}
		otel.SetTracerProvider(p.tp)
		return p, nil
	}

	if opts.ServiceName == "" {
		opts.ServiceName = defaults.ToolName
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = duration.DialTimeout
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	if len(opts.Headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(opts.Headers))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectionTimeout)
	defer cancel()
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, err
	}

	// Not merged with resource.Default to avoid schema URL conflicts.
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(defaults.Version),
		attribute.String("service.component", "scanner"),
	)

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(sdk)
	return &Provider{tp: sdk, sdk: sdk, shutdown: opts.ShutdownTimeout}, nil
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool { return p.sdk != nil }

// Tracer returns a named tracer.
func (p *Provider) Tracer(name string) trace.Tracer { return p.tp.Tracer(name) }

// Shutdown flushes pending spans.
func (p *Provider) Shutdown() error {
	if p == nil || p.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.shutdown)
	defer cancel()
	return p.sdk.Shutdown(ctx)
}
