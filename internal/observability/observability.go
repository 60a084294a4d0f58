// Package observability wires OpenTelemetry tracing and metrics over
// OTLP HTTP. Export is opt-in: without an endpoint, Init returns a
// provider whose instruments are backed by the default no-op globals.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/seedlabs/formseed"

// Config configures OTLP export.
type Config struct {
	// ServiceName is the reported service name.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the reported service version.
	ServiceVersion string `mapstructure:"service_version"`
	// Environment is the deployment environment.
	Environment string `mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port. Empty disables export.
	Endpoint string `mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "formseed"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Provider bundles the SDK providers for shutdown.
type Provider struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// Init sets up global tracer and meter providers. With no endpoint
// configured it returns an empty Provider and the globals stay no-op.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	if cfg.Endpoint == "" {
		return &Provider{}, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("observability: create resource: %w", err)
	}

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("observability: create trace exporter: %w", err)
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("observability: create metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tracer: tp, meter: mp}, nil
}

// Shutdown flushes and stops the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracer != nil {
		if err := p.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if p.meter != nil {
		if err := p.meter.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("observability: shutdown: %v", errs)
	}
	return nil
}

func newResource(cfg Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
}

// StartSpan starts a span on the default tracer. With no provider
// configured this is a no-op span.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// Metrics holds the seeding run instruments.
type Metrics struct {
	itemsCreated  metric.Int64Counter
	itemsFailed   metric.Int64Counter
	probeAttempts metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// NewMetrics creates the seeding instruments on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	itemsCreated, err := meter.Int64Counter("seed.items.created",
		metric.WithDescription("Items successfully created, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create seed.items.created: %w", err)
	}

	itemsFailed, err := meter.Int64Counter("seed.items.failed",
		metric.WithDescription("Item creation failures, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create seed.items.failed: %w", err)
	}

	probeAttempts, err := meter.Int64Counter("seed.probe.attempts",
		metric.WithDescription("Health probe attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create seed.probe.attempts: %w", err)
	}

	runDuration, err := meter.Float64Histogram("seed.run.duration",
		metric.WithDescription("Duration of seeding runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create seed.run.duration: %w", err)
	}

	return &Metrics{
		itemsCreated:  itemsCreated,
		itemsFailed:   itemsFailed,
		probeAttempts: probeAttempts,
		runDuration:   runDuration,
	}, nil
}

// RecordItems records submission outcomes for one item kind.
func (m *Metrics) RecordItems(ctx context.Context, kind string, created, failed int) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	if created > 0 {
		m.itemsCreated.Add(ctx, int64(created), attrs)
	}
	if failed > 0 {
		m.itemsFailed.Add(ctx, int64(failed), attrs)
	}
}

// RecordProbes records the health probe attempts of a run.
func (m *Metrics) RecordProbes(ctx context.Context, attempts int, ready bool) {
	m.probeAttempts.Add(ctx, int64(attempts), metric.WithAttributes(attribute.Bool("ready", ready)))
}

// RecordRun records the duration and terminal state of a seeding run.
func (m *Metrics) RecordRun(ctx context.Context, state string, duration time.Duration) {
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("state", state),
	))
}
