package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/content-eventbus-go/observability/oteladapters"
)

const (
	instrumentationName    = "github.com/AntonStoeckl/content-eventbus-go"
	metricsExportInterval  = 10 * time.Second
	providerShutdownTimeout = 5 * time.Second
)

var ErrObservabilitySetupFailed = errors.New("observability setup failed")

// NewLogger creates a JSON slog logger on stderr at the configured level.
func NewLogger(cfg Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// Observability holds the OpenTelemetry providers and the collectors built on them.
// Without an OTLP endpoint the providers have no exporters, spans and metrics are recorded and dropped.
type Observability struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource

	Metrics *oteladapters.MetricsCollector
	Tracing *oteladapters.TracingCollector
}

// NewObservability creates the providers, registers them globally, and wires the collectors.
func NewObservability(ctx context.Context, cfg Config) (*Observability, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, errors.Join(ErrObservabilitySetupFailed, err)
	}

	traceOptions := []trace.TracerProviderOption{trace.WithResource(res)}
	meterOptions := []metric.Option{metric.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		traceExporter, traceErr := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if traceErr != nil {
			return nil, errors.Join(ErrObservabilitySetupFailed, traceErr)
		}

		metricExporter, metricErr := otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if metricErr != nil {
			return nil, errors.Join(ErrObservabilitySetupFailed, metricErr)
		}

		traceOptions = append(traceOptions, trace.WithBatcher(traceExporter))
		meterOptions = append(meterOptions, metric.WithReader(
			metric.NewPeriodicReader(metricExporter, metric.WithInterval(metricsExportInterval)),
		))
	}

	tracerProvider := trace.NewTracerProvider(traceOptions...)
	meterProvider := metric.NewMeterProvider(meterOptions...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Observability{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Resource:       res,
		Metrics:        oteladapters.NewMetricsCollector(meterProvider.Meter(instrumentationName)),
		Tracing:        oteladapters.NewTracingCollector(tracerProvider.Tracer(instrumentationName)),
	}, nil
}

// Shutdown flushes and stops both providers.
func (o *Observability) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), providerShutdownTimeout)
	defer cancel()

	return errors.Join(o.TracerProvider.Shutdown(ctx), o.MeterProvider.Shutdown(ctx))
}
