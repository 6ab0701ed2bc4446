package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/alchemorsel/menuplanner/internal/infrastructure/config"
	"github.com/alchemorsel/menuplanner/pkg/logger"
)

// TracerProvider owns the process tracer. When tracing is disabled it hands
// out no-op tracers and Shutdown does nothing.
type TracerProvider struct {
	provider trace.TracerProvider
	sdk      *sdktrace.TracerProvider
	logger   *zap.Logger
}

// NewTracerProvider configures OTLP/HTTP export and installs the provider and
// W3C propagators globally
func NewTracerProvider(ctx context.Context, cfg *config.Config, log *zap.Logger) (*TracerProvider, error) {
	lg := logger.Component(log, "tracing")

	if !cfg.Monitoring.EnableTracing {
		lg.Debug("Tracing is disabled")
		return &TracerProvider{provider: noop.NewTracerProvider(), logger: lg}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Monitoring.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.Monitoring.ServiceName),
			attribute.String("service.version", cfg.App.Version),
			attribute.String("deployment.environment", cfg.App.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Monitoring.SamplingRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	lg.Info("Tracing initialized",
		zap.String("endpoint", cfg.Monitoring.OTLPEndpoint),
		zap.Float64("sampling_rate", cfg.Monitoring.SamplingRate),
	)
	return &TracerProvider{provider: tp, sdk: tp, logger: lg}, nil
}

// Tracer returns a named tracer
func (t *TracerProvider) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

// Enabled reports whether spans are exported
func (t *TracerProvider) Enabled() bool {
	return t.sdk != nil
}

// Shutdown flushes pending spans
func (t *TracerProvider) Shutdown(ctx context.Context) error {
	if t.sdk == nil {
		return nil
	}
	if err := t.sdk.Shutdown(ctx); err != nil {
		t.logger.Warn("Tracer shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

// TraceIDFromContext returns the active trace ID, or an empty string
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
