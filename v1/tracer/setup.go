package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
)

// instrumentationName names the tracer that creates query spans.
const instrumentationName = "github.com/Aleph-Alpha/vexpr"

// Tracer wraps an OpenTelemetry tracer provider.
type Tracer struct {
	tracer *trace.TracerProvider
	logger logger.Logger
}

// NewClient creates the tracer provider, registers it as the global provider
// and installs the W3C trace-context and baggage propagators.
//
// Example:
//
//	t, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "search-api",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	}, log)
//	ctx, span := t.StartSpan(ctx, "query")
//	defer span.End()
func NewClient(cfg Config, log logger.Logger) (*Tracer, error) {
	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if err != nil {
			log.Error("cannot initiate tracer", err, nil)
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	return newClient(cfg, log, options...), nil
}

func newClient(cfg Config, log logger.Logger, options ...trace.TracerProviderOption) *Tracer {
	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Tracer{tracer: tp, logger: log}
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.tracer == nil {
		return nil
	}
	return t.tracer.Shutdown(ctx)
}
