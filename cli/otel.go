package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// setupTracing installs an OTLP/HTTP tracer provider when --otel-endpoint is
// set. The returned shutdown function flushes pending spans; it is always
// safe to call.
func setupTracing(cmd *cobra.Command) (func(), error) {
	endpoint, _ := cmd.Flags().GetString("otel-endpoint")
	if endpoint == "" {
		return func() {}, nil
	}

	exporter, err := otlptracehttp.New(cmd.Context(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, exitError(exitRuntime, "creating OTLP exporter: %v", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("skystack"),
		)),
	)
	otelapi.SetTracerProvider(provider)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}, nil
}
