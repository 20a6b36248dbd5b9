package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/skystack-labs/skystack"
)

// MetricsHandler translates SkyStack session events into OpenTelemetry
// metrics: counters for invocations, failures, and gate cache activity, and
// a histogram for invocation duration.
type MetricsHandler struct {
	invocations    metric.Int64Counter
	failures       metric.Int64Counter
	planned        metric.Int64Counter
	invokeDuration metric.Float64Histogram
	gateHits       metric.Int64Counter
	gateOpens      metric.Int64Counter
}

// NewMetricsHandler creates a MetricsHandler that uses the given meter to
// create instruments for recording session metrics.
func NewMetricsHandler(meter metric.Meter) (*MetricsHandler, error) {
	invocations, err := meter.Int64Counter("skystack.invocations",
		metric.WithDescription("Number of completed tool invocations"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("skystack.failures",
		metric.WithDescription("Number of failed tool invocations"),
	)
	if err != nil {
		return nil, err
	}

	planned, err := meter.Int64Counter("skystack.planned",
		metric.WithDescription("Number of dry-run planned invocations"),
	)
	if err != nil {
		return nil, err
	}

	invokeDuration, err := meter.Float64Histogram("skystack.invoke.duration",
		metric.WithDescription("Duration of tool invocations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	gateHits, err := meter.Int64Counter("skystack.gate.hits",
		metric.WithDescription("Number of execution-handle cache hits"),
	)
	if err != nil {
		return nil, err
	}

	gateOpens, err := meter.Int64Counter("skystack.gate.opens",
		metric.WithDescription("Number of execution handles opened"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsHandler{
		invocations:    invocations,
		failures:       failures,
		planned:        planned,
		invokeDuration: invokeDuration,
		gateHits:       gateHits,
		gateOpens:      gateOpens,
	}, nil
}

// Handle processes a session event and records the appropriate metrics.
// It implements skystack.EventHandler semantics.
func (h *MetricsHandler) Handle(e skystack.Event) {
	switch e.Kind {
	case skystack.EventInvokeFinished:
		h.handleTerminal(e, h.invocations)
	case skystack.EventInvokePlanned:
		h.handleTerminal(e, h.planned)
	case skystack.EventInvokeFailed:
		h.handleTerminal(e, h.failures)
	case skystack.EventGateHit:
		h.gateHits.Add(context.Background(), 1, gateAttrs(e))
	case skystack.EventGateOpened:
		h.gateOpens.Add(context.Background(), 1, gateAttrs(e))
	}
}

func (h *MetricsHandler) handleTerminal(e skystack.Event, counter metric.Int64Counter) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("tool", e.Tool),
	)
	counter.Add(ctx, 1, attrs)
	h.invokeDuration.Record(ctx, e.Elapsed.Seconds(), attrs)
}

func gateAttrs(e skystack.Event) metric.MeasurementOption {
	fp := ""
	if v, ok := e.Payload["fingerprint"].(string); ok {
		fp = v
	}
	return metric.WithAttributes(attribute.String("fingerprint", fp))
}
