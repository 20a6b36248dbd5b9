// Package otel provides OpenTelemetry integration for SkyStack session events.
package otel

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skystack-labs/skystack"
)

// TracingHandler translates SkyStack session events into OpenTelemetry
// spans: one root span per session, one child span per invocation.
type TracingHandler struct {
	tracer trace.Tracer

	mu           sync.RWMutex
	sessionSpans map[string]trace.Span            // sessionID -> span
	sessionCtxs  map[string]context.Context       // sessionID -> context (for child spans)
	invokeSpans  map[string]trace.Span            // sessionID:invocationID -> span
}

// NewTracingHandler creates a TracingHandler that uses the given tracer to
// create spans from session events.
func NewTracingHandler(tracer trace.Tracer) *TracingHandler {
	return &TracingHandler{
		tracer:       tracer,
		sessionSpans: make(map[string]trace.Span),
		sessionCtxs:  make(map[string]context.Context),
		invokeSpans:  make(map[string]trace.Span),
	}
}

// Handle processes a session event and creates or ends spans accordingly.
// It implements skystack.EventHandler semantics.
func (h *TracingHandler) Handle(e skystack.Event) {
	switch e.Kind {
	case skystack.EventSessionOpened:
		h.handleSessionOpened(e)
	case skystack.EventInvokeStarted:
		h.handleInvokeStarted(e)
	case skystack.EventInvokeFinished, skystack.EventInvokePlanned:
		h.handleInvokeFinished(e)
	case skystack.EventInvokeFailed:
		h.handleInvokeFailed(e)
	case skystack.EventGateHit, skystack.EventGateOpened:
		h.handleGateEvent(e)
	case skystack.EventSessionClosed:
		h.handleSessionClosed(e)
	}
}

// handleSessionOpened creates a root span for the session.
func (h *TracingHandler) handleSessionOpened(e skystack.Event) {
	ctx, span := h.tracer.Start(context.Background(), "session:"+e.SessionID,
		trace.WithAttributes(
			attribute.String("skystack.session_id", e.SessionID),
		),
		trace.WithTimestamp(e.Time),
	)
	if dry, ok := e.Payload["dry_run"].(bool); ok {
		span.SetAttributes(attribute.Bool("skystack.dry_run", dry))
	}

	h.mu.Lock()
	h.sessionSpans[e.SessionID] = span
	h.sessionCtxs[e.SessionID] = ctx
	h.mu.Unlock()
}

// handleInvokeStarted creates a child span under the session span.
func (h *TracingHandler) handleInvokeStarted(e skystack.Event) {
	h.mu.RLock()
	parentCtx, ok := h.sessionCtxs[e.SessionID]
	h.mu.RUnlock()

	if !ok {
		// No session span; start from background context.
		parentCtx = context.Background()
	}

	_, span := h.tracer.Start(parentCtx, "invoke:"+e.Tool,
		trace.WithAttributes(
			attribute.String("skystack.session_id", e.SessionID),
			attribute.String("skystack.invocation_id", e.InvocationID),
			attribute.String("skystack.tool", e.Tool),
		),
		trace.WithTimestamp(e.Time),
	)

	key := e.SessionID + ":" + e.InvocationID
	h.mu.Lock()
	h.invokeSpans[key] = span
	h.mu.Unlock()
}

// handleInvokeFinished ends the invocation span with success status.
func (h *TracingHandler) handleInvokeFinished(e skystack.Event) {
	span, ok := h.takeInvokeSpan(e)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String("skystack.duration", e.Elapsed.String()),
		attribute.Bool("skystack.planned", e.Kind == skystack.EventInvokePlanned),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(e.Time))
}

// handleInvokeFailed ends the invocation span with error status.
func (h *TracingHandler) handleInvokeFailed(e skystack.Event) {
	span, ok := h.takeInvokeSpan(e)
	if !ok {
		return
	}
	kind := "unknown failure"
	if s, found := e.Payload["kind"].(string); found {
		kind = s
	}
	span.SetStatus(codes.Error, kind)
	span.RecordError(errors.New(kind), trace.WithTimestamp(e.Time))
	span.End(trace.WithTimestamp(e.Time))
}

// handleGateEvent adds a span event on the session span for cache activity.
func (h *TracingHandler) handleGateEvent(e skystack.Event) {
	h.mu.RLock()
	span, ok := h.sessionSpans[e.SessionID]
	h.mu.RUnlock()

	if !ok {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("skystack.event_kind", string(e.Kind)),
	}
	if fp, found := e.Payload["fingerprint"].(string); found {
		attrs = append(attrs, attribute.String("skystack.fingerprint", fp))
	}
	span.AddEvent(string(e.Kind), trace.WithTimestamp(e.Time), trace.WithAttributes(attrs...))
}

// handleSessionClosed ends the root session span.
func (h *TracingHandler) handleSessionClosed(e skystack.Event) {
	h.mu.Lock()
	span, ok := h.sessionSpans[e.SessionID]
	if ok {
		delete(h.sessionSpans, e.SessionID)
		delete(h.sessionCtxs, e.SessionID)
	}
	h.mu.Unlock()

	if ok {
		span.SetStatus(codes.Ok, "")
		span.End(trace.WithTimestamp(e.Time))
	}
}

// takeInvokeSpan removes and returns the invocation span for a terminal event.
func (h *TracingHandler) takeInvokeSpan(e skystack.Event) (trace.Span, bool) {
	key := e.SessionID + ":" + e.InvocationID
	h.mu.Lock()
	span, ok := h.invokeSpans[key]
	if ok {
		delete(h.invokeSpans, key)
	}
	h.mu.Unlock()
	return span, ok
}

// ActiveSessionSpanContext returns the span context of the session's root
// span, or an invalid span context when none is active.
func (h *TracingHandler) ActiveSessionSpanContext(sessionID string) trace.SpanContext {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if span, ok := h.sessionSpans[sessionID]; ok {
		return span.SpanContext()
	}
	return trace.SpanContext{}
}
