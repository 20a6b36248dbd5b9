package skystack

import "time"

// EventKind identifies the type of event emitted by a session.
type EventKind string

const (
	// EventSessionOpened is emitted when a session is constructed.
	EventSessionOpened EventKind = "session.opened"

	// EventSessionClosed is emitted after teardown releases the gate cache.
	EventSessionClosed EventKind = "session.closed"

	// EventInvokeStarted is emitted when a tool invocation is resolved.
	EventInvokeStarted EventKind = "invoke.started"

	// EventInvokePlanned is emitted when a dry-run invocation short-circuits.
	EventInvokePlanned EventKind = "invoke.planned"

	// EventInvokeFinished is emitted when the executor completes successfully.
	EventInvokeFinished EventKind = "invoke.finished"

	// EventInvokeFailed is emitted for any terminal failure of an invocation.
	EventInvokeFailed EventKind = "invoke.failed"

	// EventGateHit is emitted when Acquire reuses a cached execution handle.
	EventGateHit EventKind = "gate.hit"

	// EventGateOpened is emitted when Acquire opened a new execution handle.
	EventGateOpened EventKind = "gate.opened"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Event is a structured record of what happened during a session. Events
// should be kept small; invocation payloads live on the Result and in the
// history store, not here.
type Event struct {
	// Kind identifies the event type.
	Kind EventKind

	// SessionID is the unique identifier for the owning session.
	SessionID string

	// InvocationID identifies the invocation (empty for session-level events).
	InvocationID string

	// Tool is the tool name being invoked (empty for session-level events).
	Tool string

	// Fingerprint is the connection identity for gate events.
	Fingerprint string

	// Time is when the event occurred.
	Time time.Time

	// Elapsed is the duration since the invocation started, for terminal events.
	Elapsed time.Duration

	// Payload contains event-specific data. Keep it small.
	Payload map[string]any
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(kind EventKind, sessionID string) Event {
	return Event{
		Kind:      kind,
		SessionID: sessionID,
		Time:      time.Now(),
	}
}

// WithInvocation sets the invocation information on the event.
func (e Event) WithInvocation(invocationID, toolName string) Event {
	e.InvocationID = invocationID
	e.Tool = toolName
	return e
}

// WithElapsed sets the elapsed duration on the event.
func (e Event) WithElapsed(elapsed time.Duration) Event {
	e.Elapsed = elapsed
	return e
}

// WithPayload adds a key-value pair to the event payload.
func (e Event) WithPayload(key string, value any) Event {
	if e.Payload == nil {
		e.Payload = make(map[string]any)
	}
	e.Payload[key] = value
	return e
}

// EventHandler is a function type for handling session events.
// Implementations can log, store, or forward events as needed.
type EventHandler func(Event)

// MultiEventHandler combines multiple handlers into one.
func MultiEventHandler(handlers ...EventHandler) EventHandler {
	return func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}
