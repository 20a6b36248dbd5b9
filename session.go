package skystack

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/skystack-labs/skystack/history"
	"github.com/skystack-labs/skystack/tool"
)

// Config is the session configuration surface. Everything a session depends
// on is injected here; there is no ambient process state, so two sessions
// are fully independent and independently testable.
type Config struct {
	// ToolPackages names the tool groupings in scope, e.g. "aws/storage".
	ToolPackages []string
	// Tools optionally restricts the exposed tools to this allow-list.
	Tools []string
	// DryRun is the session-wide dry-run default.
	DryRun bool
	// DefaultTags are merged under caller tags on every invocation.
	// Nil selects the process defaults from DefaultTags().
	DefaultTags map[string]string
	// Inventory identifies the target host set (opaque to the core).
	Inventory string
	// Runner identifies the module-execution runtime (opaque to the core).
	Runner string
	// Region is the cloud region for this session, injected into
	// invocations that do not set one.
	Region string
	// Provider opens and closes execution handles. Required.
	Provider ConnProvider
	// Executor performs module operations. Required.
	Executor Executor
	// Handler receives session lifecycle and invocation events. Optional.
	Handler EventHandler
	// History records invocation outcomes. Optional; the session does not
	// close it.
	History history.Store
	// Logger is used for non-fatal bookkeeping failures. Optional.
	Logger *slog.Logger
}

// Session is the context object callers acquire to invoke tools. It owns its
// registry view, the gate cache, and the dry-run default. Multiple
// goroutines may Call concurrently on one session; Close waits for in-flight
// invocations holding execution handles before releasing them.
type Session struct {
	id          string
	registry    *tool.Registry
	cache       *GateCache
	dryRun      bool
	defaultTags map[string]string
	fingerprint Fingerprint
	executor    Executor
	handler     EventHandler
	history     history.Store
	logger      *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Open constructs a session from the named tool groupings. Registration is
// all-or-nothing: a grouping collision or an unknown grouping identifier
// aborts construction entirely.
func Open(cfg Config) (*Session, error) {
	if cfg.Executor == nil {
		return nil, errors.New("skystack: config requires an Executor")
	}
	if cfg.Provider == nil {
		return nil, errors.New("skystack: config requires a ConnProvider")
	}
	if len(cfg.ToolPackages) == 0 {
		return nil, errors.New("skystack: config requires at least one tool package")
	}

	registry := tool.NewRegistry()
	for _, pkg := range cfg.ToolPackages {
		g, err := tool.LookupGrouping(pkg)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(g); err != nil {
			return nil, err
		}
	}
	if len(cfg.Tools) > 0 {
		filtered, err := registry.Filter(cfg.Tools)
		if err != nil {
			return nil, err
		}
		registry = filtered
	}

	tags := cfg.DefaultTags
	if tags == nil {
		tags = DefaultTags()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		id:          uuid.NewString(),
		registry:    registry,
		dryRun:      cfg.DryRun,
		defaultTags: tags,
		fingerprint: Fingerprint{
			Inventory: cfg.Inventory,
			Runner:    cfg.Runner,
			Region:    cfg.Region,
		},
		executor: cfg.Executor,
		handler:  cfg.Handler,
		history:  cfg.History,
		logger:   logger,
	}
	s.cache = NewGateCache(cfg.Provider, s.emit)

	s.emit(NewEvent(EventSessionOpened, s.id).
		WithPayload("tool_packages", append([]string(nil), cfg.ToolPackages...)).
		WithPayload("dry_run", cfg.DryRun))
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// DryRun reports the session-wide dry-run default.
func (s *Session) DryRun() bool {
	return s.dryRun
}

// Tools returns the exposed tool names in sorted order.
func (s *Session) Tools() []string {
	return s.registry.Names()
}

// Resolve returns the definition for an exposed tool name.
func (s *Session) Resolve(name string) (tool.Definition, error) {
	return s.registry.Resolve(name)
}

// Call invokes a tool by name with keyword-style arguments, using the
// session's dry-run default. It always returns a terminal Result; failures
// are carried in the result, never raised.
func (s *Session) Call(ctx context.Context, name string, kwargs map[string]any) Result {
	if s.closed.Load() {
		return failureResult(uuid.NewString(), name, "",
			tool.WrapError(tool.ErrorCodeExecutionFailed, ErrSessionClosed, ""))
	}
	return s.invoke(ctx, name, kwargs, nil)
}

// CallDryRun invokes a tool with dry run forced on for this call only,
// regardless of the session default.
func (s *Session) CallDryRun(ctx context.Context, name string, kwargs map[string]any) Result {
	if s.closed.Load() {
		return failureResult(uuid.NewString(), name, "",
			tool.WrapError(tool.ErrorCodeExecutionFailed, ErrSessionClosed, ""))
	}
	dry := true
	return s.invoke(ctx, name, kwargs, &dry)
}

// Close tears the session down exactly once: it bars new calls, waits for
// in-flight invocations that hold execution handles, and releases every
// cached handle. Subsequent Close calls return the first result.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.cache.ReleaseAll(ctx)
		s.emit(NewEvent(EventSessionClosed, s.id))
	})
	return s.closeErr
}

// emit forwards an event to the configured handler, stamping the session ID
// on events produced by session-owned components.
func (s *Session) emit(e Event) {
	if s.handler == nil {
		return
	}
	if e.SessionID == "" {
		e.SessionID = s.id
	}
	s.handler(e)
}

// record appends the invocation outcome to the history store, when one is
// configured. History failures are logged, not surfaced: audit trouble must
// not fail an otherwise healthy invocation.
func (s *Session) record(ctx context.Context, res Result, start time.Time) {
	if s.history == nil {
		return
	}
	rec := history.Record{
		InvocationID: res.InvocationID,
		SessionID:    s.id,
		Tool:         res.Tool,
		Operation:    res.Operation,
		Status:       string(res.Status),
		Planned:      res.Planned,
		Output:       res.Output,
		StartedAt:    start,
		Elapsed:      res.Elapsed,
	}
	if res.Failure != nil {
		rec.FailureKind = res.Failure.Kind
		rec.FailureMessage = res.Failure.Message
	}
	if err := s.history.Append(ctx, rec); err != nil {
		s.logger.Warn("recording invocation history failed",
			"invocation_id", res.InvocationID,
			"tool", res.Tool,
			"error", err)
	}
}
