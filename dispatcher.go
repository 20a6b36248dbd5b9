package skystack

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skystack-labs/skystack/tool"
)

// Executor is the external module-execution runtime. Run performs one
// operation against an execution handle and returns the raw result payload
// or an error. The dispatcher treats it as opaque and synchronous.
type Executor interface {
	Run(ctx context.Context, operation string, args InvocationArgs, handle ExecHandle) (map[string]any, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, operation string, args InvocationArgs, handle ExecHandle) (map[string]any, error)

// Run implements Executor.
func (f ExecutorFunc) Run(ctx context.Context, operation string, args InvocationArgs, handle ExecHandle) (map[string]any, error) {
	return f(ctx, operation, args, handle)
}

// invoke runs one tool call to its terminal state: resolve, normalize,
// acquire a gate handle, then execute or short-circuit on dry run. Failures
// of any stage become a failed Result; nothing propagates, so one bad call
// never poisons the cache or sibling invocations.
func (s *Session) invoke(ctx context.Context, name string, kwargs map[string]any, dryRunOverride *bool) Result {
	invocationID := uuid.NewString()
	start := time.Now()

	def, err := s.registry.Resolve(name)
	if err != nil {
		res := failureResult(invocationID, name, "", err)
		res.Elapsed = time.Since(start)
		s.fail(ctx, res, start)
		return res
	}

	s.emit(NewEvent(EventInvokeStarted, s.id).WithInvocation(invocationID, def.Name))

	args, err := s.normalize(def, kwargs, dryRunOverride)
	if err != nil {
		res := failureResult(invocationID, def.Name, def.Operation, err)
		res.Elapsed = time.Since(start)
		s.fail(ctx, res, start)
		return res
	}

	if args.DryRun {
		res := plannedResult(invocationID, def, args)
		res.Elapsed = time.Since(start)
		s.emit(NewEvent(EventInvokePlanned, s.id).
			WithInvocation(invocationID, def.Name).
			WithElapsed(res.Elapsed))
		s.record(ctx, res, start)
		return res
	}

	handle, release, err := s.cache.Acquire(ctx, s.fingerprint)
	if err != nil {
		res := failureResult(invocationID, def.Name, def.Operation,
			tool.WrapError(tool.ErrorCodeExecutionFailed, err, ""))
		res.Elapsed = time.Since(start)
		s.fail(ctx, res, start)
		return res
	}
	defer release()

	output, err := s.runExternal(ctx, def.Operation, args, handle)
	elapsed := time.Since(start)
	if err != nil {
		res := failureResult(invocationID, def.Name, def.Operation,
			tool.WrapError(tool.ErrorCodeExecutionFailed, err, ""))
		res.Elapsed = elapsed
		s.emit(NewEvent(EventInvokeFailed, s.id).
			WithInvocation(invocationID, def.Name).
			WithElapsed(elapsed).
			WithPayload("kind", res.Failure.Kind))
		s.record(ctx, res, start)
		return res
	}

	res := Result{
		InvocationID: invocationID,
		Tool:         def.Name,
		Operation:    def.Operation,
		Status:       StatusSuccess,
		Output:       output,
		Elapsed:      elapsed,
	}
	s.emit(NewEvent(EventInvokeFinished, s.id).
		WithInvocation(invocationID, def.Name).
		WithElapsed(elapsed))
	s.record(ctx, res, start)
	return res
}

// normalize builds the canonical argument set for one call. The effective
// dry-run flag is the session default unless the per-call override forces
// dry run; an override can never switch dry run off for a dry-run session.
func (s *Session) normalize(def tool.Definition, kwargs map[string]any, dryRunOverride *bool) (InvocationArgs, error) {
	dryRun := s.dryRun
	if dryRunOverride != nil && *dryRunOverride {
		dryRun = true
	}
	args, err := NormalizeArgs(kwargs, dryRun, s.defaultTags)
	if err != nil {
		return InvocationArgs{}, err
	}
	args = args.WithRegion(s.fingerprint.Region)
	return args.ApplyDefinition(def)
}

// runExternal isolates the executor call. A panicking executor must not take
// down sibling invocations sharing the session, so it is converted to an
// error here.
func (s *Session) runExternal(ctx context.Context, operation string, args InvocationArgs, handle ExecHandle) (output map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()
	return s.executor.Run(ctx, operation, args, handle)
}

// plannedResult describes the change a dry-run invocation would make. Equal
// inputs produce structurally equal planned results.
func plannedResult(invocationID string, def tool.Definition, args InvocationArgs) Result {
	return Result{
		InvocationID: invocationID,
		Tool:         def.Name,
		Operation:    def.Operation,
		Status:       StatusPlanned,
		Planned:      true,
		Output: map[string]any{
			"changed": true,
			"planned": args.ToMap(),
		},
	}
}

// fail emits the failure event and records history for pre-execution
// failures (resolution, normalization, connection).
func (s *Session) fail(ctx context.Context, res Result, start time.Time) {
	ev := NewEvent(EventInvokeFailed, s.id).
		WithInvocation(res.InvocationID, res.Tool).
		WithElapsed(res.Elapsed)
	if res.Failure != nil {
		ev = ev.WithPayload("kind", res.Failure.Kind)
	}
	s.emit(ev)
	s.record(ctx, res, start)
}
