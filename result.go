package skystack

import (
	"time"

	"github.com/skystack-labs/skystack/tool"
)

// Status is the terminal state of one invocation.
type Status string

const (
	// StatusPlanned means dry-run short-circuited before the executor.
	StatusPlanned Status = "planned"
	// StatusSuccess means the executor completed the operation.
	StatusSuccess Status = "success"
	// StatusFailed means resolution, normalization, connection, or execution failed.
	StatusFailed Status = "failed"
)

// Failure describes why an invocation failed: a machine-readable kind (a
// tool error code) plus the underlying message.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the outcome record of one invocation. It is always returned to
// the caller; failures are values here, never unhandled faults.
type Result struct {
	// InvocationID uniquely identifies this invocation.
	InvocationID string `json:"invocation_id"`
	// Tool is the resolved tool name.
	Tool string `json:"tool"`
	// Operation is the external module operation that was (or would be) run.
	Operation string `json:"operation,omitempty"`
	// Status is the terminal state.
	Status Status `json:"status"`
	// Planned is true for dry-run results; Output then describes the planned
	// change rather than an applied one.
	Planned bool `json:"planned,omitempty"`
	// Output is the resource-specific payload on success, or the planned
	// argument set on dry run.
	Output map[string]any `json:"output,omitempty"`
	// Failure is set when Status is StatusFailed.
	Failure *Failure `json:"failure,omitempty"`
	// Elapsed is the wall time the invocation took.
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// OK reports whether the invocation reached a non-failure terminal state.
func (r Result) OK() bool {
	return r.Status != StatusFailed
}

// Err returns the failure as a structured error, or nil. Callers that want
// fail-fast semantics wrap Call with this explicitly.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return tool.NewError(r.Failure.Kind, "%s", r.Failure.Message)
}

// failureResult builds a failed Result from a structured error, defaulting
// the kind to EXECUTION_FAILED for plain errors.
func failureResult(invocationID, toolName, operation string, err error) Result {
	kind := tool.ErrorCode(err)
	if kind == "" {
		kind = tool.ErrorCodeExecutionFailed
	}
	return Result{
		InvocationID: invocationID,
		Tool:         toolName,
		Operation:    operation,
		Status:       StatusFailed,
		Failure: &Failure{
			Kind:    kind,
			Message: err.Error(),
		},
	}
}
