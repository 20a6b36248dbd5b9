package tool

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ErrorCodeDuplicateTool is returned when grouping registration collides
	// with an already-registered tool name.
	ErrorCodeDuplicateTool = "DUPLICATE_TOOL"
	// ErrorCodeUnknownTool is returned when dispatch resolves an unregistered name.
	ErrorCodeUnknownTool = "UNKNOWN_TOOL"
	// ErrorCodeInvalidArguments is returned when argument normalization or
	// required-parameter validation fails.
	ErrorCodeInvalidArguments = "INVALID_ARGUMENTS"
	// ErrorCodeExecutionFailed is returned when the external executor reported
	// or raised a failure.
	ErrorCodeExecutionFailed = "EXECUTION_FAILED"
	// ErrorCodeUnknownGrouping is returned when a session names a grouping
	// identifier that no grouping source provides.
	ErrorCodeUnknownGrouping = "UNKNOWN_GROUPING"
)

// Error is a structured error that can flow across the registry, dispatcher,
// and CLI without losing its machine-readable code.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	code := strings.TrimSpace(e.Code)
	msg := strings.TrimSpace(e.Message)
	switch {
	case code == "" && msg == "":
		return ErrorCodeExecutionFailed
	case code == "":
		return msg
	case msg == "":
		return code
	default:
		return fmt.Sprintf("%s: %s", code, msg)
	}
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError builds a structured error with the given code and formatted message.
func NewError(code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError builds a structured error around a cause. An empty message adopts
// the cause's text.
func WrapError(code string, cause error, message string) *Error {
	msg := strings.TrimSpace(message)
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Message: msg,
		Cause:   cause,
	}
}

// WithDetail attaches a key-value detail to the error and returns it.
func (e *Error) WithDetail(key string, value any) *Error {
	if e == nil {
		return nil
	}
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// ErrorCode returns the structured code carried by err, or "" when err is not
// a tool error.
func ErrorCode(err error) string {
	var toolErr *Error
	if errors.As(err, &toolErr) && toolErr != nil {
		return toolErr.Code
	}
	return ""
}
