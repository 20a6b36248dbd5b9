// Package skystack implements the dispatch core of the SkyStack
// infrastructure-automation engine.
//
// A caller opens a Session scoped to one or more tool groupings, then invokes
// tools by name with keyword-style arguments. The session owns the registry
// view, the gate cache that amortizes connection setup across invocations, and
// the session-wide dry-run default. Each invocation is normalized, executed
// against a cached execution handle, and returned as a discriminated Result.
//
// The package is intentionally split by concern:
//   - tool: definitions, groupings, registry, structured errors
//   - loader: plan and session configuration files
//   - history: invocation history stores
//   - httpexec: HTTP module-runner executor and connection provider
//   - otel: OpenTelemetry handlers for the session event stream
package skystack

// DefaultTags returns the process-default resource tags applied to every
// invocation unless overridden per key by the caller. The returned map is a
// fresh copy; mutating it does not affect later calls.
func DefaultTags() map[string]string {
	return map[string]string{
		"ManagedBy": "SkyStack-Automation",
		"CreatedBy": "skystack-tools",
	}
}
