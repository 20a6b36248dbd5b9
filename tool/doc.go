// Package tool defines the catalog contract for SkyStack automation tools.
//
// The package is intentionally split by concern:
//   - tool: immutable Definition and parameter schemas
//   - grouping: named, enumerable sets of definitions selectable by identifier
//   - registry: merge-without-collision registration and pure name lookup
//   - error: structured invocation/registration errors with machine codes
//
// Definitions are thin: each maps a normalized argument set onto a single
// external module operation. The dispatch core treats them as data.
package tool
