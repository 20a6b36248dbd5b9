package tool

import (
	"slices"
	"sync"
)

// Registry maps tool names to definitions. Registration merges whole
// groupings; a name collision fails the entire grouping and leaves the
// registry unchanged, so operator errors across categories surface instead of
// one grouping silently shadowing another.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Definition),
	}
}

// Register merges a grouping into the registry, all-or-nothing. A collision
// with an already-registered name (or a duplicate within the grouping itself)
// returns a DUPLICATE_TOOL error naming the offender, and no definition from
// the grouping is registered.
func (r *Registry) Register(g Grouping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(g.Tools))
	for _, d := range g.Tools {
		if _, dup := seen[d.Name]; dup {
			return NewError(ErrorCodeDuplicateTool,
				"tool %q declared twice in grouping %q", d.Name, g.Name)
		}
		if _, exists := r.tools[d.Name]; exists {
			return NewError(ErrorCodeDuplicateTool,
				"tool %q in grouping %q is already registered", d.Name, g.Name).
				WithDetail("grouping", g.Name)
		}
		seen[d.Name] = struct{}{}
	}

	for _, d := range g.Tools {
		r.tools[d.Name] = d
	}
	return nil
}

// Resolve looks up a definition by name. It has no side effects and fails
// with UNKNOWN_TOOL when the name is not registered.
func (r *Registry) Resolve(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	if !ok {
		return Definition{}, NewError(ErrorCodeUnknownTool, "tool %q is not registered", name)
	}
	return d, nil
}

// Has reports whether the name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Filter returns a new registry restricted to the named tools. Names absent
// from the registry fail with UNKNOWN_TOOL so an allow-list typo is caught at
// session construction, not first dispatch.
func (r *Registry) Filter(names []string) (*Registry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := NewRegistry()
	for _, name := range names {
		d, ok := r.tools[name]
		if !ok {
			return nil, NewError(ErrorCodeUnknownTool, "tool %q is not registered", name)
		}
		filtered.tools[name] = d
	}
	return filtered, nil
}
