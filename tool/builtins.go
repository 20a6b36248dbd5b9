package tool

import (
	"slices"
	"sync"
)

var (
	groupingsOnce sync.Once
	groupingIndex map[string]Grouping
)

// groupings initializes the builtin grouping index on first use.
func groupings() map[string]Grouping {
	groupingsOnce.Do(func() {
		groupingIndex = make(map[string]Grouping)
		for _, g := range []Grouping{
			computeGrouping(),
			storageGrouping(),
			networkingGrouping(),
			databaseGrouping(),
			securityGrouping(),
			monitoringGrouping(),
		} {
			groupingIndex[g.Name] = g
		}
	})
	return groupingIndex
}

// GroupingNames returns the identifiers of all builtin groupings in sorted order.
func GroupingNames() []string {
	idx := groupings()
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupGrouping resolves a grouping identifier, failing with UNKNOWN_GROUPING
// for identifiers no grouping source provides.
func LookupGrouping(id string) (Grouping, error) {
	g, ok := groupings()[id]
	if !ok {
		return Grouping{}, NewError(ErrorCodeUnknownGrouping, "no tool grouping named %q", id)
	}
	return g, nil
}
