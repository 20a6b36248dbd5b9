package tool

import "slices"

// ParamSpec declares one parameter accepted by a tool.
type ParamSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string", "bool", "int", "map", "list", "any"
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// Definition describes a registered automation tool. It is immutable once
// registered: the registry and sessions hand out copies of the value, never
// pointers into shared state.
type Definition struct {
	// Name is the callable tool name, unique within a registry.
	Name string `json:"name"`
	// Category groups tools by service area, e.g. "aws_storage".
	Category string `json:"category"`
	// Description is display metadata.
	Description string `json:"description,omitempty"`
	// Operation is the external module-operation identifier the dispatcher
	// hands to the executor.
	Operation string `json:"operation"`
	// Params declares the accepted parameter schema. The normalizer injects
	// defaults for absent optional params and rejects missing required ones.
	Params []ParamSpec `json:"params,omitempty"`
}

// Param returns the spec for the named parameter.
func (d Definition) Param(name string) (ParamSpec, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// RequiredParams returns the names of required parameters in declaration order.
func (d Definition) RequiredParams() []string {
	var names []string
	for _, p := range d.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Grouping is a named, enumerable set of tool definitions, the unit of
// selection when opening an automation session.
type Grouping struct {
	// Name is the grouping identifier, e.g. "aws/storage".
	Name string `json:"name"`
	// Description is display metadata.
	Description string `json:"description,omitempty"`
	// Tools are the definitions this grouping contributes.
	Tools []Definition `json:"tools"`
}

// ToolNames returns the grouping's tool names in sorted order.
func (g Grouping) ToolNames() []string {
	names := make([]string, 0, len(g.Tools))
	for _, d := range g.Tools {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	return names
}
