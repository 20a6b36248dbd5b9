package skystack

import (
	"regexp"
	"slices"
	"strings"

	"github.com/skystack-labs/skystack/tool"
)

// checkModeKey is the marker the module runner understands as "plan only".
const checkModeKey = "_check_mode"

var resourceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateResourceName reports whether name follows the common cloud resource
// naming rules: non-empty, at most 255 characters, alphanumerics plus hyphen
// and underscore. Individual services are stricter; this catches the errors
// worth failing before a network round trip.
func ValidateResourceName(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	return resourceNamePattern.MatchString(name)
}

// InvocationArgs is the canonical, normalized payload for one invocation.
// It is built fresh per call and never aliases the caller's maps.
type InvocationArgs struct {
	// Name is the resource identity, always present and validated.
	Name string
	// State is the desired resource state, defaulting to "present".
	State string
	// DryRun is the effective dry-run flag for this invocation.
	DryRun bool
	// Tags is the merged tag set: default tags overridden per key by the caller.
	Tags map[string]string
	// Fields holds the remaining tool-specific arguments.
	Fields map[string]any
}

// NormalizeArgs converts caller-supplied keyword arguments into canonical
// invocation arguments. The input map is copied, never mutated. Rules, in
// order: default state to "present", merge defaultTags under caller tags
// (caller wins per key), adopt the effective dry-run flag, and require a
// valid non-empty name.
func NormalizeArgs(base map[string]any, dryRun bool, defaultTags map[string]string) (InvocationArgs, error) {
	args := InvocationArgs{
		State:  "present",
		DryRun: dryRun,
		Tags:   make(map[string]string, len(defaultTags)),
		Fields: make(map[string]any, len(base)),
	}
	for k, v := range defaultTags {
		args.Tags[k] = v
	}

	for key, value := range base {
		switch key {
		case "name":
			s, ok := value.(string)
			if !ok {
				return InvocationArgs{}, tool.NewError(tool.ErrorCodeInvalidArguments,
					"name must be a string, got %T", value)
			}
			args.Name = s
		case "state":
			s, ok := value.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return InvocationArgs{}, tool.NewError(tool.ErrorCodeInvalidArguments,
					"state must be a non-empty string")
			}
			args.State = s
		case "tags":
			callerTags, err := coerceTags(value)
			if err != nil {
				return InvocationArgs{}, err
			}
			for k, v := range callerTags {
				args.Tags[k] = v
			}
		default:
			args.Fields[key] = copyValue(value)
		}
	}

	if args.Name == "" {
		return InvocationArgs{}, tool.NewError(tool.ErrorCodeInvalidArguments,
			"name is required and must be non-empty")
	}
	if !ValidateResourceName(args.Name) {
		return InvocationArgs{}, tool.NewError(tool.ErrorCodeInvalidArguments,
			"name %q is not a valid resource name", args.Name)
	}
	return args, nil
}

// ApplyDefinition injects declared parameter defaults for absent optional
// parameters and validates that every required parameter is present. The
// receiver's Fields map is owned by the invocation, so default injection
// mutates it in place.
func (a InvocationArgs) ApplyDefinition(def tool.Definition) (InvocationArgs, error) {
	var missing []string
	for _, p := range def.Params {
		if p.Name == "name" || p.Name == "state" || p.Name == "tags" {
			continue
		}
		_, present := a.Fields[p.Name]
		switch {
		case !present && p.Required:
			missing = append(missing, p.Name)
		case !present && p.Default != nil:
			a.Fields[p.Name] = p.Default
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return InvocationArgs{}, tool.NewError(tool.ErrorCodeInvalidArguments,
			"tool %q missing required arguments: %s", def.Name, strings.Join(missing, ", "))
	}
	return a, nil
}

// WithRegion sets the region field when the caller did not supply one.
func (a InvocationArgs) WithRegion(region string) InvocationArgs {
	if region == "" {
		return a
	}
	if _, ok := a.Fields["region"]; !ok {
		a.Fields["region"] = region
	}
	return a
}

// ToMap renders the canonical payload handed to the executor. Dry-run
// invocations carry the runner's check-mode marker.
func (a InvocationArgs) ToMap() map[string]any {
	out := make(map[string]any, len(a.Fields)+4)
	for k, v := range a.Fields {
		out[k] = copyValue(v)
	}
	out["name"] = a.Name
	out["state"] = a.State
	tags := make(map[string]string, len(a.Tags))
	for k, v := range a.Tags {
		tags[k] = v
	}
	out["tags"] = tags
	if a.DryRun {
		out[checkModeKey] = true
	}
	return out
}

func coerceTags(value any) (map[string]string, error) {
	switch t := value.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, v := range t {
			out[k] = v
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, v := range t {
			s, ok := v.(string)
			if !ok {
				return nil, tool.NewError(tool.ErrorCodeInvalidArguments,
					"tag %q must be a string, got %T", k, v)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, tool.NewError(tool.ErrorCodeInvalidArguments,
			"tags must be a string map, got %T", value)
	}
}

// copyValue deep-copies the map and slice shapes that survive YAML/JSON
// decoding, so normalized arguments never alias caller state.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
