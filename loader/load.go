// Package loader reads SkyStack plan files: a session block plus an ordered
// list of tool invocation steps, in JSON or YAML.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skystack-labs/skystack/tool"
)

// SessionSpec is the plan's session block, mirroring the session
// configuration surface the core recognizes.
type SessionSpec struct {
	ToolPackages []string          `json:"tool_packages" yaml:"tool_packages"`
	Tools        []string          `json:"tools,omitempty" yaml:"tools,omitempty"`
	DryRun       bool              `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Tags         map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Inventory    string            `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Runner       string            `json:"runner,omitempty" yaml:"runner,omitempty"`
	Region       string            `json:"region,omitempty" yaml:"region,omitempty"`
}

// Step is one tool invocation in a plan.
type Step struct {
	// Tool is the callable tool name.
	Tool string `json:"tool" yaml:"tool"`
	// Args are the keyword arguments for the invocation.
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
	// DryRun forces dry run for this step when true.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// Plan is a loaded plan file.
type Plan struct {
	Session SessionSpec `json:"session" yaml:"session"`
	Steps   []Step      `json:"steps" yaml:"steps"`
}

// Load reads, parses, and statically validates a plan file.
func Load(path string) (*Plan, error) {
	plan, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Parse reads and decodes a plan file without validating it, choosing the
// parse format from the file extension (.yaml/.yml as YAML, everything else
// as JSON).
func Parse(path string) (*Plan, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path from caller
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	var plan Plan
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("parsing YAML plan %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("parsing JSON plan %s: %w", path, err)
		}
	}
	return &plan, nil
}

// Validate statically checks the plan against the builtin groupings: the
// groupings must exist, every step must name a tool one of them provides,
// and required arguments declared by the tool must be present. Argument
// value errors are left to dispatch-time normalization.
func (p *Plan) Validate() error {
	var errs []error

	if len(p.Session.ToolPackages) == 0 {
		errs = append(errs, errors.New("plan: session.tool_packages must name at least one grouping"))
	}
	if len(p.Steps) == 0 {
		errs = append(errs, errors.New("plan: at least one step is required"))
	}

	registry := tool.NewRegistry()
	for _, pkg := range p.Session.ToolPackages {
		g, err := tool.LookupGrouping(pkg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := registry.Register(g); err != nil {
			errs = append(errs, err)
		}
	}
	if len(p.Session.Tools) > 0 {
		filtered, err := registry.Filter(p.Session.Tools)
		if err != nil {
			errs = append(errs, err)
		} else {
			registry = filtered
		}
	}

	for i, step := range p.Steps {
		if strings.TrimSpace(step.Tool) == "" {
			errs = append(errs, fmt.Errorf("plan: step %d is missing a tool name", i+1))
			continue
		}
		def, err := registry.Resolve(step.Tool)
		if err != nil {
			errs = append(errs, fmt.Errorf("plan: step %d: %w", i+1, err))
			continue
		}
		for _, required := range def.RequiredParams() {
			if _, ok := step.Args[required]; !ok {
				errs = append(errs, fmt.Errorf(
					"plan: step %d (%s) is missing required argument %q", i+1, step.Tool, required))
			}
		}
	}

	return errors.Join(errs...)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
