package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/skystack-labs/skystack/loader"
)

// NewValidateCmd creates the "validate" subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan>",
		Short: "Validate a plan file without executing it",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Plan is valid: %d step(s) across %d grouping(s).\n",
		len(plan.Steps), len(plan.Session.ToolPackages))
	return nil
}

// loadPlan wraps loader parsing and validation with the CLI's exit-code
// mapping: missing files, unparseable files, and invalid plans each exit
// differently.
func loadPlan(path string) (*loader.Plan, error) {
	plan, err := loader.Parse(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, exitError(exitFileNotFound, "plan file not found: %s", path)
		}
		return nil, exitError(exitInputParse, "loading plan: %v", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, exitError(exitValidation, "invalid plan: %v", err)
	}
	return plan, nil
}
