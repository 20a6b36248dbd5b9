package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skystack-labs/skystack/tool"
)

// NewToolsCmd creates the "tools" subcommand.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List tool groupings and the tools they provide",
		RunE:  runTools,
	}

	cmd.Flags().StringP("package", "p", "", "Show only the named grouping")
	cmd.Flags().Bool("params", false, "Include parameter schemas")

	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	showParams, _ := cmd.Flags().GetBool("params")

	names := tool.GroupingNames()
	if pkg != "" {
		names = []string{pkg}
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		g, err := tool.LookupGrouping(name)
		if err != nil {
			return exitError(exitValidation, "%v", err)
		}
		fmt.Fprintf(out, "%s - %s\n", g.Name, g.Description)
		for _, d := range g.Tools {
			fmt.Fprintf(out, "  %-28s %s\n", d.Name, d.Description)
			if !showParams {
				continue
			}
			for _, p := range d.Params {
				required := ""
				if p.Required {
					required = " (required)"
				}
				fmt.Fprintf(out, "      %-26s %s%s\n", p.Name, p.Type, required)
			}
		}
	}
	return nil
}
