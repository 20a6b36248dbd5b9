package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var standardCronParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow,
)

// NewWatchCmd creates the "watch" subcommand: re-run a plan on a cron
// schedule, typically a dry-run plan used for drift checks.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <plan>",
		Short: "Re-run a plan on a UTC cron schedule",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}

	cmd.Flags().String("schedule", "", "UTC cron expression, e.g. \"*/15 * * * *\"")
	cmd.Flags().String("runner-url", "", "Base URL of the HTTP module runner")
	cmd.Flags().String("runner-token", "", "Bearer token for the module runner")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Per-operation timeout")
	cmd.Flags().Bool("dry-run", false, "Force dry run for every step")
	cmd.Flags().String("history", "", "Path to SQLite history store (empty: no history)")
	cmd.Flags().String("format", "text", "Output format: json | text")
	cmd.Flags().String("otel-endpoint", "", "OTLP/HTTP trace endpoint (empty: tracing disabled)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	expr, _ := cmd.Flags().GetString("schedule")
	schedule, err := parseCronExpressionUTC(expr)
	if err != nil {
		return exitError(exitValidation, "%v", err)
	}

	// Validate the plan once up front so schedule misfires surface
	// immediately, not at 3am.
	if _, err := loadPlan(args[0]); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		now := time.Now().UTC()
		next := schedule.Next(now)
		fmt.Fprintf(out, "next run at %s\n", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-cmd.Context().Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if err := runRun(cmd, args); err != nil {
			// Keep watching through failed runs; the failure is already
			// printed and recorded.
			fmt.Fprintf(cmd.ErrOrStderr(), "run failed: %v\n", err)
		}
	}
}

func parseCronExpressionUTC(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, fmt.Errorf("--schedule is required")
	}

	upper := strings.ToUpper(clean)
	if strings.Contains(upper, "CRON_TZ=") || strings.Contains(upper, "TZ=") {
		return nil, fmt.Errorf("cron expression must be UTC-only (timezone prefixes are not allowed)")
	}

	schedule, err := standardCronParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule, nil
}
