package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing plan: %v", err)
	}
	return path
}

const dryRunPlan = `
session:
  tool_packages: [aws/storage]
  region: us-east-1
  dry_run: true
steps:
  - tool: s3_bucket
    args:
      name: artifacts
      versioning: true
`

// execute runs a command with captured output.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v is not an ExitError", err)
	}
	return exitErr.Code
}

func TestToolsCmdListsGroupings(t *testing.T) {
	out, err := execute(NewToolsCmd())
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	for _, want := range []string{"aws/storage", "aws/networking", "s3_bucket", "ec2_vpc_net"} {
		if !strings.Contains(out, want) {
			t.Errorf("tools output lacks %q", want)
		}
	}
	if strings.Contains(out, "(required)") {
		t.Error("params shown without --params")
	}
}

func TestToolsCmdSingleGroupingWithParams(t *testing.T) {
	out, err := execute(NewToolsCmd(), "--package", "aws/storage", "--params")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if strings.Contains(out, "aws/networking") {
		t.Error("--package did not restrict the output")
	}
	if !strings.Contains(out, "(required)") || !strings.Contains(out, "versioning") {
		t.Errorf("parameter schema missing from output:\n%s", out)
	}
}

func TestToolsCmdUnknownGrouping(t *testing.T) {
	_, err := execute(NewToolsCmd(), "--package", "aws/quantum")
	if code := exitCode(t, err); code != exitValidation {
		t.Errorf("exit code = %d, want %d", code, exitValidation)
	}
}

func TestValidateCmdAcceptsGoodPlan(t *testing.T) {
	out, err := execute(NewValidateCmd(), writePlan(t, "plan.yaml", dryRunPlan))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Plan is valid") {
		t.Errorf("validate output: %q", out)
	}
}

func TestValidateCmdExitCodes(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want int
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			want: exitFileNotFound,
		},
		{
			name: "unparseable file",
			path: func(t *testing.T) string { return writePlan(t, "plan.yaml", "steps: [broken") },
			want: exitInputParse,
		},
		{
			name: "invalid plan",
			path: func(t *testing.T) string {
				return writePlan(t, "plan.yaml", "session:\n  tool_packages: [aws/storage]\nsteps: [{tool: teleporter}]\n")
			},
			want: exitValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(NewValidateCmd(), tt.path(t))
			if err == nil {
				t.Fatal("validate accepted a bad plan")
			}
			if code := exitCode(t, err); code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRunCmdDryRunWithoutRunner(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.db")
	out, err := execute(NewRunCmd(),
		writePlan(t, "plan.yaml", dryRunPlan),
		"--history", historyPath,
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "planned (dry run)") {
		t.Errorf("run output: %q", out)
	}
	if _, statErr := os.Stat(historyPath); statErr != nil {
		t.Errorf("history store was not created: %v", statErr)
	}
}

func TestRunCmdJSONOutput(t *testing.T) {
	out, err := execute(NewRunCmd(),
		writePlan(t, "plan.yaml", dryRunPlan),
		"--format", "json",
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, `"status": "planned"`) || !strings.Contains(out, `"tool": "s3_bucket"`) {
		t.Errorf("json output: %q", out)
	}
}

func TestRunCmdRequiresRunnerForWetPlans(t *testing.T) {
	wet := strings.Replace(dryRunPlan, "dry_run: true", "dry_run: false", 1)
	_, err := execute(NewRunCmd(), writePlan(t, "plan.yaml", wet))
	if err == nil {
		t.Fatal("wet plan ran without a runner")
	}
	if code := exitCode(t, err); code != exitValidation {
		t.Errorf("exit code = %d, want %d", code, exitValidation)
	}
}

func TestRunCmdDryRunFlagOverridesPlan(t *testing.T) {
	wet := strings.Replace(dryRunPlan, "dry_run: true", "dry_run: false", 1)
	out, err := execute(NewRunCmd(), writePlan(t, "plan.yaml", wet), "--dry-run")
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	if !strings.Contains(out, "planned (dry run)") {
		t.Errorf("run output: %q", out)
	}
}

func TestParseCronExpressionUTC(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"every 15 minutes", "*/15 * * * *", false},
		{"daily at 03:00", "0 3 * * *", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"timezone prefix", "CRON_TZ=America/New_York 0 3 * * *", true},
		{"tz prefix", "TZ=UTC 0 3 * * *", true},
		{"too few fields", "* * *", true},
		{"garbage", "not a schedule", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := parseCronExpressionUTC(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseCronExpressionUTC(%q) accepted", tt.expr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCronExpressionUTC(%q): %v", tt.expr, err)
			}
			now := time.Date(2026, 3, 14, 9, 1, 0, 0, time.UTC)
			next := schedule.Next(now)
			if !next.After(now) {
				t.Errorf("Next(%v) = %v, not in the future", now, next)
			}
		})
	}
}

func TestCronScheduleNextIsUTC(t *testing.T) {
	schedule, err := parseCronExpressionUTC("0 3 * * *")
	if err != nil {
		t.Fatalf("parseCronExpressionUTC: %v", err)
	}
	now := time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)
	next := schedule.Next(now)
	want := time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestExitErrorFormatting(t *testing.T) {
	err := exitError(exitRuntime, "%d of %d step(s) failed", 2, 5)
	if err.Code != exitRuntime {
		t.Errorf("Code = %d, want %d", err.Code, exitRuntime)
	}
	if err.Error() != "2 of 5 step(s) failed" {
		t.Errorf("Error() = %q", err.Error())
	}
}
