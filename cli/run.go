package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"

	"github.com/skystack-labs/skystack"
	"github.com/skystack-labs/skystack/history"
	"github.com/skystack-labs/skystack/httpexec"
	"github.com/skystack-labs/skystack/loader"
	skyotel "github.com/skystack-labs/skystack/otel"
)

// NewRunCmd creates the "run" subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <plan>",
		Short: "Execute a plan file against a module runner",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}

	cmd.Flags().String("runner-url", "", "Base URL of the HTTP module runner")
	cmd.Flags().String("runner-token", "", "Bearer token for the module runner")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Per-operation timeout")
	cmd.Flags().Bool("dry-run", false, "Force dry run for every step")
	cmd.Flags().String("history", "", "Path to SQLite history store (empty: no history)")
	cmd.Flags().String("format", "text", "Output format: json | text")
	cmd.Flags().String("otel-endpoint", "", "OTLP/HTTP trace endpoint (empty: tracing disabled)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	forceDry, _ := cmd.Flags().GetBool("dry-run")
	dryRun := forceDry || plan.Session.DryRun

	provider, executor, err := resolveRunner(cmd, dryRun)
	if err != nil {
		return err
	}

	store, err := resolveHistory(cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			_ = store.Close()
		}()
	}

	shutdownTracing, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	handler, err := buildEventHandler()
	if err != nil {
		return exitError(exitRuntime, "initializing observability: %v", err)
	}

	session, err := skystack.Open(skystack.Config{
		ToolPackages: plan.Session.ToolPackages,
		Tools:        plan.Session.Tools,
		DryRun:       dryRun,
		DefaultTags:  sessionTags(plan),
		Inventory:    plan.Session.Inventory,
		Runner:       plan.Session.Runner,
		Region:       plan.Session.Region,
		Provider:     provider,
		Executor:     executor,
		Handler:      handler,
		History:      store,
		Logger:       slog.Default(),
	})
	if err != nil {
		return exitError(exitValidation, "opening session: %v", err)
	}
	defer func() {
		_ = session.Close(context.Background())
	}()

	format, _ := cmd.Flags().GetString("format")
	failures := 0
	for i, step := range plan.Steps {
		var res skystack.Result
		if step.DryRun {
			res = session.CallDryRun(cmd.Context(), step.Tool, step.Args)
		} else {
			res = session.Call(cmd.Context(), step.Tool, step.Args)
		}
		if !res.OK() {
			failures++
		}
		if err := printResult(cmd, format, i+1, res); err != nil {
			return err
		}
	}

	if err := session.Close(cmd.Context()); err != nil {
		return exitError(exitRuntime, "closing session: %v", err)
	}
	if failures > 0 {
		return exitError(exitRuntime, "%d of %d step(s) failed", failures, len(plan.Steps))
	}
	return nil
}

// resolveRunner builds the module-runner collaborators. Without a runner URL
// only dry-run plans can proceed.
func resolveRunner(cmd *cobra.Command, dryRun bool) (skystack.ConnProvider, skystack.Executor, error) {
	runnerURL, _ := cmd.Flags().GetString("runner-url")
	if runnerURL == "" {
		if !dryRun {
			return nil, nil, exitError(exitValidation,
				"--runner-url is required unless the plan runs dry")
		}
		p := unreachableRunner{}
		return p, p, nil
	}

	token, _ := cmd.Flags().GetString("runner-token")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	runner, err := httpexec.NewRunner(runnerURL,
		httpexec.WithToken(token),
		httpexec.WithTimeout(timeout),
	)
	if err != nil {
		return nil, nil, exitError(exitValidation, "%v", err)
	}
	return runner, runner, nil
}

func resolveHistory(cmd *cobra.Command) (history.Store, error) {
	path, _ := cmd.Flags().GetString("history")
	if path == "" {
		return nil, nil
	}
	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return nil, exitError(exitRuntime, "opening history store: %v", err)
	}
	return store, nil
}

// buildEventHandler wires the otel handlers into the session event stream.
func buildEventHandler() (skystack.EventHandler, error) {
	metrics, err := skyotel.NewMetricsHandler(otelapi.GetMeterProvider().Meter("skystack"))
	if err != nil {
		return nil, err
	}
	tracing := skyotel.NewTracingHandler(otelapi.GetTracerProvider().Tracer("skystack"))
	return skystack.MultiEventHandler(metrics.Handle, tracing.Handle), nil
}

func sessionTags(plan *loader.Plan) map[string]string {
	if len(plan.Session.Tags) == 0 {
		return nil
	}
	tags := skystack.DefaultTags()
	for k, v := range plan.Session.Tags {
		tags[k] = v
	}
	return tags
}

func printResult(cmd *cobra.Command, format string, step int, res skystack.Result) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		encoded, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return exitError(exitRuntime, "encoding result: %v", err)
		}
		fmt.Fprintln(out, string(encoded))
	default:
		status := string(res.Status)
		if res.Planned {
			status = "planned (dry run)"
		}
		fmt.Fprintf(out, "step %d: %s %s", step, res.Tool, status)
		if res.Failure != nil {
			fmt.Fprintf(out, " [%s] %s", res.Failure.Kind, res.Failure.Message)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// unreachableRunner satisfies the collaborator interfaces for dry-run-only
// sessions; any attempt to actually connect is a configuration error.
type unreachableRunner struct{}

func (unreachableRunner) Open(context.Context, skystack.Fingerprint) (skystack.ExecHandle, error) {
	return nil, fmt.Errorf("no module runner configured (set --runner-url)")
}

func (unreachableRunner) Close(context.Context, skystack.ExecHandle) error {
	return nil
}

func (unreachableRunner) Run(context.Context, string, skystack.InvocationArgs, skystack.ExecHandle) (map[string]any, error) {
	return nil, fmt.Errorf("no module runner configured (set --runner-url)")
}
