package skystack

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/skystack-labs/skystack/history"
	"github.com/skystack-labs/skystack/tool"
)

// recordingExecutor captures every Run call and serves a canned response.
type recordingExecutor struct {
	mu     sync.Mutex
	calls  []string
	output map[string]any
	err    error
	panics bool
}

func (e *recordingExecutor) Run(_ context.Context, operation string, _ InvocationArgs, _ ExecHandle) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, operation)
	if e.panics {
		panic("executor blew up")
	}
	if e.err != nil {
		return nil, e.err
	}
	if e.output != nil {
		return e.output, nil
	}
	return map[string]any{"changed": true}, nil
}

func (e *recordingExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func testConfig(exec Executor, provider ConnProvider) Config {
	return Config{
		ToolPackages: []string{"aws/storage"},
		Inventory:    "localhost",
		Runner:       "faster_than_light",
		Region:       "us-east-1",
		Provider:     provider,
		Executor:     exec,
	}
}

func TestOpenRequiresExecutorProviderAndPackages(t *testing.T) {
	exec := &recordingExecutor{}
	provider := newCountingProvider()

	cfg := testConfig(exec, provider)
	cfg.Executor = nil
	if _, err := Open(cfg); err == nil {
		t.Error("Open accepted a nil Executor")
	}

	cfg = testConfig(exec, provider)
	cfg.Provider = nil
	if _, err := Open(cfg); err == nil {
		t.Error("Open accepted a nil ConnProvider")
	}

	cfg = testConfig(exec, provider)
	cfg.ToolPackages = nil
	if _, err := Open(cfg); err == nil {
		t.Error("Open accepted an empty tool package list")
	}
}

func TestOpenRejectsUnknownGrouping(t *testing.T) {
	cfg := testConfig(&recordingExecutor{}, newCountingProvider())
	cfg.ToolPackages = []string{"aws/storage", "aws/quantum"}
	_, err := Open(cfg)
	if tool.ErrorCode(err) != tool.ErrorCodeUnknownGrouping {
		t.Fatalf("error code = %q, want %q", tool.ErrorCode(err), tool.ErrorCodeUnknownGrouping)
	}
}

func TestSessionToolAllowList(t *testing.T) {
	cfg := testConfig(&recordingExecutor{}, newCountingProvider())
	cfg.ToolPackages = []string{"aws/networking", "aws/storage"}
	cfg.Tools = []string{"s3_bucket", "ec2_vpc_net"}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	want := []string{"ec2_vpc_net", "s3_bucket"}
	if got := s.Tools(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tools() = %v, want %v", got, want)
	}

	res := s.Call(context.Background(), "ec2_vpc_subnet", map[string]any{"name": "a", "cidr": "10.0.0.0/24", "vpc_id": "vpc-1"})
	if res.OK() || res.Failure.Kind != tool.ErrorCodeUnknownTool {
		t.Errorf("filtered tool dispatched: %+v", res)
	}
}

func TestCallMissingRequiredArguments(t *testing.T) {
	exec := &recordingExecutor{}
	s, err := Open(testConfig(exec, newCountingProvider()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	res := s.Call(context.Background(), "s3_bucket", map[string]any{})
	if res.OK() {
		t.Fatalf("empty arguments succeeded: %+v", res)
	}
	if res.Failure.Kind != tool.ErrorCodeInvalidArguments {
		t.Errorf("failure kind = %q, want %q", res.Failure.Kind, tool.ErrorCodeInvalidArguments)
	}
	if exec.callCount() != 0 {
		t.Errorf("executor ran %d times for invalid arguments", exec.callCount())
	}
}

func TestCallUnknownTool(t *testing.T) {
	s, err := Open(testConfig(&recordingExecutor{}, newCountingProvider()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	res := s.Call(context.Background(), "teleporter", map[string]any{"name": "x"})
	if res.OK() || res.Failure.Kind != tool.ErrorCodeUnknownTool {
		t.Fatalf("unknown tool result: %+v", res)
	}
}

func TestDryRunSessionPlansWithoutExecuting(t *testing.T) {
	exec := &recordingExecutor{}
	provider := newCountingProvider()
	cfg := testConfig(exec, provider)
	cfg.DryRun = true
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	res := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if !res.OK() || res.Status != StatusPlanned || !res.Planned {
		t.Fatalf("dry-run result: %+v", res)
	}
	if exec.callCount() != 0 {
		t.Errorf("executor ran during dry run")
	}
	provider.mu.Lock()
	touched := len(provider.opens) != 0 || provider.closes != 0
	provider.mu.Unlock()
	if touched {
		t.Errorf("connection provider touched during dry run: %+v", provider.opens)
	}

	planned, ok := res.Output["planned"].(map[string]any)
	if !ok {
		t.Fatalf("planned payload is %T", res.Output["planned"])
	}
	if planned["state"] != "present" {
		t.Errorf("planned state = %v, want present", planned["state"])
	}
	if planned[checkModeKey] != true {
		t.Error("planned payload is missing the check-mode marker")
	}
	tags, ok := planned["tags"].(map[string]string)
	if !ok {
		t.Fatalf("planned tags are %T", planned["tags"])
	}
	if tags["ManagedBy"] != "SkyStack-Automation" {
		t.Errorf("planned tags = %v, want default tags merged in", tags)
	}
}

func TestDryRunIsDeterministic(t *testing.T) {
	cfg := testConfig(&recordingExecutor{}, newCountingProvider())
	cfg.DryRun = true
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	kwargs := map[string]any{"name": "artifacts", "versioning": true, "tags": map[string]string{"Env": "prod"}}
	first := s.Call(context.Background(), "s3_bucket", kwargs)
	second := s.Call(context.Background(), "s3_bucket", kwargs)
	if !first.OK() || !second.OK() {
		t.Fatalf("dry-run calls failed: %+v / %+v", first.Failure, second.Failure)
	}

	a, err := json.Marshal(first.Output)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	b, err := json.Marshal(second.Output)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("planned outputs differ:\n%s\n%s", a, b)
	}
}

func TestCallDryRunOverridesWetSession(t *testing.T) {
	exec := &recordingExecutor{}
	s, err := Open(testConfig(exec, newCountingProvider()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	res := s.CallDryRun(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if res.Status != StatusPlanned {
		t.Fatalf("CallDryRun status = %q, want planned", res.Status)
	}
	if exec.callCount() != 0 {
		t.Error("executor ran for a per-call dry run")
	}

	// The session default is untouched.
	wet := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if wet.Status != StatusSuccess {
		t.Fatalf("Call after CallDryRun: %+v", wet)
	}
	if exec.callCount() != 1 {
		t.Errorf("executor ran %d times, want 1", exec.callCount())
	}
}

func TestExecutorFailureKeepsSessionUsable(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("AccessDenied: not authorized")}
	s, err := Open(testConfig(exec, newCountingProvider()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	res := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if res.OK() {
		t.Fatalf("failing executor reported success: %+v", res)
	}
	if res.Failure.Kind != tool.ErrorCodeExecutionFailed {
		t.Errorf("failure kind = %q, want %q", res.Failure.Kind, tool.ErrorCodeExecutionFailed)
	}

	exec.mu.Lock()
	exec.err = nil
	exec.mu.Unlock()

	res = s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if !res.OK() {
		t.Fatalf("session unusable after an executor failure: %+v", res.Failure)
	}
}

func TestExecutorPanicBecomesFailedResult(t *testing.T) {
	exec := &recordingExecutor{panics: true}
	s, err := Open(testConfig(exec, newCountingProvider()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	res := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if res.OK() || res.Failure.Kind != tool.ErrorCodeExecutionFailed {
		t.Fatalf("panic result: %+v", res)
	}
}

func TestConcurrentCallsShareOneHandle(t *testing.T) {
	exec := &recordingExecutor{}
	provider := newCountingProvider()
	s, err := Open(testConfig(exec, provider))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	const calls = 3
	var wg sync.WaitGroup
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
			if !res.OK() {
				t.Errorf("Call: %+v", res.Failure)
			}
		}()
	}
	wg.Wait()

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	fp := Fingerprint{Inventory: "localhost", Runner: "faster_than_light", Region: "us-east-1"}
	if got := provider.openCount(fp); got != 1 {
		t.Errorf("provider opened %d times, want 1", got)
	}
	if got := provider.closeCount(); got != 1 {
		t.Errorf("provider closed %d times, want 1", got)
	}
	if exec.callCount() != calls {
		t.Errorf("executor ran %d times, want %d", exec.callCount(), calls)
	}
}

func TestCallAfterClose(t *testing.T) {
	s, err := Open(testConfig(&recordingExecutor{}, newCountingProvider()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	res := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if res.OK() {
		t.Fatalf("Call on closed session succeeded: %+v", res)
	}
	if res.Failure.Kind != tool.ErrorCodeExecutionFailed {
		t.Errorf("failure kind = %q", res.Failure.Kind)
	}
}

func TestSessionEventsAndHistory(t *testing.T) {
	store := history.NewMemoryStore()
	var mu sync.Mutex
	var kinds []EventKind
	cfg := testConfig(&recordingExecutor{}, newCountingProvider())
	cfg.History = store
	cfg.Handler = func(e Event) {
		mu.Lock()
		kinds = append(kinds, e.Kind)
		mu.Unlock()
	}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ok := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if !ok.OK() {
		t.Fatalf("Call: %+v", ok.Failure)
	}
	bad := s.Call(context.Background(), "s3_bucket", map[string]any{})
	if bad.OK() {
		t.Fatal("invalid call succeeded")
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := []EventKind{
		EventSessionOpened,
		EventInvokeStarted,
		EventGateOpened,
		EventInvokeFinished,
		EventInvokeStarted,
		EventInvokeFailed,
		EventSessionClosed,
	}
	mu.Lock()
	got := append([]EventKind(nil), kinds...)
	mu.Unlock()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("event kinds = %v, want %v", got, want)
	}

	recs, err := store.BySession(context.Background(), s.ID())
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("history has %d records, want 2", len(recs))
	}
	statuses := map[string]bool{}
	for _, r := range recs {
		statuses[r.Status] = true
		if r.SessionID != s.ID() || r.Tool != "s3_bucket" {
			t.Errorf("record identity wrong: %+v", r)
		}
	}
	if !statuses["success"] || !statuses["failed"] {
		t.Errorf("recorded statuses = %v", statuses)
	}
}

func TestSessionInjectsRegionAndDefinitionDefaults(t *testing.T) {
	var captured InvocationArgs
	exec := ExecutorFunc(func(_ context.Context, _ string, args InvocationArgs, _ ExecHandle) (map[string]any, error) {
		captured = args
		return map[string]any{"changed": true}, nil
	})
	s, err := Open(testConfig(exec, newCountingProvider()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	res := s.Call(context.Background(), "s3_bucket", map[string]any{"name": "artifacts"})
	if !res.OK() {
		t.Fatalf("Call: %+v", res.Failure)
	}
	if captured.Fields["region"] != "us-east-1" {
		t.Errorf("region = %v, want session region injected", captured.Fields["region"])
	}
	if captured.Fields["purge_tags"] != true {
		t.Errorf("purge_tags = %v, want definition default", captured.Fields["purge_tags"])
	}
}
