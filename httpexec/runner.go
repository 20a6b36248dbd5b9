// Package httpexec talks to an HTTP module runner: the external runtime that
// actually performs module operations against a cloud provider. It supplies
// both collaborators the dispatch core needs: a ConnProvider that opens
// runner sessions and an Executor that runs operations inside them.
package httpexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skystack-labs/skystack"
)

const defaultTimeout = 2 * time.Minute

// Runner is an HTTP module-runner client. It implements both
// skystack.ConnProvider and skystack.Executor.
type Runner struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures a Runner.
type Option func(*Runner)

// WithToken sets a bearer token sent on every runner request.
func WithToken(token string) Option {
	return func(r *Runner) {
		r.token = token
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.client = sharedClientPool.client(timeout)
	}
}

// NewRunner creates a client for the module runner at baseURL.
func NewRunner(baseURL string, opts ...Option) (*Runner, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("httpexec: runner base URL is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("httpexec: invalid runner base URL: %w", err)
	}
	r := &Runner{
		baseURL: trimmed,
		client:  sharedClientPool.client(defaultTimeout),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// runnerSession is the execution handle: one negotiated session on the
// module runner, reused for every operation sharing a fingerprint.
type runnerSession struct {
	ID string `json:"session_id"`
}

// Open negotiates a runner session for the fingerprint. It implements
// skystack.ConnProvider.
func (r *Runner) Open(ctx context.Context, fp skystack.Fingerprint) (skystack.ExecHandle, error) {
	payload := map[string]string{
		"inventory": fp.Inventory,
		"runner":    fp.Runner,
		"region":    fp.Region,
	}
	var session runnerSession
	if err := r.do(ctx, http.MethodPost, "/v1/sessions", payload, &session); err != nil {
		return nil, fmt.Errorf("httpexec: open runner session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("httpexec: runner returned an empty session id")
	}
	return &runnerSession{ID: session.ID}, nil
}

// Close releases a runner session. It implements skystack.ConnProvider.
func (r *Runner) Close(ctx context.Context, handle skystack.ExecHandle) error {
	session, ok := handle.(*runnerSession)
	if !ok {
		return fmt.Errorf("httpexec: handle is not a runner session (got %T)", handle)
	}
	if err := r.do(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(session.ID), nil, nil); err != nil {
		return fmt.Errorf("httpexec: close runner session: %w", err)
	}
	return nil
}

// Run performs one module operation inside a runner session. It implements
// skystack.Executor.
func (r *Runner) Run(ctx context.Context, operation string, args skystack.InvocationArgs, handle skystack.ExecHandle) (map[string]any, error) {
	session, ok := handle.(*runnerSession)
	if !ok {
		return nil, fmt.Errorf("httpexec: handle is not a runner session (got %T)", handle)
	}
	payload := map[string]any{
		"session_id": session.ID,
		"args":       args.ToMap(),
	}
	var out map[string]any
	if err := r.do(ctx, http.MethodPost, "/v1/modules/"+url.PathEscape(operation), payload, &out); err != nil {
		return nil, fmt.Errorf("httpexec: run module %s: %w", operation, err)
	}
	return out, nil
}

// do performs one JSON request/response round trip against the runner.
func (r *Runner) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(string(respBody))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("runner returned status %d: %s", resp.StatusCode, message)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
