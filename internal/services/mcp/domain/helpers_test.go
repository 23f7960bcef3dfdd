package domain

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeRunner records CLI invocations and returns canned output.
type fakeRunner struct {
	output string
	err    error

	method  string
	timeout time.Duration
	args    []string
	calls   int
}

func (f *fakeRunner) record(method string, timeout time.Duration, args []string) {
	f.method = method
	f.timeout = timeout
	f.args = args
	f.calls++
}

func (f *fakeRunner) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	f.record("Run", timeout, args)
	return f.output, f.err
}

func (f *fakeRunner) RunJSON(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	f.record("RunJSON", timeout, args)
	return f.output, f.err
}

func (f *fakeRunner) Stream(ctx context.Context, window time.Duration, args ...string) (string, error) {
	f.record("Stream", window, args)
	return f.output, f.err
}

// fakeScriptRunner records driver script executions.
type fakeScriptRunner struct {
	stdout string
	stderr string
	err    error

	script  string
	timeout time.Duration
	calls   int
}

func (f *fakeScriptRunner) RunScript(ctx context.Context, timeout time.Duration, script string) (string, string, error) {
	f.script = script
	f.timeout = timeout
	f.calls++
	return f.stdout, f.stderr, f.err
}

func assertArgs(t *testing.T, runner *fakeRunner, method string, want ...string) {
	t.Helper()
	if runner.method != method {
		t.Fatalf("expected %s call, got %s", method, runner.method)
	}
	if !reflect.DeepEqual(runner.args, want) {
		t.Fatalf("expected args %v, got %v", want, runner.args)
	}
}

func assertInvocationMeta(t *testing.T, result *mcp.CallToolResult) {
	t.Helper()
	if result == nil {
		t.Fatal("expected call tool result with metadata")
	}
	value, ok := result.Meta[invocationIDMetaKey]
	if !ok {
		t.Fatal("expected invocation id in result metadata")
	}
	if id, _ := value.(string); id == "" {
		t.Fatal("expected non-empty invocation id")
	}
}
