// Package modalcli shells out to the modal CLI and normalizes its output.
//
// The CLI is the downstream boundary for every MCP tool: authentication,
// resource lifecycle, and sandbox orchestration all happen on Modal's side.
// This package only builds argv, runs the binary with a bounded context,
// and cleans the text that comes back.
package modalcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/modal-mcp/internal/platform/modalcli"

// notFoundHint is returned when the modal binary cannot be executed.
const notFoundHint = "modal CLI not found; install with: pip install modal && python3 -m modal setup"

// Options configures a Client.
type Options struct {
	// Binary is the modal executable name or path. Defaults to "modal".
	Binary string
	// Python is the interpreter used for sandbox driver scripts.
	// Defaults to "python3".
	Python string
	// TokenID and TokenSecret are Modal credentials. When set they are
	// placed in the child environment; otherwise the CLI reads whatever
	// the parent process environment carries.
	TokenID     string
	TokenSecret string
}

// Client runs modal CLI commands with a normalized child environment.
type Client struct {
	bin    string
	python string
	env    []string
	tracer trace.Tracer
}

// New resolves the modal binary once and returns a ready Client.
// Resolution failures are deferred to the first Run so startup works in
// environments where the CLI is installed later (e.g. container builds).
func New(opts Options) *Client {
	bin := strings.TrimSpace(opts.Binary)
	if bin == "" {
		bin = "modal"
	}
	if resolved, err := exec.LookPath(bin); err == nil {
		bin = resolved
	}

	python := strings.TrimSpace(opts.Python)
	if python == "" {
		python = "python3"
	}
	if resolved, err := exec.LookPath(python); err == nil {
		python = resolved
	}

	// TERM/NO_COLOR/COLUMNS keep rich terminal output out of tool results.
	env := append(os.Environ(),
		"TERM=dumb",
		"NO_COLOR=1",
		"COLUMNS=200",
	)
	if opts.TokenID != "" {
		env = append(env, "MODAL_TOKEN_ID="+opts.TokenID)
	}
	if opts.TokenSecret != "" {
		env = append(env, "MODAL_TOKEN_SECRET="+opts.TokenSecret)
	}

	return &Client{
		bin:    bin,
		python: python,
		env:    env,
		tracer: otel.Tracer(tracerName),
	}
}

// Run executes a modal CLI command and returns its cleaned output.
// On success the trimmed stdout is returned, falling back to cleaned stderr
// or "OK" when the command prints nothing. Failures return an error carrying
// the cleaned stderr or the exit code.
func (c *Client) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runCtx, span := c.startSpan(runCtx, args)
	defer span.End()

	cmd := exec.CommandContext(runCtx, c.bin, args...)
	cmd.Env = c.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	cleanErr := StripDecor(strings.TrimSpace(stderr.String()))

	if err == nil {
		if out != "" {
			return out, nil
		}
		if cleanErr != "" {
			return cleanErr, nil
		}
		return "OK", nil
	}

	span.SetStatus(codes.Error, err.Error())

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command timed out after %s", timeout)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return "", errors.New(notFoundHint)
	}
	if cleanErr != "" {
		return "", errors.New(cleanErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", fmt.Errorf("command failed (exit %d)", exitErr.ExitCode())
	}
	return "", err
}

// RunJSON executes a modal CLI command with --json appended and reformats
// the JSON payload into readable key/value lines.
func (c *Client) RunJSON(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	out, err := c.Run(ctx, timeout, append(args, "--json")...)
	if err != nil {
		return "", err
	}
	return FormatJSON(out), nil
}

// Stream runs a streaming command (log tails) and captures output for a
// bounded window. The window is clamped, the process is killed at the
// deadline, and whatever was captured up to that point is returned.
func (c *Client) Stream(ctx context.Context, window time.Duration, args ...string) (string, error) {
	window = ClampStreamWindow(window)

	runCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	runCtx, span := c.startSpan(runCtx, args)
	defer span.End()

	cmd := exec.CommandContext(runCtx, c.bin, args...)
	cmd.Env = c.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && !errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			span.SetStatus(codes.Error, err.Error())
			return "", errors.New(notFoundHint)
		}
	}

	out := StripDecor(stdout.String())
	cleanErr := StripDecor(stderr.String())

	if cleanErr != "" && out == "" {
		span.SetStatus(codes.Error, cleanErr)
		return "", errors.New(cleanErr)
	}
	if out == "" {
		return fmt.Sprintf("No output captured in %ds.", int(window.Seconds())), nil
	}

	out = TruncateStream(out)
	return fmt.Sprintf("%s\n\n(Captured %ds of log stream)", out, int(window.Seconds())), nil
}

// RunScript writes a Python driver script to a temp file and executes it
// with the configured interpreter. Sandbox tools use this to reach SDK
// surfaces the CLI does not expose. The timeout should already include
// headroom beyond the sandbox's own limit.
func (c *Client) RunScript(ctx context.Context, timeout time.Duration, script string) (stdout, stderr string, err error) {
	tmp, err := os.CreateTemp("", "modal-sandbox-*.py")
	if err != nil {
		return "", "", fmt.Errorf("create driver script: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("write driver script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("close driver script: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runCtx, span := c.tracer.Start(runCtx, "modal.sandbox")
	defer span.End()

	cmd := exec.CommandContext(runCtx, c.python, tmp.Name())
	cmd.Env = c.env

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		span.SetStatus(codes.Error, "sandbox timed out")
		return "", "", fmt.Errorf("sandbox timed out after %s", timeout)
	}
	if runErr != nil && outBuf.Len() == 0 {
		span.SetStatus(codes.Error, runErr.Error())
		if msg := StripDecor(strings.TrimSpace(errBuf.String())); msg != "" {
			return "", "", errors.New(msg)
		}
		return "", "", fmt.Errorf("run driver script: %w", runErr)
	}

	return outBuf.String(), StripDecor(strings.TrimSpace(errBuf.String())), nil
}

func (c *Client) startSpan(ctx context.Context, args []string) (context.Context, trace.Span) {
	name := "modal"
	if len(args) > 0 {
		name = "modal." + args[0]
	}
	return c.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("modal.argv", strings.Join(args, " ")),
	))
}
