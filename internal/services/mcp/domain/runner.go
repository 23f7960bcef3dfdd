package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Runner executes modal CLI commands on behalf of tool handlers.
type Runner interface {
	// Run executes a command and returns its cleaned output.
	Run(ctx context.Context, timeout time.Duration, args ...string) (string, error)
	// RunJSON executes a command with --json and reformats the payload.
	RunJSON(ctx context.Context, timeout time.Duration, args ...string) (string, error)
	// Stream captures a streaming command's output for a bounded window.
	Stream(ctx context.Context, window time.Duration, args ...string) (string, error)
}

// ScriptRunner executes Python driver scripts for sandbox tools, which need
// SDK surfaces the CLI does not expose.
type ScriptRunner interface {
	RunScript(ctx context.Context, timeout time.Duration, script string) (stdout, stderr string, err error)
}

// appendEnvFlag appends the --env flag when an environment is set.
func appendEnvFlag(args []string, environment string) []string {
	if strings.TrimSpace(environment) != "" {
		args = append(args, "--env", strings.TrimSpace(environment))
	}
	return args
}

// requiredField trims a field and fails when the result is empty.
func requiredField(value, name string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}
