package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DeployAppInput represents the MCP tool input for deploying an app.
type DeployAppInput struct {
	AppPath     string `json:"app_path" jsonschema:"absolute path to the Modal application file (e.g. /home/user/my_app.py)"`
	Name        string `json:"name,omitempty" jsonschema:"optional name for the deployment"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment to deploy to"`
}

// DeployAppResult represents the MCP tool output for deploying an app.
type DeployAppResult struct {
	Output string `json:"output" jsonschema:"deployment output from the modal CLI"`
}

// RunAppInput represents the MCP tool input for a one-off app run.
type RunAppInput struct {
	AppPath     string `json:"app_path" jsonschema:"absolute path to the Modal application file"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// RunAppResult represents the MCP tool output for a one-off app run.
type RunAppResult struct {
	Output string `json:"output" jsonschema:"run output from the modal CLI"`
}

// ListAppsInput represents the MCP tool input for listing apps.
type ListAppsInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment to filter by"`
}

// ListAppsResult represents the MCP tool output for listing apps.
type ListAppsResult struct {
	Output string `json:"output" jsonschema:"deployed apps, one block per app"`
}

// StopAppInput represents the MCP tool input for stopping an app.
type StopAppInput struct {
	AppName     string `json:"app_name" jsonschema:"name of the app to stop"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// StopAppResult represents the MCP tool output for stopping an app.
type StopAppResult struct {
	Output string `json:"output" jsonschema:"stop output from the modal CLI"`
}

// AppLogsInput represents the MCP tool input for capturing app logs.
type AppLogsInput struct {
	AppNameOrID string `json:"app_name_or_id" jsonschema:"name or app ID (e.g. ap-xxxx) of the app"`
	Duration    int    `json:"duration,omitempty" jsonschema:"seconds of log stream to capture (default 10, max 60)"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// AppLogsResult represents the MCP tool output for capturing app logs.
type AppLogsResult struct {
	Output string `json:"output" jsonschema:"captured log lines"`
}

// DeployAppTool defines the MCP tool schema for deploying an app.
func DeployAppTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deploy_app",
		Description: "Deploy a Modal application from a Python file",
	}
}

// RunAppTool defines the MCP tool schema for a one-off app run.
func RunAppTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "run_app",
		Description: "Run a Modal application (one-off execution, not a persistent deployment)",
	}
}

// ListAppsTool defines the MCP tool schema for listing apps.
func ListAppsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_apps",
		Description: "List all deployed Modal apps",
	}
}

// StopAppTool defines the MCP tool schema for stopping an app.
func StopAppTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stop_app",
		Description: "Stop a deployed Modal app",
	}
}

// AppLogsTool defines the MCP tool schema for capturing app logs.
func AppLogsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "app_logs",
		Description: "Get recent logs for a deployed Modal app; streams are captured for a fixed duration then returned",
	}
}

// validateAppPath checks that a tool-supplied app path is absolute and
// points at an existing file before any CLI call spends time on it.
func validateAppPath(path string, requirePython bool) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("app_path must be absolute, got %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("app file not found: %s", path)
	}
	if requirePython && filepath.Ext(path) != ".py" {
		return "", fmt.Errorf("expected a .py file, got %q", filepath.Ext(path))
	}
	return path, nil
}

// DeployAppHandler executes an app deployment request.
func DeployAppHandler(runner Runner) mcp.ToolHandlerFor[DeployAppInput, DeployAppResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeployAppInput) (*mcp.CallToolResult, DeployAppResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, DeployAppResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		path, err := validateAppPath(input.AppPath, true)
		if err != nil {
			return nil, DeployAppResult{}, err
		}

		args := []string{"deploy", path}
		if input.Name != "" {
			args = append(args, "--name", input.Name)
		}
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIDeploy, args...)
		if err != nil {
			return nil, DeployAppResult{}, fmt.Errorf("deploy app: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), DeployAppResult{Output: out}, nil
	}
}

// RunAppHandler executes a one-off app run request.
func RunAppHandler(runner Runner) mcp.ToolHandlerFor[RunAppInput, RunAppResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunAppInput) (*mcp.CallToolResult, RunAppResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, RunAppResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		path, err := validateAppPath(input.AppPath, false)
		if err != nil {
			return nil, RunAppResult{}, err
		}

		args := appendEnvFlag([]string{"run", path}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIDeploy, args...)
		if err != nil {
			return nil, RunAppResult{}, fmt.Errorf("run app: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), RunAppResult{Output: out}, nil
	}
}

// ListAppsHandler executes an app listing request.
func ListAppsHandler(runner Runner) mcp.ToolHandlerFor[ListAppsInput, ListAppsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListAppsInput) (*mcp.CallToolResult, ListAppsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListAppsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		args := appendEnvFlag([]string{"app", "list"}, input.Environment)

		out, err := runner.RunJSON(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListAppsResult{}, fmt.Errorf("list apps: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListAppsResult{Output: out}, nil
	}
}

// StopAppHandler executes an app stop request.
func StopAppHandler(runner Runner) mcp.ToolHandlerFor[StopAppInput, StopAppResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StopAppInput) (*mcp.CallToolResult, StopAppResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, StopAppResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.AppName, "app_name")
		if err != nil {
			return nil, StopAppResult{}, err
		}

		args := appendEnvFlag([]string{"app", "stop", name}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, StopAppResult{}, fmt.Errorf("stop app: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), StopAppResult{Output: out}, nil
	}
}

// AppLogsHandler executes a bounded app log capture.
func AppLogsHandler(runner Runner) mcp.ToolHandlerFor[AppLogsInput, AppLogsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AppLogsInput) (*mcp.CallToolResult, AppLogsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, AppLogsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.AppNameOrID, "app_name_or_id")
		if err != nil {
			return nil, AppLogsResult{}, err
		}

		args := appendEnvFlag([]string{"app", "logs", name}, input.Environment)

		out, err := runner.Stream(ctx, time.Duration(input.Duration)*time.Second, args...)
		if err != nil {
			return nil, AppLogsResult{}, fmt.Errorf("app logs: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), AppLogsResult{Output: out}, nil
	}
}
