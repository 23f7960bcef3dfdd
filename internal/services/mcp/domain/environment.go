package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// environmentDeleteSafetyMessage is returned when delete_environment lacks
// confirmation. Environments cascade, so the message calls that out.
const environmentDeleteSafetyMessage = "Safety check: set confirm=true to actually delete the environment. All resources in it will be deleted."

// ListEnvironmentsInput represents the MCP tool input for listing environments.
type ListEnvironmentsInput struct{}

// ListEnvironmentsResult represents the MCP tool output for listing environments.
type ListEnvironmentsResult struct {
	Output string `json:"output" jsonschema:"environments in the current workspace"`
}

// CreateEnvironmentInput represents the MCP tool input for creating an environment.
type CreateEnvironmentInput struct {
	EnvName string `json:"env_name" jsonschema:"name for the new environment (e.g. staging, production)"`
}

// CreateEnvironmentResult represents the MCP tool output for creating an environment.
type CreateEnvironmentResult struct {
	Output string `json:"output" jsonschema:"creation output from the modal CLI"`
}

// DeleteEnvironmentInput represents the MCP tool input for deleting an environment.
type DeleteEnvironmentInput struct {
	EnvName string `json:"env_name" jsonschema:"name of the environment to delete"`
	Confirm bool   `json:"confirm,omitempty" jsonschema:"must be true to actually delete (safety check)"`
}

// DeleteEnvironmentResult represents the MCP tool output for deleting an environment.
type DeleteEnvironmentResult struct {
	Output string `json:"output" jsonschema:"deletion output or the safety-check message"`
}

// ListEnvironmentsTool defines the MCP tool schema for listing environments.
func ListEnvironmentsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_environments",
		Description: "List all Modal environments in the current workspace",
	}
}

// CreateEnvironmentTool defines the MCP tool schema for creating an environment.
func CreateEnvironmentTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_environment",
		Description: "Create a new Modal environment",
	}
}

// DeleteEnvironmentTool defines the MCP tool schema for deleting an environment.
func DeleteEnvironmentTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_environment",
		Description: "Delete a Modal environment. Requires confirm=true",
	}
}

// ListEnvironmentsHandler executes an environment listing request.
func ListEnvironmentsHandler(runner Runner) mcp.ToolHandlerFor[ListEnvironmentsInput, ListEnvironmentsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListEnvironmentsInput) (*mcp.CallToolResult, ListEnvironmentsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListEnvironmentsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		out, err := runner.Run(ctx, timeouts.CLIRun, "environment", "list")
		if err != nil {
			return nil, ListEnvironmentsResult{}, fmt.Errorf("list environments: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListEnvironmentsResult{Output: out}, nil
	}
}

// CreateEnvironmentHandler executes an environment creation request.
func CreateEnvironmentHandler(runner Runner) mcp.ToolHandlerFor[CreateEnvironmentInput, CreateEnvironmentResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateEnvironmentInput) (*mcp.CallToolResult, CreateEnvironmentResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, CreateEnvironmentResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.EnvName, "env_name")
		if err != nil {
			return nil, CreateEnvironmentResult{}, err
		}

		out, err := runner.Run(ctx, timeouts.CLIRun, "environment", "create", name)
		if err != nil {
			return nil, CreateEnvironmentResult{}, fmt.Errorf("create environment: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), CreateEnvironmentResult{Output: out}, nil
	}
}

// DeleteEnvironmentHandler executes an environment deletion request behind a
// confirm gate.
func DeleteEnvironmentHandler(runner Runner) mcp.ToolHandlerFor[DeleteEnvironmentInput, DeleteEnvironmentResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteEnvironmentInput) (*mcp.CallToolResult, DeleteEnvironmentResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, DeleteEnvironmentResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.EnvName, "env_name")
		if err != nil {
			return nil, DeleteEnvironmentResult{}, err
		}
		if !input.Confirm {
			return CallToolResultWithMetadata(invocationID), DeleteEnvironmentResult{Output: environmentDeleteSafetyMessage}, nil
		}

		out, err := runner.Run(ctx, timeouts.CLIRun, "environment", "delete", name, "--yes")
		if err != nil {
			return nil, DeleteEnvironmentResult{}, fmt.Errorf("delete environment: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), DeleteEnvironmentResult{Output: out}, nil
	}
}
