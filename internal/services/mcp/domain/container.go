package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListContainersInput represents the MCP tool input for listing containers.
type ListContainersInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment to filter by"`
}

// ListContainersResult represents the MCP tool output for listing containers.
type ListContainersResult struct {
	Output string `json:"output" jsonschema:"running containers, one block per container"`
}

// ContainerLogsInput represents the MCP tool input for capturing container logs.
type ContainerLogsInput struct {
	ContainerID string `json:"container_id" jsonschema:"container ID (from list_containers)"`
	Duration    int    `json:"duration,omitempty" jsonschema:"seconds of log stream to capture (default 10, max 60)"`
}

// ContainerLogsResult represents the MCP tool output for capturing container logs.
type ContainerLogsResult struct {
	Output string `json:"output" jsonschema:"captured log lines"`
}

// StopContainerInput represents the MCP tool input for stopping a container.
type StopContainerInput struct {
	ContainerID string `json:"container_id" jsonschema:"container ID to stop"`
}

// StopContainerResult represents the MCP tool output for stopping a container.
type StopContainerResult struct {
	Output string `json:"output" jsonschema:"stop output from the modal CLI"`
}

// ListContainersTool defines the MCP tool schema for listing containers.
func ListContainersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_containers",
		Description: "List all currently running Modal containers",
	}
}

// ContainerLogsTool defines the MCP tool schema for capturing container logs.
func ContainerLogsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "container_logs",
		Description: "Get logs for a specific running Modal container",
	}
}

// StopContainerTool defines the MCP tool schema for stopping a container.
func StopContainerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stop_container",
		Description: "Stop a running Modal container and reassign its in-progress inputs",
	}
}

// ListContainersHandler executes a container listing request.
func ListContainersHandler(runner Runner) mcp.ToolHandlerFor[ListContainersInput, ListContainersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListContainersInput) (*mcp.CallToolResult, ListContainersResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListContainersResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		args := appendEnvFlag([]string{"container", "list"}, input.Environment)

		out, err := runner.RunJSON(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListContainersResult{}, fmt.Errorf("list containers: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListContainersResult{Output: out}, nil
	}
}

// ContainerLogsHandler executes a bounded container log capture.
func ContainerLogsHandler(runner Runner) mcp.ToolHandlerFor[ContainerLogsInput, ContainerLogsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContainerLogsInput) (*mcp.CallToolResult, ContainerLogsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ContainerLogsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		containerID, err := requiredField(input.ContainerID, "container_id")
		if err != nil {
			return nil, ContainerLogsResult{}, err
		}

		out, err := runner.Stream(ctx, time.Duration(input.Duration)*time.Second, "container", "logs", containerID)
		if err != nil {
			return nil, ContainerLogsResult{}, fmt.Errorf("container logs: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ContainerLogsResult{Output: out}, nil
	}
}

// StopContainerHandler executes a container stop request.
func StopContainerHandler(runner Runner) mcp.ToolHandlerFor[StopContainerInput, StopContainerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StopContainerInput) (*mcp.CallToolResult, StopContainerResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, StopContainerResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		containerID, err := requiredField(input.ContainerID, "container_id")
		if err != nil {
			return nil, StopContainerResult{}, err
		}

		out, err := runner.Run(ctx, timeouts.CLIRun, "container", "stop", containerID)
		if err != nil {
			return nil, StopContainerResult{}, fmt.Errorf("stop container: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), StopContainerResult{Output: out}, nil
	}
}
