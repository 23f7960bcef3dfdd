package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// queueDeleteSafetyMessage is returned when delete_queue lacks confirmation.
const queueDeleteSafetyMessage = "Safety check: set confirm=true to actually delete the queue."

// defaultQueuePeek is how many items peek_queue shows when n is omitted.
const defaultQueuePeek = 5

// ListQueuesInput represents the MCP tool input for listing queues.
type ListQueuesInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// ListQueuesResult represents the MCP tool output for listing queues.
type ListQueuesResult struct {
	Output string `json:"output" jsonschema:"queues in the workspace"`
}

// CreateQueueInput represents the MCP tool input for creating a queue.
type CreateQueueInput struct {
	QueueName   string `json:"queue_name" jsonschema:"name for the queue"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// CreateQueueResult represents the MCP tool output for creating a queue.
type CreateQueueResult struct {
	Output string `json:"output" jsonschema:"creation output from the modal CLI"`
}

// DeleteQueueInput represents the MCP tool input for deleting a queue.
type DeleteQueueInput struct {
	QueueName   string `json:"queue_name" jsonschema:"name of the queue to delete"`
	Confirm     bool   `json:"confirm,omitempty" jsonschema:"must be true to actually delete (safety check)"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// DeleteQueueResult represents the MCP tool output for deleting a queue.
type DeleteQueueResult struct {
	Output string `json:"output" jsonschema:"deletion output or the safety-check message"`
}

// ClearQueueInput represents the MCP tool input for clearing a queue.
type ClearQueueInput struct {
	QueueName   string `json:"queue_name" jsonschema:"name of the queue to clear"`
	Partition   string `json:"partition,omitempty" jsonschema:"optional partition name (clears default partition if not set)"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// ClearQueueResult represents the MCP tool output for clearing a queue.
type ClearQueueResult struct {
	Output string `json:"output" jsonschema:"clear output from the modal CLI"`
}

// PeekQueueInput represents the MCP tool input for peeking at a queue.
type PeekQueueInput struct {
	QueueName   string `json:"queue_name" jsonschema:"name of the queue"`
	N           int    `json:"n,omitempty" jsonschema:"number of items to peek at (default 5)"`
	Partition   string `json:"partition,omitempty" jsonschema:"optional partition name"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// PeekQueueResult represents the MCP tool output for peeking at a queue.
type PeekQueueResult struct {
	Output string `json:"output" jsonschema:"the next items in the queue, without removing them"`
}

// QueueLengthInput represents the MCP tool input for a queue length query.
type QueueLengthInput struct {
	QueueName   string `json:"queue_name" jsonschema:"name of the queue"`
	Partition   string `json:"partition,omitempty" jsonschema:"optional partition name"`
	Total       bool   `json:"total,omitempty" jsonschema:"if true, sum across all partitions"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// QueueLengthResult represents the MCP tool output for a queue length query.
type QueueLengthResult struct {
	Output string `json:"output" jsonschema:"queue length"`
}

// ListQueuesTool defines the MCP tool schema for listing queues.
func ListQueuesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_queues",
		Description: "List all Modal queues",
	}
}

// CreateQueueTool defines the MCP tool schema for creating a queue.
func CreateQueueTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_queue",
		Description: "Create a new Modal queue",
	}
}

// DeleteQueueTool defines the MCP tool schema for deleting a queue.
func DeleteQueueTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_queue",
		Description: "Delete a Modal queue. Requires confirm=true",
	}
}

// ClearQueueTool defines the MCP tool schema for clearing a queue.
func ClearQueueTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clear_queue",
		Description: "Clear all items from a Modal queue",
	}
}

// PeekQueueTool defines the MCP tool schema for peeking at a queue.
func PeekQueueTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "peek_queue",
		Description: "Peek at the next N items in a Modal queue without removing them",
	}
}

// QueueLengthTool defines the MCP tool schema for a queue length query.
func QueueLengthTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "queue_length",
		Description: "Get the length of a Modal queue",
	}
}

// appendPartitionFlag appends the -p flag when a partition is set.
func appendPartitionFlag(args []string, partition string) []string {
	if strings.TrimSpace(partition) != "" {
		args = append(args, "-p", strings.TrimSpace(partition))
	}
	return args
}

// ListQueuesHandler executes a queue listing request.
func ListQueuesHandler(runner Runner) mcp.ToolHandlerFor[ListQueuesInput, ListQueuesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListQueuesInput) (*mcp.CallToolResult, ListQueuesResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListQueuesResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		args := appendEnvFlag([]string{"queue", "list"}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListQueuesResult{}, fmt.Errorf("list queues: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListQueuesResult{Output: out}, nil
	}
}

// CreateQueueHandler executes a queue creation request.
func CreateQueueHandler(runner Runner) mcp.ToolHandlerFor[CreateQueueInput, CreateQueueResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateQueueInput) (*mcp.CallToolResult, CreateQueueResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, CreateQueueResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.QueueName, "queue_name")
		if err != nil {
			return nil, CreateQueueResult{}, err
		}

		args := appendEnvFlag([]string{"queue", "create", name}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, CreateQueueResult{}, fmt.Errorf("create queue: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), CreateQueueResult{Output: out}, nil
	}
}

// DeleteQueueHandler executes a queue deletion request behind a confirm gate.
func DeleteQueueHandler(runner Runner) mcp.ToolHandlerFor[DeleteQueueInput, DeleteQueueResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteQueueInput) (*mcp.CallToolResult, DeleteQueueResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, DeleteQueueResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.QueueName, "queue_name")
		if err != nil {
			return nil, DeleteQueueResult{}, err
		}
		if !input.Confirm {
			return CallToolResultWithMetadata(invocationID), DeleteQueueResult{Output: queueDeleteSafetyMessage}, nil
		}

		args := appendEnvFlag([]string{"queue", "delete", name, "--yes"}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, DeleteQueueResult{}, fmt.Errorf("delete queue: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), DeleteQueueResult{Output: out}, nil
	}
}

// ClearQueueHandler executes a queue clear request.
func ClearQueueHandler(runner Runner) mcp.ToolHandlerFor[ClearQueueInput, ClearQueueResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClearQueueInput) (*mcp.CallToolResult, ClearQueueResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ClearQueueResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.QueueName, "queue_name")
		if err != nil {
			return nil, ClearQueueResult{}, err
		}

		args := []string{"queue", "clear", name}
		args = appendPartitionFlag(args, input.Partition)
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ClearQueueResult{}, fmt.Errorf("clear queue: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ClearQueueResult{Output: out}, nil
	}
}

// PeekQueueHandler executes a queue peek request.
func PeekQueueHandler(runner Runner) mcp.ToolHandlerFor[PeekQueueInput, PeekQueueResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PeekQueueInput) (*mcp.CallToolResult, PeekQueueResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, PeekQueueResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.QueueName, "queue_name")
		if err != nil {
			return nil, PeekQueueResult{}, err
		}
		n := input.N
		if n <= 0 {
			n = defaultQueuePeek
		}

		args := []string{"queue", "peek", name, strconv.Itoa(n)}
		args = appendPartitionFlag(args, input.Partition)
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, PeekQueueResult{}, fmt.Errorf("peek queue: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), PeekQueueResult{Output: out}, nil
	}
}

// QueueLengthHandler executes a queue length query.
func QueueLengthHandler(runner Runner) mcp.ToolHandlerFor[QueueLengthInput, QueueLengthResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input QueueLengthInput) (*mcp.CallToolResult, QueueLengthResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, QueueLengthResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.QueueName, "queue_name")
		if err != nil {
			return nil, QueueLengthResult{}, err
		}

		args := []string{"queue", "len", name}
		args = appendPartitionFlag(args, input.Partition)
		if input.Total {
			args = append(args, "-t")
		}
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, QueueLengthResult{}, fmt.Errorf("queue length: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), QueueLengthResult{Output: out}, nil
	}
}
