package domain

import (
	"context"
	"fmt"
	"strconv"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// dictDeleteSafetyMessage is returned when delete_dict lacks confirmation.
const dictDeleteSafetyMessage = "Safety check: set confirm=true to actually delete the dict."

// defaultDictItems is how many entries list_dict_items shows when n is omitted.
const defaultDictItems = 20

// ListDictsInput represents the MCP tool input for listing dicts.
type ListDictsInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// ListDictsResult represents the MCP tool output for listing dicts.
type ListDictsResult struct {
	Output string `json:"output" jsonschema:"dicts in the workspace"`
}

// CreateDictInput represents the MCP tool input for creating a dict.
type CreateDictInput struct {
	DictName    string `json:"dict_name" jsonschema:"name for the dict"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// CreateDictResult represents the MCP tool output for creating a dict.
type CreateDictResult struct {
	Output string `json:"output" jsonschema:"creation output from the modal CLI"`
}

// DeleteDictInput represents the MCP tool input for deleting a dict.
type DeleteDictInput struct {
	DictName    string `json:"dict_name" jsonschema:"name of the dict to delete"`
	Confirm     bool   `json:"confirm,omitempty" jsonschema:"must be true to actually delete (safety check)"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// DeleteDictResult represents the MCP tool output for deleting a dict.
type DeleteDictResult struct {
	Output string `json:"output" jsonschema:"deletion output or the safety-check message"`
}

// ClearDictInput represents the MCP tool input for clearing a dict.
type ClearDictInput struct {
	DictName    string `json:"dict_name" jsonschema:"name of the dict to clear"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// ClearDictResult represents the MCP tool output for clearing a dict.
type ClearDictResult struct {
	Output string `json:"output" jsonschema:"clear output from the modal CLI"`
}

// GetDictValueInput represents the MCP tool input for a dict lookup.
type GetDictValueInput struct {
	DictName    string `json:"dict_name" jsonschema:"name of the dict"`
	Key         string `json:"key" jsonschema:"key to look up"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// GetDictValueResult represents the MCP tool output for a dict lookup.
type GetDictValueResult struct {
	Output string `json:"output" jsonschema:"the stored value"`
}

// ListDictItemsInput represents the MCP tool input for listing dict entries.
type ListDictItemsInput struct {
	DictName    string `json:"dict_name" jsonschema:"name of the dict"`
	N           int    `json:"n,omitempty" jsonschema:"max number of items to show (default 20)"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// ListDictItemsResult represents the MCP tool output for listing dict entries.
type ListDictItemsResult struct {
	Output string `json:"output" jsonschema:"dict entries"`
}

// ListDictsTool defines the MCP tool schema for listing dicts.
func ListDictsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_dicts",
		Description: "List all Modal dicts",
	}
}

// CreateDictTool defines the MCP tool schema for creating a dict.
func CreateDictTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_dict",
		Description: "Create a new Modal dict",
	}
}

// DeleteDictTool defines the MCP tool schema for deleting a dict.
func DeleteDictTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_dict",
		Description: "Delete a Modal dict. Requires confirm=true",
	}
}

// ClearDictTool defines the MCP tool schema for clearing a dict.
func ClearDictTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clear_dict",
		Description: "Clear all entries from a Modal dict",
	}
}

// GetDictValueTool defines the MCP tool schema for a dict lookup.
func GetDictValueTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_dict_value",
		Description: "Get a value from a Modal dict by key",
	}
}

// ListDictItemsTool defines the MCP tool schema for listing dict entries.
func ListDictItemsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_dict_items",
		Description: "List items in a Modal dict",
	}
}

// ListDictsHandler executes a dict listing request.
func ListDictsHandler(runner Runner) mcp.ToolHandlerFor[ListDictsInput, ListDictsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListDictsInput) (*mcp.CallToolResult, ListDictsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListDictsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		args := appendEnvFlag([]string{"dict", "list"}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListDictsResult{}, fmt.Errorf("list dicts: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListDictsResult{Output: out}, nil
	}
}

// CreateDictHandler executes a dict creation request.
func CreateDictHandler(runner Runner) mcp.ToolHandlerFor[CreateDictInput, CreateDictResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateDictInput) (*mcp.CallToolResult, CreateDictResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, CreateDictResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.DictName, "dict_name")
		if err != nil {
			return nil, CreateDictResult{}, err
		}

		args := appendEnvFlag([]string{"dict", "create", name}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, CreateDictResult{}, fmt.Errorf("create dict: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), CreateDictResult{Output: out}, nil
	}
}

// DeleteDictHandler executes a dict deletion request behind a confirm gate.
func DeleteDictHandler(runner Runner) mcp.ToolHandlerFor[DeleteDictInput, DeleteDictResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteDictInput) (*mcp.CallToolResult, DeleteDictResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, DeleteDictResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.DictName, "dict_name")
		if err != nil {
			return nil, DeleteDictResult{}, err
		}
		if !input.Confirm {
			return CallToolResultWithMetadata(invocationID), DeleteDictResult{Output: dictDeleteSafetyMessage}, nil
		}

		args := appendEnvFlag([]string{"dict", "delete", name, "--yes"}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, DeleteDictResult{}, fmt.Errorf("delete dict: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), DeleteDictResult{Output: out}, nil
	}
}

// ClearDictHandler executes a dict clear request.
func ClearDictHandler(runner Runner) mcp.ToolHandlerFor[ClearDictInput, ClearDictResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClearDictInput) (*mcp.CallToolResult, ClearDictResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ClearDictResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.DictName, "dict_name")
		if err != nil {
			return nil, ClearDictResult{}, err
		}

		args := appendEnvFlag([]string{"dict", "clear", name}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ClearDictResult{}, fmt.Errorf("clear dict: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ClearDictResult{Output: out}, nil
	}
}

// GetDictValueHandler executes a dict lookup request.
func GetDictValueHandler(runner Runner) mcp.ToolHandlerFor[GetDictValueInput, GetDictValueResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetDictValueInput) (*mcp.CallToolResult, GetDictValueResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, GetDictValueResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.DictName, "dict_name")
		if err != nil {
			return nil, GetDictValueResult{}, err
		}
		key, err := requiredField(input.Key, "key")
		if err != nil {
			return nil, GetDictValueResult{}, err
		}

		args := appendEnvFlag([]string{"dict", "get", name, key}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, GetDictValueResult{}, fmt.Errorf("get dict value: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), GetDictValueResult{Output: out}, nil
	}
}

// ListDictItemsHandler executes a dict entry listing request.
func ListDictItemsHandler(runner Runner) mcp.ToolHandlerFor[ListDictItemsInput, ListDictItemsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListDictItemsInput) (*mcp.CallToolResult, ListDictItemsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListDictItemsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.DictName, "dict_name")
		if err != nil {
			return nil, ListDictItemsResult{}, err
		}
		n := input.N
		if n <= 0 {
			n = defaultDictItems
		}

		args := appendEnvFlag([]string{"dict", "items", name, strconv.Itoa(n)}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListDictItemsResult{}, fmt.Errorf("list dict items: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListDictItemsResult{Output: out}, nil
	}
}
