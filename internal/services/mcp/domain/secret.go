package domain

import (
	"context"
	"fmt"
	"sort"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// secretDeleteSafetyMessage is returned when delete_secret lacks confirmation.
const secretDeleteSafetyMessage = "Safety check: set confirm=true to actually delete the secret. This cannot be undone."

// ListSecretsInput represents the MCP tool input for listing secrets.
type ListSecretsInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// ListSecretsResult represents the MCP tool output for listing secrets.
type ListSecretsResult struct {
	Output string `json:"output" jsonschema:"secrets in the workspace"`
}

// CreateSecretInput represents the MCP tool input for creating a secret.
type CreateSecretInput struct {
	SecretName  string            `json:"secret_name" jsonschema:"name for the secret (e.g. my-api-keys)"`
	KeyValues   map[string]string `json:"key_values" jsonschema:"key-value pairs (e.g. {\"API_KEY\": \"sk-xxx\"})"`
	Environment string            `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// CreateSecretResult represents the MCP tool output for creating a secret.
type CreateSecretResult struct {
	Output string `json:"output" jsonschema:"creation output from the modal CLI"`
}

// DeleteSecretInput represents the MCP tool input for deleting a secret.
type DeleteSecretInput struct {
	SecretName  string `json:"secret_name" jsonschema:"name of the secret to delete"`
	Confirm     bool   `json:"confirm,omitempty" jsonschema:"must be true to actually delete (safety check)"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// DeleteSecretResult represents the MCP tool output for deleting a secret.
type DeleteSecretResult struct {
	Output string `json:"output" jsonschema:"deletion output or the safety-check message"`
}

// ListSecretsTool defines the MCP tool schema for listing secrets.
func ListSecretsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_secrets",
		Description: "List all Modal secrets",
	}
}

// CreateSecretTool defines the MCP tool schema for creating a secret.
func CreateSecretTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_secret",
		Description: "Create a new Modal secret with key-value pairs",
	}
}

// DeleteSecretTool defines the MCP tool schema for deleting a secret.
func DeleteSecretTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_secret",
		Description: "Delete a Modal secret. Requires confirm=true",
	}
}

// ListSecretsHandler executes a secret listing request.
func ListSecretsHandler(runner Runner) mcp.ToolHandlerFor[ListSecretsInput, ListSecretsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListSecretsInput) (*mcp.CallToolResult, ListSecretsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListSecretsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		args := appendEnvFlag([]string{"secret", "list"}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListSecretsResult{}, fmt.Errorf("list secrets: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListSecretsResult{Output: out}, nil
	}
}

// CreateSecretHandler executes a secret creation request. Key-value pairs
// are passed as KEY=VALUE arguments in sorted key order so argv is stable.
func CreateSecretHandler(runner Runner) mcp.ToolHandlerFor[CreateSecretInput, CreateSecretResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateSecretInput) (*mcp.CallToolResult, CreateSecretResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, CreateSecretResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.SecretName, "secret_name")
		if err != nil {
			return nil, CreateSecretResult{}, err
		}
		if len(input.KeyValues) == 0 {
			return nil, CreateSecretResult{}, fmt.Errorf("key_values must contain at least one key-value pair")
		}

		keys := make([]string, 0, len(input.KeyValues))
		for k := range input.KeyValues {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		args := []string{"secret", "create", name}
		for _, k := range keys {
			args = append(args, k+"="+input.KeyValues[k])
		}
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, CreateSecretResult{}, fmt.Errorf("create secret: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), CreateSecretResult{Output: out}, nil
	}
}

// DeleteSecretHandler executes a secret deletion request behind a confirm gate.
func DeleteSecretHandler(runner Runner) mcp.ToolHandlerFor[DeleteSecretInput, DeleteSecretResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteSecretInput) (*mcp.CallToolResult, DeleteSecretResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, DeleteSecretResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.SecretName, "secret_name")
		if err != nil {
			return nil, DeleteSecretResult{}, err
		}
		if !input.Confirm {
			return CallToolResultWithMetadata(invocationID), DeleteSecretResult{Output: secretDeleteSafetyMessage}, nil
		}

		args := appendEnvFlag([]string{"secret", "delete", name, "--yes"}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, DeleteSecretResult{}, fmt.Errorf("delete secret: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), DeleteSecretResult{Output: out}, nil
	}
}
