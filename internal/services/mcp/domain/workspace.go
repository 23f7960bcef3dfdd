package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// billingPeriods are the time ranges the billing report accepts.
var billingPeriods = map[string]struct{}{
	"today":      {},
	"yesterday":  {},
	"this week":  {},
	"last week":  {},
	"this month": {},
	"last month": {},
}

const defaultBillingPeriod = "this month"

// CurrentProfileInput represents the MCP tool input for profile info.
type CurrentProfileInput struct{}

// CurrentProfileResult represents the MCP tool output for profile info.
type CurrentProfileResult struct {
	Output string `json:"output" jsonschema:"current workspace/user profile"`
}

// TokenInfoInput represents the MCP tool input for token info.
type TokenInfoInput struct{}

// TokenInfoResult represents the MCP tool output for token info.
type TokenInfoResult struct {
	Output string `json:"output" jsonschema:"info about the current Modal token/credentials"`
}

// BillingUsageInput represents the MCP tool input for a billing report.
type BillingUsageInput struct {
	Period     string `json:"period,omitempty" jsonschema:"time range: today, yesterday, this week, last week, this month (default), last month"`
	Resolution string `json:"resolution,omitempty" jsonschema:"d for daily (default) or h for hourly breakdown"`
}

// BillingUsageResult represents the MCP tool output for a billing report.
type BillingUsageResult struct {
	Output string `json:"output" jsonschema:"workspace usage and spend"`
}

// CurrentProfileTool defines the MCP tool schema for profile info.
func CurrentProfileTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "current_profile",
		Description: "Show the current Modal profile (workspace/user info)",
	}
}

// TokenInfoTool defines the MCP tool schema for token info.
func TokenInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "token_info",
		Description: "Show info about the current Modal token/credentials",
	}
}

// BillingUsageTool defines the MCP tool schema for a billing report.
func BillingUsageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "billing_usage",
		Description: "Check Modal workspace billing usage and spend",
	}
}

// CurrentProfileHandler executes a profile info request.
func CurrentProfileHandler(runner Runner) mcp.ToolHandlerFor[CurrentProfileInput, CurrentProfileResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CurrentProfileInput) (*mcp.CallToolResult, CurrentProfileResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, CurrentProfileResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		out, err := runner.Run(ctx, timeouts.CLIRun, "profile", "current")
		if err != nil {
			return nil, CurrentProfileResult{}, fmt.Errorf("current profile: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), CurrentProfileResult{Output: out}, nil
	}
}

// TokenInfoHandler executes a token info request.
func TokenInfoHandler(runner Runner) mcp.ToolHandlerFor[TokenInfoInput, TokenInfoResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ TokenInfoInput) (*mcp.CallToolResult, TokenInfoResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, TokenInfoResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		out, err := runner.Run(ctx, timeouts.CLIRun, "token", "info")
		if err != nil {
			return nil, TokenInfoResult{}, fmt.Errorf("token info: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), TokenInfoResult{Output: out}, nil
	}
}

// BillingUsageHandler executes a billing report request.
func BillingUsageHandler(runner Runner) mcp.ToolHandlerFor[BillingUsageInput, BillingUsageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BillingUsageInput) (*mcp.CallToolResult, BillingUsageResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, BillingUsageResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		period := input.Period
		if period == "" {
			period = defaultBillingPeriod
		}
		if _, ok := billingPeriods[period]; !ok {
			return nil, BillingUsageResult{}, fmt.Errorf("unsupported period %q", period)
		}
		resolution := input.Resolution
		if resolution == "" {
			resolution = "d"
		}
		if resolution != "d" && resolution != "h" {
			return nil, BillingUsageResult{}, fmt.Errorf("resolution must be d or h, got %q", resolution)
		}

		out, err := runner.Run(ctx, timeouts.CLIBilling, "billing", "report", "--for", period, "-r", resolution)
		if err != nil {
			return nil, BillingUsageResult{}, fmt.Errorf("billing usage: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), BillingUsageResult{Output: out}, nil
	}
}
