package domain

import (
	"github.com/louisbranch/modal-mcp/internal/platform/id"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// invocationIDMetaKey is the result metadata key carrying the per-call id.
const invocationIDMetaKey = "modal-mcp-invocation-id"

// NewInvocationID generates an invocation identifier for a tool call.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// CallToolResultWithMetadata builds a tool result carrying the invocation id
// so clients can correlate tool calls with server traces.
func CallToolResultWithMetadata(invocationID string) *mcp.CallToolResult {
	result := &mcp.CallToolResult{}
	if invocationID != "" {
		result.Meta = map[string]any{invocationIDMetaKey: invocationID}
	}
	return result
}
