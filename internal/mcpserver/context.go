package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"kindex/kin/internal/retrieve"
)

// ContextTool handles the kin_context MCP tool.
type ContextTool struct {
	engine *retrieve.Engine
}

// NewContextTool creates a ContextTool.
func NewContextTool(engine *retrieve.Engine) *ContextTool {
	return &ContextTool{engine: engine}
}

// Definition returns the MCP tool definition for kin_context.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("kin_context",
		mcp.WithDescription(
			"Build a token-budgeted context block for a topic. Tiers: full (~4000 "+
				"tokens), abridged (~1500), summarized (~750), executive (~200), "+
				"index (~100). Omit tier to auto-select from max_tokens.",
		),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Topic or query to build context for"),
		),
		mcp.WithString("tier",
			mcp.Description("Context tier: full, abridged, summarized, executive, index"),
		),
		mcp.WithNumber("max_tokens",
			mcp.Description("Approximate token budget for auto tier selection"),
		),
	)
}

// Handle processes the kin_context tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "")
	if topic == "" {
		return mcp.NewToolResultError("'topic' is required"), nil
	}

	results, err := t.engine.Search(topic, retrieve.DefaultSearchOptions())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	block, err := t.engine.FormatContextBlock(results, topic,
		req.GetString("tier", ""), intArg(req, "max_tokens", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("format failed: %v", err)), nil
	}
	return mcp.NewToolResultText(block), nil
}
