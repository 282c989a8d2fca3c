package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"kindex/kin/internal/store"
)

// AddTool handles the kin_add MCP tool.
type AddTool struct {
	store *store.Store
}

// NewAddTool creates an AddTool.
func NewAddTool(s *store.Store) *AddTool {
	return &AddTool{store: s}
}

// Definition returns the MCP tool definition for kin_add.
func (t *AddTool) Definition() mcp.Tool {
	return mcp.NewTool("kin_add",
		mcp.WithDescription(
			"Add a node to the knowledge graph. Use for concepts, decisions, "+
				"questions, or documents worth remembering across sessions.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Node title"),
		),
		mcp.WithString("content",
			mcp.Description("Node body text"),
		),
		mcp.WithString("type",
			mcp.Description("Node type: concept, document, decision, question, project, person, skill (default: concept)"),
		),
		mcp.WithString("domains",
			mcp.Description("Comma-separated domain tags"),
		),
		mcp.WithNumber("weight",
			mcp.Description("Importance 0..1 (default: 0.5)"),
		),
	)
}

// Handle processes the kin_add tool call.
func (t *AddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	var domains []string
	if raw := req.GetString("domains", ""); raw != "" {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				domains = append(domains, d)
			}
		}
	}

	id, err := t.store.AddNode(store.NodeParams{
		Title:    title,
		Content:  req.GetString("content", ""),
		Type:     req.GetString("type", "concept"),
		Domains:  domains,
		Weight:   floatArg(req, "weight", 0.5),
		Activity: "mcp-add",
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created node %s: %s", id, title)), nil
}
