package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"kindex/kin/internal/store"
)

// ShowTool handles the kin_show MCP tool.
type ShowTool struct {
	store *store.Store
}

// NewShowTool creates a ShowTool.
func NewShowTool(s *store.Store) *ShowTool {
	return &ShowTool{store: s}
}

// Definition returns the MCP tool definition for kin_show.
func (t *ShowTool) Definition() mcp.Tool {
	return mcp.NewTool("kin_show",
		mcp.WithDescription("Show full detail for one node: content, provenance, edges."),
		mcp.WithString("node",
			mcp.Required(),
			mcp.Description("Node id or exact title"),
		),
	)
}

// Handle processes the kin_show tool call.
func (t *ShowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("node", "")
	if ref == "" {
		return mcp.NewToolResultError("'node' is required"), nil
	}

	node, err := t.store.GetNode(ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if node == nil {
		node, err = t.store.GetNodeByTitle(ref)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
	}
	if node == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No node found for %q.", ref)), nil
	}
	return mcp.NewToolResultText(nodeDetail(t.store, node)), nil
}

// LinkTool handles the kin_link MCP tool.
type LinkTool struct {
	store *store.Store
}

// NewLinkTool creates a LinkTool.
func NewLinkTool(s *store.Store) *LinkTool {
	return &LinkTool{store: s}
}

// Definition returns the MCP tool definition for kin_link.
func (t *LinkTool) Definition() mcp.Tool {
	return mcp.NewTool("kin_link",
		mcp.WithDescription(
			"Create a weighted edge between two existing nodes. A reverse edge "+
				"at reduced weight is created automatically.",
		),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Source node id"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Target node id"),
		),
		mcp.WithString("type",
			mcp.Description("Edge type, e.g. relates_to, informs, depends_on (default: relates_to)"),
		),
		mcp.WithNumber("weight",
			mcp.Description("Edge strength 0..1 (default: 0.5)"),
		),
	)
}

// Handle processes the kin_link tool call.
func (t *LinkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	to := req.GetString("to", "")
	if from == "" || to == "" {
		return mcp.NewToolResultError("'from' and 'to' are required"), nil
	}

	err := t.store.AddEdge(store.EdgeParams{
		From:       from,
		To:         to,
		Type:       req.GetString("type", "relates_to"),
		Weight:     floatArg(req, "weight", 0.5),
		Provenance: "mcp-link",
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("link failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Linked %s → %s", from, to)), nil
}

// StatsTool handles the kin_graph_stats MCP tool.
type StatsTool struct {
	store *store.Store
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(s *store.Store) *StatsTool {
	return &StatsTool{store: s}
}

// Definition returns the MCP tool definition for kin_graph_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("kin_graph_stats",
		mcp.WithDescription("Summarize the knowledge graph: node/edge counts, orphans, type breakdown."),
	)
}

// Handle processes the kin_graph_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.GraphStats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Nodes: %d | Edges: %d | Orphans: %d\n", stats.Nodes, stats.Edges, stats.Orphans)
	if len(stats.Types) > 0 {
		types := make([]string, 0, len(stats.Types))
		for typ := range stats.Types {
			types = append(types, typ)
		}
		sort.Strings(types)
		b.WriteString("By type:\n")
		for _, typ := range types {
			fmt.Fprintf(&b, "  %-12s %d\n", typ, stats.Types[typ])
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
