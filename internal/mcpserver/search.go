package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"kindex/kin/internal/retrieve"
)

// SearchTool handles the kin_search MCP tool.
type SearchTool struct {
	engine *retrieve.Engine
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(engine *retrieve.Engine) *SearchTool {
	return &SearchTool{engine: engine}
}

// Definition returns the MCP tool definition for kin_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("kin_search",
		mcp.WithDescription(
			"Search the knowledge graph with hybrid full-text + graph retrieval. "+
				"Returns ranked nodes with their strongest outgoing edges.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query — natural language or keywords"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the kin_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	topK := intArg(req, "top_k", 10)

	results, err := t.engine.Search(query, retrieve.SearchOptions{TopK: topK, ExpandGraph: true})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No nodes found matching your query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d nodes:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s (score=%.4f)\n", i+1, nodeSummary(&r.Node), r.RRFScore)
		if r.Content != "" {
			snippet := r.Content
			if len(snippet) > 200 {
				snippet = snippet[:200]
			}
			fmt.Fprintf(&b, "    %s\n", snippet)
		}
		if len(r.EdgesOut) > 0 {
			var links []string
			for _, e := range r.EdgesOut {
				name := e.NeighborTitle
				if name == "" {
					name = e.ToID
				}
				links = append(links, fmt.Sprintf("%s[%s]", name, e.Type))
			}
			fmt.Fprintf(&b, "    → %s\n", strings.Join(links, ", "))
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
