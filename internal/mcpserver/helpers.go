package mcpserver

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"kindex/kin/internal/store"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// floatArg extracts a float argument with a default.
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return v
}

// nodeSummary is the one-line rendering used by list-style tools.
func nodeSummary(n *store.Node) string {
	return fmt.Sprintf("[%s] %s (w=%.2f, id=%s)", n.Type, n.Title, n.Weight, n.ID)
}

// nodeDetail renders a node with content, provenance, and edges.
func nodeDetail(s *store.Store, n *store.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", n.Title)
	fmt.Fprintf(&b, "id: %s | type: %s | weight: %.2f | status: %s | audience: %s\n",
		n.ID, n.Type, n.Weight, n.Status, n.Audience)
	if len(n.AKA) > 0 {
		fmt.Fprintf(&b, "aka: %s\n", strings.Join(n.AKA, ", "))
	}
	if len(n.Domains) > 0 {
		fmt.Fprintf(&b, "domains: %s\n", strings.Join(n.Domains, ", "))
	}
	if n.Content != "" {
		fmt.Fprintf(&b, "\n%s\n", n.Content)
	}

	var prov []string
	if len(n.Who) > 0 {
		prov = append(prov, "who: "+strings.Join(n.Who, ", "))
	}
	if n.When != "" {
		prov = append(prov, "when: "+n.When)
	}
	if n.Source != "" {
		prov = append(prov, "source: "+n.Source)
	}
	if len(prov) > 0 {
		fmt.Fprintf(&b, "\nProvenance: %s\n", strings.Join(prov, " | "))
	}

	edges, err := s.EdgesFrom(n.ID)
	if err == nil && len(edges) > 0 {
		b.WriteString("\nEdges:\n")
		for i, e := range edges {
			if i >= 10 {
				break
			}
			name := e.NeighborTitle
			if name == "" {
				name = e.ToID
			}
			fmt.Fprintf(&b, "  → %s [%s, w=%.2f]\n", name, e.Type, e.Weight)
		}
	}
	return b.String()
}
