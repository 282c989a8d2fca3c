package store

import "fmt"

// ExportEdge is an edge projected into an export, target kept only when it
// survives the audience filter.
type ExportEdge struct {
	To     string  `json:"to"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// ExportNode is the audience-projected view of a node.
type ExportNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	Weight   float64      `json:"weight"`
	Domains  []string     `json:"domains"`
	Audience string       `json:"audience"`
	Edges    []ExportEdge `json:"edges"`
}

// audienceScopes maps a target audience to the audiences it may see.
// private sees everything; each step down the ladder sees strictly less.
var audienceScopes = map[string][]string{
	"private": nil, // nil means no filter
	"team":    {"team", "org", "public"},
	"org":     {"org", "public"},
	"public":  {"public"},
}

// Export projects the graph for a target audience. Edges whose far endpoint
// falls outside the exported node set are pruned here, never persisted
// inconsistently.
func (s *Store) Export(audience string) ([]ExportNode, error) {
	scopes, ok := audienceScopes[audience]
	if !ok {
		return nil, fmt.Errorf("unknown audience %q", audience)
	}

	var nodes []Node
	if scopes == nil {
		all, err := s.AllNodes(NodeFilter{Limit: 10000})
		if err != nil {
			return nil, err
		}
		nodes = all
	} else {
		seen := map[string]bool{}
		for _, scope := range scopes {
			batch, err := s.AllNodes(NodeFilter{Audience: scope, Limit: 10000})
			if err != nil {
				return nil, err
			}
			for _, n := range batch {
				if !seen[n.ID] {
					seen[n.ID] = true
					nodes = append(nodes, n)
				}
			}
		}
	}

	included := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		included[n.ID] = true
	}

	out := make([]ExportNode, 0, len(nodes))
	for _, n := range nodes {
		edges, err := s.EdgesFrom(n.ID)
		if err != nil {
			return nil, err
		}
		kept := []ExportEdge{}
		for _, e := range edges {
			if included[e.ToID] {
				kept = append(kept, ExportEdge{To: e.ToID, Type: e.Type, Weight: e.Weight})
			}
		}
		out = append(out, ExportNode{
			ID:       n.ID,
			Type:     n.Type,
			Title:    n.Title,
			Content:  n.Content,
			Weight:   n.Weight,
			Domains:  n.Domains,
			Audience: n.Audience,
			Edges:    kept,
		})
	}
	return out, nil
}
