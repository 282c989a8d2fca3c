// Package graph derives structural insight from a store snapshot: stats,
// centrality, communities, bridge edges, trailheads, and weighted traversal.
// Everything here is a pure reader over an in-memory view; nothing mutates
// the store.
package graph

import (
	"sort"

	"kindex/kin/internal/store"
)

// NodeInfo is a lightweight node representation decoupled from store types.
type NodeInfo struct {
	ID      string
	Title   string
	Type    string
	Weight  float64
	Domains []string
}

// EdgeInfo is a lightweight edge representation.
type EdgeInfo struct {
	From   string
	To     string
	Type   string
	Weight float64
}

// View holds a graph with precomputed adjacency lists.
type View struct {
	Nodes map[string]*NodeInfo
	Edges []EdgeInfo
	Out   map[string][]EdgeInfo // directed: from -> outgoing edges
	In    map[string][]EdgeInfo // directed: to -> incoming edges
	Adj   map[string][]string   // undirected neighbor ids, deduplicated
}

// NewView builds a View from raw nodes and edges. Dangling edges (either
// endpoint missing) are skipped rather than failing: a half-deleted edge
// must never poison analytics.
func NewView(nodes []*NodeInfo, edges []EdgeInfo) *View {
	nodeMap := make(map[string]*NodeInfo, len(nodes))
	out := make(map[string][]EdgeInfo)
	in := make(map[string][]EdgeInfo)
	adj := make(map[string][]string)
	seen := make(map[[2]string]bool)

	for _, n := range nodes {
		nodeMap[n.ID] = n
		out[n.ID] = nil
		in[n.ID] = nil
		adj[n.ID] = nil
	}

	var kept []EdgeInfo
	for _, e := range edges {
		if _, ok := nodeMap[e.From]; !ok {
			continue
		}
		if _, ok := nodeMap[e.To]; !ok {
			continue
		}
		kept = append(kept, e)
		out[e.From] = append(out[e.From], e)
		in[e.To] = append(in[e.To], e)

		key := [2]string{e.From, e.To}
		if e.From > e.To {
			key = [2]string{e.To, e.From}
		}
		if !seen[key] && e.From != e.To {
			seen[key] = true
			adj[e.From] = append(adj[e.From], e.To)
			adj[e.To] = append(adj[e.To], e.From)
		}
	}

	v := &View{Nodes: nodeMap, Edges: kept, Out: out, In: in, Adj: adj}
	v.sortAdjacency()
	return v
}

// sortAdjacency fixes iteration order so every algorithm downstream is
// deterministic for a given store state.
func (v *View) sortAdjacency() {
	for id := range v.Out {
		es := v.Out[id]
		sort.Slice(es, func(i, j int) bool {
			if es[i].Weight != es[j].Weight {
				return es[i].Weight > es[j].Weight
			}
			return es[i].To < es[j].To
		})
	}
	for id := range v.Adj {
		sort.Strings(v.Adj[id])
	}
}

// FromStore loads a View in one pass over the store's nodes and edges.
func FromStore(s *store.Store) (*View, error) {
	dbNodes, err := s.AllNodes(store.NodeFilter{Limit: 100000})
	if err != nil {
		return nil, err
	}
	dbEdges, err := s.AllEdges()
	if err != nil {
		return nil, err
	}

	nodes := make([]*NodeInfo, 0, len(dbNodes))
	for _, n := range dbNodes {
		nodes = append(nodes, &NodeInfo{
			ID:      n.ID,
			Title:   n.Title,
			Type:    n.Type,
			Weight:  n.Weight,
			Domains: n.Domains,
		})
	}

	edges := make([]EdgeInfo, 0, len(dbEdges))
	for _, e := range dbEdges {
		edges = append(edges, EdgeInfo{
			From:   e.FromID,
			To:     e.ToID,
			Type:   e.Type,
			Weight: e.Weight,
		})
	}

	return NewView(nodes, edges), nil
}

// NodeIDs returns all node IDs sorted for deterministic output.
func (v *View) NodeIDs() []string {
	ids := make([]string, 0, len(v.Nodes))
	for id := range v.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OutDegree returns the number of outgoing edges of a node.
func (v *View) OutDegree(id string) int {
	return len(v.Out[id])
}

// Degree returns the undirected degree of a node.
func (v *View) Degree(id string) int {
	return len(v.Adj[id])
}
