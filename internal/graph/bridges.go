package graph

import "sort"

// ArticulationPoint is a node whose removal disconnects the graph
type ArticulationPoint struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Degree int    `json:"degree"`
}

// BridgeEdge is an edge that carries disproportionate shortest-path
// traffic; the highest-ranked ones are the graph's weak links.
type BridgeEdge struct {
	FromID      string  `json:"from_id"`
	ToID        string  `json:"to_id"`
	FromTitle   string  `json:"from_title"`
	ToTitle     string  `json:"to_title"`
	Betweenness float64 `json:"betweenness"`
	Cut         bool    `json:"cut"` // removal disconnects the component
}

// BridgeReport contains bridge analysis results
type BridgeReport struct {
	ArticulationPoints []ArticulationPoint `json:"articulation_points"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges"`
	APCount            int                 `json:"ap_count"`
	BridgeCount        int                 `json:"bridge_count"`
}

// ComputeBridges ranks edges by betweenness centrality and flags the ones
// that are true cut edges, alongside the articulation points found by
// Tarjan's lowlink pass. topN caps the edge list.
func ComputeBridges(v *View, topN int) *BridgeReport {
	if len(v.Nodes) == 0 {
		return &BridgeReport{}
	}

	ebc := EdgeBetweenness(v)
	cuts, aps := tarjan(v)

	edges := make([]BridgeEdge, 0, len(ebc))
	for key, score := range ebc {
		edges = append(edges, BridgeEdge{
			FromID:      key.A,
			ToID:        key.B,
			FromTitle:   nodeTitle(v, key.A),
			ToTitle:     nodeTitle(v, key.B),
			Betweenness: score,
			Cut:         cuts[key],
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Betweenness != edges[j].Betweenness {
			return edges[i].Betweenness > edges[j].Betweenness
		}
		if edges[i].FromID != edges[j].FromID {
			return edges[i].FromID < edges[j].FromID
		}
		return edges[i].ToID < edges[j].ToID
	})
	bridgeCount := 0
	for _, e := range edges {
		if e.Cut {
			bridgeCount++
		}
	}
	if topN > 0 && len(edges) > topN {
		edges = edges[:topN]
	}

	return &BridgeReport{
		ArticulationPoints: aps,
		BridgeEdges:        edges,
		APCount:            len(aps),
		BridgeCount:        bridgeCount,
	}
}

func nodeTitle(v *View, id string) string {
	if n, ok := v.Nodes[id]; ok {
		return n.Title
	}
	return ""
}

// tarjan finds cut edges and articulation points on the undirected
// projection with an iterative lowlink DFS.
func tarjan(v *View) (map[EdgeKey]bool, []ArticulationPoint) {
	nodeIDs := v.NodeIDs()
	idToIdx := make(map[string]int, len(nodeIDs))
	for i, id := range nodeIDs {
		idToIdx[id] = i
	}
	n := len(nodeIDs)

	adjIdx := make([][]int, n)
	for i, id := range nodeIDs {
		for _, nb := range v.Adj[id] {
			adjIdx[i] = append(adjIdx[i], idToIdx[nb])
		}
	}

	disc := make([]int, n)
	low := make([]int, n)
	visited := make([]bool, n)
	isAP := make([]bool, n)
	cuts := make(map[EdgeKey]bool)
	counter := 1

	const noParent = -1

	type frame struct {
		node, parent, ni int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		visited[start] = true
		disc[start] = counter
		low[start] = counter
		counter++

		stack := []frame{{start, noParent, 0}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := top.node
			parent := top.parent

			if top.ni < len(adjIdx[node]) {
				child := adjIdx[node][top.ni]
				top.ni++

				if child == parent {
					continue
				}

				if visited[child] {
					// Back edge
					if disc[child] < low[node] {
						low[node] = disc[child]
					}
				} else {
					// Tree edge
					visited[child] = true
					disc[child] = counter
					low[child] = counter
					counter++

					if node == start {
						rootChildren++
					}

					stack = append(stack, frame{child, node, 0})
				}
			} else {
				// Done with this node, pop and propagate
				stack = stack[:len(stack)-1]

				if len(stack) > 0 {
					parentFrame := &stack[len(stack)-1]
					pn := parentFrame.node

					if low[node] < low[pn] {
						low[pn] = low[node]
					}

					// Bridge check
					if low[node] > disc[pn] {
						cuts[edgeKey(nodeIDs[pn], nodeIDs[node])] = true
					}

					// AP check (non-root)
					if pn != start && low[node] >= disc[pn] {
						isAP[pn] = true
					}
				}
			}
		}

		// Root is AP if 2+ tree children
		if rootChildren >= 2 {
			isAP[start] = true
		}
	}

	var aps []ArticulationPoint
	for i := 0; i < n; i++ {
		if isAP[i] {
			id := nodeIDs[i]
			aps = append(aps, ArticulationPoint{
				ID:     id,
				Title:  nodeTitle(v, id),
				Degree: len(adjIdx[i]),
			})
		}
	}
	return cuts, aps
}
