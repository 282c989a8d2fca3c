package graph

import "sort"

// CentralityScore pairs a node with a centrality value.
type CentralityScore struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// EdgeKey identifies an undirected edge with endpoints in sorted order.
type EdgeKey struct {
	A, B string
}

func edgeKey(a, b string) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Betweenness computes node betweenness centrality on the undirected
// projection using Brandes' algorithm. Scores are normalized by
// (n-1)(n-2)/2 for n > 2.
func Betweenness(v *View) map[string]float64 {
	node, _ := brandes(v, false)
	return node
}

// EdgeBetweenness computes betweenness centrality per undirected edge.
func EdgeBetweenness(v *View) map[EdgeKey]float64 {
	_, edge := brandes(v, true)
	return edge
}

// brandes runs the single-source accumulation from every node. BFS order
// follows the sorted adjacency in View so results are deterministic.
func brandes(v *View, wantEdges bool) (map[string]float64, map[EdgeKey]float64) {
	ids := v.NodeIDs()
	n := len(ids)
	nodeBC := make(map[string]float64, n)
	for _, id := range ids {
		nodeBC[id] = 0
	}
	var edgeBC map[EdgeKey]float64
	if wantEdges {
		edgeBC = make(map[EdgeKey]float64)
	}

	for _, source := range ids {
		var stack []string
		pred := make(map[string][]string)
		sigma := map[string]float64{source: 1}
		dist := map[string]int{source: 0}
		queue := []string{source}

		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			stack = append(stack, u)
			for _, w := range v.Adj[u] {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[u] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[u]+1 {
					sigma[w] += sigma[u]
					pred[w] = append(pred[w], u)
				}
			}
		}

		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, u := range pred[w] {
				c := sigma[u] / sigma[w] * (1 + delta[w])
				delta[u] += c
				if wantEdges {
					edgeBC[edgeKey(u, w)] += c
				}
			}
			if w != source {
				nodeBC[w] += delta[w]
			}
		}
	}

	// Undirected: every pair counted twice.
	if n > 2 {
		scale := 1.0 / (float64(n-1) * float64(n-2))
		for id := range nodeBC {
			nodeBC[id] *= scale
		}
	} else {
		for id := range nodeBC {
			nodeBC[id] = 0
		}
	}
	if wantEdges {
		for k := range edgeBC {
			edgeBC[k] /= 2
		}
	}
	return nodeBC, edgeBC
}

// DegreeCentrality returns degree/(n-1) per node on the undirected
// projection.
func DegreeCentrality(v *View) map[string]float64 {
	n := len(v.Nodes)
	out := make(map[string]float64, n)
	for id := range v.Nodes {
		if n > 1 {
			out[id] = float64(len(v.Adj[id])) / float64(n-1)
		} else {
			out[id] = 0
		}
	}
	return out
}

// Closeness computes closeness centrality per node: (reachable-1)/sum of
// BFS distances, scaled by the reachable fraction so disconnected graphs
// compare sanely.
func Closeness(v *View) map[string]float64 {
	ids := v.NodeIDs()
	n := len(ids)
	out := make(map[string]float64, n)

	for _, source := range ids {
		dist := map[string]int{source: 0}
		queue := []string{source}
		total := 0
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, w := range v.Adj[u] {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[u] + 1
					total += dist[w]
					queue = append(queue, w)
				}
			}
		}
		reachable := len(dist) - 1
		if reachable <= 0 || total == 0 {
			out[source] = 0
			continue
		}
		closeness := float64(reachable) / float64(total)
		if n > 1 {
			closeness *= float64(reachable) / float64(n-1)
		}
		out[source] = closeness
	}
	return out
}

// TopCentral ranks nodes by a centrality map and returns the top-N with
// titles filled in. Ties break on node ID.
func TopCentral(v *View, scores map[string]float64, topN int) []CentralityScore {
	ranked := make([]CentralityScore, 0, len(scores))
	for id, score := range scores {
		title := ""
		if n, ok := v.Nodes[id]; ok {
			title = n.Title
		}
		ranked = append(ranked, CentralityScore{ID: id, Title: title, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
