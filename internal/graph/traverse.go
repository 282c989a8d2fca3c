package graph

import (
	"container/heap"
)

// TraversalHop is one node reached during weighted expansion.
type TraversalHop struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Depth    int     `json:"depth"`
	Strength float64 `json:"strength"` // product of edge weights on the path
	Via      string  `json:"via"`      // edge type that reached this node
	Parent   string  `json:"parent"`
}

// TraverseOptions bounds a weighted expansion.
type TraverseOptions struct {
	MaxDepth    int
	MinStrength float64
	MaxNodes    int
}

// DefaultTraverseOptions matches interactive context assembly: two hops,
// pruning paths whose cumulative strength drops below 0.2.
func DefaultTraverseOptions() TraverseOptions {
	return TraverseOptions{MaxDepth: 2, MinStrength: 0.2, MaxNodes: 50}
}

// strengthHeap orders frontier entries by descending strength; ties break
// on node ID so expansion order never depends on map iteration.
type strengthHeap []TraversalHop

func (h strengthHeap) Len() int { return len(h) }
func (h strengthHeap) Less(i, j int) bool {
	if h[i].Strength != h[j].Strength {
		return h[i].Strength > h[j].Strength
	}
	return h[i].ID < h[j].ID
}
func (h strengthHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *strengthHeap) Push(x any)        { *h = append(*h, x.(TraversalHop)) }
func (h *strengthHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Traverse expands outward from startID along outgoing edges. Path
// strength is the product of edge weights; a node is settled at the
// strongest path that reaches it. The start node itself is the first hop
// with strength 1.
func Traverse(v *View, startID string, opts TraverseOptions) []TraversalHop {
	start, ok := v.Nodes[startID]
	if !ok {
		return nil
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 2
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = 50
	}

	frontier := &strengthHeap{{
		ID:       start.ID,
		Title:    start.Title,
		Type:     start.Type,
		Depth:    0,
		Strength: 1,
	}}
	heap.Init(frontier)

	settled := make(map[string]bool)
	var hops []TraversalHop

	for frontier.Len() > 0 && len(hops) < opts.MaxNodes {
		hop := heap.Pop(frontier).(TraversalHop)
		if settled[hop.ID] {
			continue
		}
		settled[hop.ID] = true
		hops = append(hops, hop)

		if hop.Depth >= opts.MaxDepth {
			continue
		}
		for _, e := range v.Out[hop.ID] {
			if settled[e.To] {
				continue
			}
			strength := hop.Strength * e.Weight
			if strength < opts.MinStrength {
				continue
			}
			next, ok := v.Nodes[e.To]
			if !ok {
				continue
			}
			heap.Push(frontier, TraversalHop{
				ID:       next.ID,
				Title:    next.Title,
				Type:     next.Type,
				Depth:    hop.Depth + 1,
				Strength: strength,
				Via:      e.Type,
				Parent:   hop.ID,
			})
		}
	}
	return hops
}
