package graph

import (
	"math"
	"sort"
)

// Trailhead is a good starting point for exploring the graph: a node that
// sits on many shortest paths and fans out broadly.
type Trailhead struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Score       float64 `json:"score"`
	Betweenness float64 `json:"betweenness"`
	OutDegree   int     `json:"out_degree"`
}

// Trailheads ranks nodes by betweenness boosted by out-degree:
// betweenness * (1 + ln(1 + out_degree)). topN caps the result.
func Trailheads(v *View, topN int) []Trailhead {
	bc := Betweenness(v)

	heads := make([]Trailhead, 0, len(v.Nodes))
	for _, id := range v.NodeIDs() {
		node := v.Nodes[id]
		outDeg := len(v.Out[id])
		score := bc[id] * (1 + math.Log(1+float64(outDeg)))
		heads = append(heads, Trailhead{
			ID:          id,
			Title:       node.Title,
			Type:        node.Type,
			Score:       score,
			Betweenness: bc[id],
			OutDegree:   outDeg,
		})
	}

	sort.Slice(heads, func(i, j int) bool {
		if heads[i].Score != heads[j].Score {
			return heads[i].Score > heads[j].Score
		}
		return heads[i].ID < heads[j].ID
	})
	if topN > 0 && len(heads) > topN {
		heads = heads[:topN]
	}
	return heads
}
