// Package retrieve implements hybrid search over the knowledge graph:
// full-text hits, one-hop graph expansion, and an optional vector signal,
// fused with Reciprocal Rank Fusion, then rendered into token-budgeted
// context tiers.
package retrieve

import (
	"math"
	"sort"

	"kindex/kin/internal/store"
)

// rrfK is the Reciprocal Rank Fusion constant; 60 is the standard value
// from the original RRF paper and keeps rank 0 and rank 10 close enough
// that agreement across lists dominates position within one list.
const rrfK = 60

// Result is a retrieved node with its fused score and outgoing edges.
type Result struct {
	store.Node
	RRFScore float64
	EdgesOut []store.Edge
}

// Engine runs hybrid retrieval against a store, with an optional vector
// similarity source.
type Engine struct {
	Store  *store.Store
	Vector VectorSource
}

// NewEngine creates an engine without a vector source.
func NewEngine(s *store.Store) *Engine {
	return &Engine{Store: s}
}

type scored struct {
	id    string
	score float64
}

// rrfMerge fuses ranked lists: each list contributes 1/(k+rank+1) per
// item, summed across lists. Ties break on node ID for determinism.
func rrfMerge(lists ...[]scored) []scored {
	scores := make(map[string]float64)
	for _, ranked := range lists {
		for rank, s := range ranked {
			scores[s.id] += 1.0 / float64(rrfK+rank+1)
		}
	}
	merged := make([]scored, 0, len(scores))
	for id, score := range scores {
		merged = append(merged, scored{id: id, score: score})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].id < merged[j].id
	})
	return merged
}

// SearchOptions tunes a hybrid search.
type SearchOptions struct {
	TopK        int
	ExpandGraph bool
}

// DefaultSearchOptions matches the interactive query path.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{TopK: 10, ExpandGraph: true}
}

// Search runs the hybrid pipeline:
//
//  1. full-text search at 3x the requested top-K, scored by match rank
//     plus node weight
//  2. one-hop graph expansion from the top 5 text hits, neighbors scored
//     by edge weight times the originating hit's score
//  3. optional vector similarity, scored by inverse distance
//  4. Reciprocal Rank Fusion across whichever lists exist
//
// The top-K fused nodes come back enriched with their strongest five
// outgoing edges. Given the same store state and sources, ordering is
// identical across calls.
func (e *Engine) Search(query string, opts SearchOptions) ([]Result, error) {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	ftsResults, err := e.Store.FullTextSearch(query, opts.TopK*3)
	if err != nil {
		return nil, err
	}
	ftsRanked := make([]scored, 0, len(ftsResults))
	for _, r := range ftsResults {
		ftsRanked = append(ftsRanked, scored{
			id:    r.ID,
			score: math.Abs(r.Rank) + r.Weight,
		})
	}

	var graphRanked []scored
	if opts.ExpandGraph && len(ftsRanked) > 0 {
		seen := make(map[string]bool, len(ftsRanked))
		for _, s := range ftsRanked {
			seen[s.id] = true
		}
		limit := 5
		if len(ftsRanked) < limit {
			limit = len(ftsRanked)
		}
		for _, hit := range ftsRanked[:limit] {
			edges, err := e.Store.EdgesFrom(hit.id)
			if err != nil {
				return nil, err
			}
			for _, edge := range edges {
				if seen[edge.ToID] {
					continue
				}
				seen[edge.ToID] = true
				graphRanked = append(graphRanked, scored{
					id:    edge.ToID,
					score: edge.Weight * hit.score,
				})
			}
		}
	}

	var vectorRanked []scored
	if e.Vector != nil && e.Vector.IsAvailable() {
		matches, err := e.Vector.Search(query, opts.TopK)
		if err == nil {
			for _, m := range matches {
				vectorRanked = append(vectorRanked, scored{
					id:    m.ID,
					score: 1.0 / (1.0 + m.Distance),
				})
			}
		}
	}

	var merged []scored
	lists := 0
	for _, l := range [][]scored{ftsRanked, graphRanked, vectorRanked} {
		if len(l) > 0 {
			lists++
		}
	}
	if lists > 1 {
		merged = rrfMerge(ftsRanked, graphRanked, vectorRanked)
	} else {
		merged = ftsRanked
		if len(merged) == 0 {
			merged = graphRanked
		}
		if len(merged) == 0 {
			merged = vectorRanked
		}
	}

	results := make([]Result, 0, opts.TopK)
	for _, s := range merged {
		if len(results) >= opts.TopK {
			break
		}
		node, err := e.Store.GetNode(s.id)
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		edges, err := e.Store.EdgesFrom(s.id)
		if err != nil {
			return nil, err
		}
		if len(edges) > 5 {
			edges = edges[:5]
		}
		results = append(results, Result{
			Node:     *node,
			RRFScore: round6(s.score),
			EdgesOut: edges,
		})
	}
	return results, nil
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
