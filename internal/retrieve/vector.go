package retrieve

import (
	"fmt"
	"sort"

	"kindex/kin/internal/graph"
	"kindex/kin/internal/store"
)

// VectorMatch is one hit from a similarity source.
type VectorMatch struct {
	ID       string
	Distance float64 // lower is closer
}

// VectorSource is an optional embedding-similarity signal. The engine
// probes IsAvailable before each search, so a source may come and go
// (missing model, unreachable service) without breaking retrieval.
type VectorSource interface {
	IsAvailable() bool
	Search(query string, topK int) ([]VectorMatch, error)
}

// EmbedFunc turns text into an embedding vector.
type EmbedFunc func(text string) ([]float32, error)

// StoredVectorSource serves similarity search from embeddings persisted
// in the store, using an injected embedding function for queries.
type StoredVectorSource struct {
	Store *store.Store
	Embed EmbedFunc
}

// IsAvailable reports whether queries can be embedded and at least one
// node embedding exists.
func (s *StoredVectorSource) IsAvailable() bool {
	if s == nil || s.Store == nil || s.Embed == nil {
		return false
	}
	embs, err := s.Store.NodeEmbeddings()
	return err == nil && len(embs) > 0
}

// Search embeds the query and ranks stored embeddings by cosine
// similarity, reported as distance = 1 - similarity.
func (s *StoredVectorSource) Search(query string, topK int) ([]VectorMatch, error) {
	target, err := s.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	embs, err := s.Store.NodeEmbeddings()
	if err != nil {
		return nil, err
	}

	matches := make([]VectorMatch, 0, len(embs))
	for _, e := range embs {
		sim := graph.CosineSimilarity(target, e.Embedding)
		matches = append(matches, VectorMatch{ID: e.ID, Distance: 1 - float64(sim)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
