package retrieve

import (
	"testing"

	"kindex/kin/internal/store"
)

// stubEmbed maps a few known strings to fixed vectors.
func stubEmbed(text string) ([]float32, error) {
	switch text {
	case "ants":
		return []float32{1, 0}, nil
	default:
		return []float32{0, 1}, nil
	}
}

func TestStoredVectorSource_Unavailable(t *testing.T) {
	_, s := newTestEngine(t)
	src := &StoredVectorSource{Store: s, Embed: stubEmbed}
	if src.IsAvailable() {
		t.Errorf("available with no stored embeddings")
	}
	if (&StoredVectorSource{Store: s}).IsAvailable() {
		t.Errorf("available without an embed function")
	}
}

func TestStoredVectorSource_Search(t *testing.T) {
	_, s := newTestEngine(t)
	a := addNode(t, s, store.NodeParams{Title: "Ant trails"})
	b := addNode(t, s, store.NodeParams{Title: "Tax law"})
	if err := s.SetNodeEmbedding(a, []float32{0.9, 0.1}); err != nil {
		t.Fatalf("SetNodeEmbedding: %v", err)
	}
	if err := s.SetNodeEmbedding(b, []float32{0.1, 0.9}); err != nil {
		t.Fatalf("SetNodeEmbedding: %v", err)
	}

	src := &StoredVectorSource{Store: s, Embed: stubEmbed}
	if !src.IsAvailable() {
		t.Fatalf("source should be available")
	}
	matches, err := src.Search("ants", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != a {
		t.Errorf("closest = %q, want %q", matches[0].ID, a)
	}
	if matches[0].Distance >= matches[1].Distance {
		t.Errorf("distances not ascending: %+v", matches)
	}
}

func TestStoredVectorSource_TopK(t *testing.T) {
	_, s := newTestEngine(t)
	for _, title := range []string{"One", "Two", "Three"} {
		id := addNode(t, s, store.NodeParams{Title: title})
		if err := s.SetNodeEmbedding(id, []float32{0.5, 0.5}); err != nil {
			t.Fatalf("SetNodeEmbedding: %v", err)
		}
	}
	src := &StoredVectorSource{Store: s, Embed: stubEmbed}
	matches, err := src.Search("anything", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("len = %d, want 2", len(matches))
	}
}
