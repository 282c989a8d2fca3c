package store

import "testing"

func TestSuggestions_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	id, err := s.AddSuggestion("Stigmergy", "Pheromone Trails", "shared mechanism", "graph-analysis")
	if err != nil {
		t.Fatalf("AddSuggestion: %v", err)
	}
	if id == 0 {
		t.Fatalf("suggestion id = 0")
	}

	pending, err := s.PendingSuggestions(0)
	if err != nil {
		t.Fatalf("PendingSuggestions: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending, want 1", len(pending))
	}
	sg := pending[0]
	if sg.ConceptA != "Stigmergy" || sg.ConceptB != "Pheromone Trails" || sg.Status != "pending" {
		t.Errorf("suggestion = %+v", sg)
	}

	if err := s.UpdateSuggestion(id, "accepted"); err != nil {
		t.Fatalf("UpdateSuggestion: %v", err)
	}
	pending, err = s.PendingSuggestions(0)
	if err != nil {
		t.Fatalf("PendingSuggestions: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("accepted suggestion still pending")
	}
}

func TestPendingSuggestions_Limit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.AddSuggestion("a", "b", "r", "s"); err != nil {
			t.Fatalf("AddSuggestion: %v", err)
		}
	}
	got, err := s.PendingSuggestions(3)
	if err != nil {
		t.Fatalf("PendingSuggestions: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d, want 3", len(got))
	}
}

func TestMeta_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetMeta("codebook_hash", "abc123"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	v, ok, err := s.GetMeta("codebook_hash")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if !ok || v != "abc123" {
		t.Errorf("got (%q, %v)", v, ok)
	}

	if err := s.SetMeta("codebook_hash", "def456"); err != nil {
		t.Fatalf("SetMeta upsert: %v", err)
	}
	v, _, _ = s.GetMeta("codebook_hash")
	if v != "def456" {
		t.Errorf("upsert = %q, want def456", v)
	}

	_, ok, err = s.GetMeta("never-set")
	if err != nil {
		t.Fatalf("GetMeta missing: %v", err)
	}
	if ok {
		t.Errorf("missing key reported present")
	}
}
