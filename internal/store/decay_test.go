package store

import (
	"testing"
	"time"
)

func backdateNode(t *testing.T, s *Store, id string, days int) {
	t.Helper()
	past := time.Now().AddDate(0, 0, -days).Format(timeLayout)
	if _, err := s.conn.Exec("UPDATE nodes SET last_accessed = ? WHERE id = ?", past, id); err != nil {
		t.Fatalf("backdating node: %v", err)
	}
}

func backdateEdges(t *testing.T, s *Store, days int) {
	t.Helper()
	past := time.Now().AddDate(0, 0, -days).Format(timeLayout)
	if _, err := s.conn.Exec("UPDATE edges SET created_at = ?", past); err != nil {
		t.Fatalf("backdating edges: %v", err)
	}
}

func nodeWeight(t *testing.T, s *Store, id string) float64 {
	t.Helper()
	var w float64
	if err := s.conn.QueryRow("SELECT weight FROM nodes WHERE id = ?", id).Scan(&w); err != nil {
		t.Fatalf("reading weight: %v", err)
	}
	return w
}

func TestApplyWeightDecay_HalfLife(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Old", Weight: 0.8})
	backdateNode(t, s, id, 90)

	changed, err := s.ApplyWeightDecay(90, 30)
	if err != nil {
		t.Fatalf("ApplyWeightDecay: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	w := nodeWeight(t, s, id)
	if w < 0.39 || w > 0.41 {
		t.Errorf("weight after one half-life = %v, want ~0.4", w)
	}
}

func TestApplyWeightDecay_FreshNodesUntouched(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Fresh", Weight: 0.8})

	changed, err := s.ApplyWeightDecay(90, 30)
	if err != nil {
		t.Fatalf("ApplyWeightDecay: %v", err)
	}
	if changed != 0 {
		t.Errorf("changed = %d, want 0", changed)
	}
	if w := nodeWeight(t, s, id); w != 0.8 {
		t.Errorf("fresh node decayed to %v", w)
	}
}

func TestApplyWeightDecay_Floor(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Ancient", Weight: 0.5})
	backdateNode(t, s, id, 3650)

	if _, err := s.ApplyWeightDecay(90, 30); err != nil {
		t.Fatalf("ApplyWeightDecay: %v", err)
	}
	if w := nodeWeight(t, s, id); w != 0.01 {
		t.Errorf("weight = %v, want floor 0.01", w)
	}
}

func TestApplyWeightDecay_EdgeFasterHalfLife(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b, Weight: 0.8, Unidirectional: true})
	backdateEdges(t, s, 30)

	if _, err := s.ApplyWeightDecay(90, 30); err != nil {
		t.Fatalf("ApplyWeightDecay: %v", err)
	}
	edges, err := s.EdgesFrom(a)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("edge missing")
	}
	if w := edges[0].Weight; w < 0.39 || w > 0.41 {
		t.Errorf("edge weight after 30 days = %v, want ~0.4", w)
	}
}

func TestApplyWeightDecay_EdgePersistedTimestamp(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b, Weight: 0.8, Unidirectional: true})

	var created string
	if err := s.conn.QueryRow("SELECT created_at FROM edges").Scan(&created); err != nil {
		t.Fatalf("reading created_at: %v", err)
	}
	ts, err := time.ParseInLocation(timeLayout, created, time.Local)
	if err != nil {
		t.Fatalf("persisted created_at %q not in store layout: %v", created, err)
	}

	// Backdate in the same layout the row was persisted with.
	past := ts.AddDate(0, 0, -60).Format(timeLayout)
	if _, err := s.conn.Exec("UPDATE edges SET created_at = ?", past); err != nil {
		t.Fatalf("backdating edge: %v", err)
	}
	if _, err := s.ApplyWeightDecay(90, 30); err != nil {
		t.Fatalf("ApplyWeightDecay: %v", err)
	}
	edges, err := s.EdgesFrom(a)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("edge missing")
	}
	if w := edges[0].Weight; w < 0.19 || w > 0.21 {
		t.Errorf("edge weight after 60 days = %v, want ~0.2", w)
	}
}

func TestApplyWeightDecay_EdgeLegacyTimestamp(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b, Weight: 0.8, Unidirectional: true})

	// Rows written before explicit created_at carry SQLite's default:
	// space-separated UTC from datetime('now').
	if _, err := s.conn.Exec("UPDATE edges SET created_at = datetime('now', '-60 days')"); err != nil {
		t.Fatalf("backdating edge: %v", err)
	}
	if _, err := s.ApplyWeightDecay(90, 30); err != nil {
		t.Fatalf("ApplyWeightDecay: %v", err)
	}
	edges, err := s.EdgesFrom(a)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("edge missing")
	}
	if w := edges[0].Weight; w < 0.19 || w > 0.21 {
		t.Errorf("edge weight after 60 days = %v, want ~0.2", w)
	}
}

func TestApplyWeightDecay_Monotone(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Repeat", Weight: 0.9})
	backdateNode(t, s, id, 45)

	if _, err := s.ApplyWeightDecay(90, 30); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	first := nodeWeight(t, s, id)
	if first >= 0.9 {
		t.Fatalf("no decay applied: %v", first)
	}

	backdateNode(t, s, id, 45)
	if _, err := s.ApplyWeightDecay(90, 30); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	second := nodeWeight(t, s, id)
	if second > first {
		t.Errorf("decay increased weight: %v -> %v", first, second)
	}
}
