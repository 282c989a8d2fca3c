package store

import (
	"errors"
	"testing"
)

func TestAddNode_Defaults(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Stigmergy"})

	node, err := s.GetNode(id)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if node == nil {
		t.Fatal("node not found after add")
	}
	if node.Type != "concept" {
		t.Errorf("type = %q, want concept", node.Type)
	}
	if node.Status != "active" {
		t.Errorf("status = %q, want active", node.Status)
	}
	if node.Audience != "private" {
		t.Errorf("audience = %q, want private", node.Audience)
	}
	if node.Weight != 0.5 {
		t.Errorf("weight = %v, want 0.5", node.Weight)
	}
	if node.CreatedAt == "" || node.UpdatedAt == "" {
		t.Error("timestamps not set")
	}
}

func TestAddNode_ExplicitIDIdempotent(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{ID: "n1", Title: "First"})
	mustAdd(t, s, NodeParams{ID: "n1", Title: "Second"})

	stats, err := s.GraphStats()
	if err != nil {
		t.Fatalf("GraphStats: %v", err)
	}
	if stats.Nodes != 1 {
		t.Errorf("re-adding same id created %d nodes, want 1", stats.Nodes)
	}
	node, _ := s.GetNode("n1")
	if node.Title != "Second" {
		t.Errorf("title = %q, want replacement to win", node.Title)
	}
}

func TestGetNode_Missing(t *testing.T) {
	s := newTestStore(t)
	node, err := s.GetNode("nope")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if node != nil {
		t.Errorf("expected nil for missing node, got %+v", node)
	}
}

func TestGetNodeByTitle_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Stigmergy"})

	node, err := s.GetNodeByTitle("STIGMERGY")
	if err != nil {
		t.Fatalf("GetNodeByTitle: %v", err)
	}
	if node == nil {
		t.Fatal("case-insensitive title lookup failed")
	}
}

func TestGetNodeByTitle_AKA(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Stigmergy", AKA: []string{"indirect coordination"}})

	node, err := s.GetNodeByTitle("Indirect Coordination")
	if err != nil {
		t.Fatalf("GetNodeByTitle: %v", err)
	}
	if node == nil {
		t.Fatal("AKA lookup failed")
	}
	if node.Title != "Stigmergy" {
		t.Errorf("resolved to %q, want Stigmergy", node.Title)
	}
}

func TestUpdateNode_Whitelist(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Old"})

	if err := s.UpdateNode(id, map[string]any{"title": "New", "weight": 0.9}); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	node, _ := s.GetNode(id)
	if node.Title != "New" || node.Weight != 0.9 {
		t.Errorf("update not applied: %+v", node)
	}
}

func TestUpdateNode_UnknownField(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "X"})

	err := s.UpdateNode(id, map[string]any{"created_at": "1999-01-01T00:00:00"})
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestUpdateNode_Missing(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateNode("ghost", map[string]any{"title": "X"}); err == nil {
		t.Error("expected error updating missing node")
	}
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b})

	if err := s.DeleteNode(b); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	edges, err := s.EdgesFrom(a)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("edges survived node deletion: %+v", edges)
	}
}

func TestPersonAutoLink(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{
		Title:    "Design review",
		Type:     "decision",
		Who:      []string{"Alice"},
		Activity: "meeting",
	})

	person, err := s.GetNodeByTitle("Alice")
	if err != nil {
		t.Fatalf("GetNodeByTitle: %v", err)
	}
	if person == nil {
		t.Fatal("person node not auto-created")
	}
	if person.Type != "person" {
		t.Errorf("auto-created type = %q, want person", person.Type)
	}

	edges, err := s.EdgesFrom(id)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	var found bool
	for _, e := range edges {
		if e.ToID == person.ID && e.Type == "context_of" {
			found = true
			if e.Weight != 0.4 {
				t.Errorf("context_of weight = %v, want 0.4", e.Weight)
			}
		}
	}
	if !found {
		t.Error("context_of edge to person not created")
	}

	// Auto-link is one-way; no reverse edge back to the decision.
	back, err := s.EdgesFrom(person.ID)
	if err != nil {
		t.Fatalf("EdgesFrom(person): %v", err)
	}
	for _, e := range back {
		if e.ToID == id {
			t.Errorf("unexpected reverse edge from person: %+v", e)
		}
	}
}

func TestPersonAutoLink_SkippedWithoutActivity(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Note", Who: []string{"Bob"}})

	person, err := s.GetNodeByTitle("Bob")
	if err != nil {
		t.Fatalf("GetNodeByTitle: %v", err)
	}
	if person != nil {
		t.Error("person auto-created without an activity")
	}
}

func TestOrphans(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "Connected A"})
	b := mustAdd(t, s, NodeParams{Title: "Connected B"})
	mustAdd(t, s, NodeParams{Title: "Alone"})
	mustLink(t, s, EdgeParams{From: a, To: b})

	orphans, err := s.Orphans()
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0].Title != "Alone" {
		t.Errorf("orphans = %+v, want just Alone", orphans)
	}
}

func TestAllNodes_Filters(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Q1", Type: "question"})
	mustAdd(t, s, NodeParams{Title: "Q2", Type: "question", Status: "resolved"})
	mustAdd(t, s, NodeParams{Title: "C1", Type: "concept"})

	questions, err := s.AllNodes(NodeFilter{Type: "question", Status: "active"})
	if err != nil {
		t.Fatalf("AllNodes: %v", err)
	}
	if len(questions) != 1 || questions[0].Title != "Q1" {
		t.Errorf("filtered nodes = %+v, want just Q1", questions)
	}
}

func TestAllNodes_OrderedByWeight(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Light", Weight: 0.2})
	mustAdd(t, s, NodeParams{Title: "Heavy", Weight: 0.9})
	mustAdd(t, s, NodeParams{Title: "Middle", Weight: 0.5})

	nodes, err := s.AllNodes(NodeFilter{})
	if err != nil {
		t.Fatalf("AllNodes: %v", err)
	}
	if len(nodes) != 3 || nodes[0].Title != "Heavy" || nodes[2].Title != "Light" {
		t.Errorf("unexpected ordering: %v, %v, %v", nodes[0].Title, nodes[1].Title, nodes[2].Title)
	}
}
