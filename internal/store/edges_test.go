package store

import (
	"errors"
	"testing"
)

func TestAddEdge_ReverseAtReducedWeight(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b, Type: "relates_to", Weight: 1.0})

	forward, err := s.EdgesFrom(a)
	if err != nil {
		t.Fatalf("EdgesFrom(a): %v", err)
	}
	if len(forward) != 1 || forward[0].Weight != 1.0 {
		t.Fatalf("forward edge = %+v, want weight 1.0", forward)
	}

	reverse, err := s.EdgesFrom(b)
	if err != nil {
		t.Fatalf("EdgesFrom(b): %v", err)
	}
	if len(reverse) != 1 {
		t.Fatalf("reverse edge missing")
	}
	if reverse[0].Weight != 0.8 {
		t.Errorf("reverse weight = %v, want 0.8", reverse[0].Weight)
	}
}

func TestAddEdge_ReverseNotOverwritten(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: b, To: a, Type: "relates_to", Weight: 0.3})
	mustLink(t, s, EdgeParams{From: a, To: b, Type: "relates_to", Weight: 1.0})

	// b->a already existed at 0.3; the implicit reverse must not clobber it.
	edges, err := s.EdgesFrom(b)
	if err != nil {
		t.Fatalf("EdgesFrom(b): %v", err)
	}
	for _, e := range edges {
		if e.ToID == a && e.Type == "relates_to" && e.Weight != 0.3 {
			t.Errorf("existing reverse edge overwritten: weight = %v, want 0.3", e.Weight)
		}
	}
}

func TestAddEdge_Unidirectional(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b, Weight: 0.9, Unidirectional: true})

	reverse, err := s.EdgesFrom(b)
	if err != nil {
		t.Fatalf("EdgesFrom(b): %v", err)
	}
	if len(reverse) != 0 {
		t.Errorf("one-way edge produced a reverse: %+v", reverse)
	}
}

func TestAddEdge_MissingEndpoint(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})

	err := s.AddEdge(EdgeParams{From: a, To: "ghost"})
	if !errors.Is(err, ErrMissingNode) {
		t.Errorf("expected ErrMissingNode, got %v", err)
	}
	err = s.AddEdge(EdgeParams{From: "ghost", To: a})
	if !errors.Is(err, ErrMissingNode) {
		t.Errorf("expected ErrMissingNode, got %v", err)
	}
}

func TestAddEdge_UpsertSamePair(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b, Type: "informs", Weight: 0.4})
	mustLink(t, s, EdgeParams{From: a, To: b, Type: "informs", Weight: 0.7})

	edges, err := s.EdgesFrom(a)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	var count int
	for _, e := range edges {
		if e.ToID == b && e.Type == "informs" {
			count++
			if e.Weight != 0.7 {
				t.Errorf("upsert weight = %v, want 0.7", e.Weight)
			}
		}
	}
	if count != 1 {
		t.Errorf("duplicate (from,to,type) rows: %d", count)
	}
}

func TestEdgesFrom_CarriesNeighborTitle(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A"})
	b := mustAdd(t, s, NodeParams{Title: "Target"})
	mustLink(t, s, EdgeParams{From: a, To: b})

	edges, err := s.EdgesFrom(a)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if len(edges) == 0 || edges[0].NeighborTitle != "Target" {
		t.Errorf("neighbor title not joined: %+v", edges)
	}
}
