package store

import "testing"

func TestFullTextSearch_MatchesContent(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Stigmergy", Content: "Indirect coordination through environment traces."})
	mustAdd(t, s, NodeParams{Title: "Unrelated", Content: "Grocery list."})

	results, err := s.FullTextSearch("coordination", 10)
	if err != nil {
		t.Fatalf("FullTextSearch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Title != "Stigmergy" {
		t.Errorf("hit = %q, want Stigmergy", results[0].Title)
	}
}

func TestFullTextSearch_MatchesTitle(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Emergence", Content: "..."})

	results, err := s.FullTextSearch("emergence", 10)
	if err != nil {
		t.Fatalf("FullTextSearch: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Emergence" {
		t.Errorf("title search failed: %+v", results)
	}
}

func TestFullTextSearch_QuotedQuery(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Quoting", Content: `He said "hello" twice.`})

	// Embedded quotes must not surface an FTS syntax error.
	results, err := s.FullTextSearch(`"hello"`, 10)
	if err != nil {
		t.Fatalf("quoted query errored: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestFullTextSearch_IndexFollowsDelete(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Ephemeral", Content: "transient"})
	if err := s.DeleteNode(id); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	results, err := s.FullTextSearch("transient", 10)
	if err != nil {
		t.Fatalf("FullTextSearch: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("deleted node still indexed: %+v", results)
	}
}

func TestFullTextSearch_IndexFollowsUpdate(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Mutable", Content: "before"})
	if err := s.UpdateNode(id, map[string]any{"content": "after"}); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	old, err := s.FullTextSearch("before", 10)
	if err != nil {
		t.Fatalf("FullTextSearch: %v", err)
	}
	if len(old) != 0 {
		t.Errorf("stale content still indexed")
	}
	cur, err := s.FullTextSearch("after", 10)
	if err != nil {
		t.Fatalf("FullTextSearch: %v", err)
	}
	if len(cur) != 1 {
		t.Errorf("updated content not indexed")
	}
}
