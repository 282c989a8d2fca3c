package store

import (
	"testing"
	"time"
)

func TestActivityLog_RecordsWrites(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, NodeParams{Title: "A", Who: []string{"dana"}, Activity: "writing"})
	b := mustAdd(t, s, NodeParams{Title: "B"})
	mustLink(t, s, EdgeParams{From: a, To: b})

	entries, err := s.RecentActivity(50)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	actions := map[string]int{}
	for _, e := range entries {
		actions[e.Action]++
	}
	// Node A auto-links its person, so two add_node entries plus the
	// auto-created person node.
	if actions["add_node"] < 2 {
		t.Errorf("add_node entries = %d, want >= 2", actions["add_node"])
	}
	if actions["add_edge"] < 1 {
		t.Errorf("add_edge entries = %d, want >= 1", actions["add_edge"])
	}
}

func TestActivityLog_ActorFromWho(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "Note", Who: []string{"dana"}, Activity: "writing"})

	entries, err := s.ActivityByActor("dana", 10)
	if err != nil {
		t.Fatalf("ActivityByActor: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("no entries for actor")
	}
	if entries[0].TargetTitle != "Note" {
		t.Errorf("target title = %q, want Note", entries[0].TargetTitle)
	}
}

func TestActivitySince_ActionFilter(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, NodeParams{Title: "Tracked"})
	if err := s.UpdateNode(id, map[string]any{"content": "edited"}); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}

	since := time.Now().AddDate(0, 0, -1).Format(timeLayout)
	entries, err := s.ActivitySince(since, "update_node")
	if err != nil {
		t.Fatalf("ActivitySince: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Action != "update_node" {
		t.Errorf("action = %q", entries[0].Action)
	}
}

func TestRecentActivity_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NodeParams{Title: "First"})
	mustAdd(t, s, NodeParams{Title: "Second"})

	entries, err := s.RecentActivity(10)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].TargetTitle != "Second" {
		t.Errorf("newest entry = %q, want Second", entries[0].TargetTitle)
	}
}
