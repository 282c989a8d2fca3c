package mcpserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"kindex/kin/internal/retrieve"
	"kindex/kin/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "kin.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if r == nil || len(r.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	tc, ok := r.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", r.Content[0])
	}
	return tc.Text
}

func seedGraph(t *testing.T, s *store.Store) (a, b string) {
	t.Helper()
	a, err := s.AddNode(store.NodeParams{
		Title: "Stigmergy", Weight: 1.0,
		Content: "Coordination through environmental traces.",
	})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	b, err = s.AddNode(store.NodeParams{
		Title: "Emergence", Weight: 0.8,
		Content: "Macro behavior from micro rules.",
	})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := s.AddEdge(store.EdgeParams{From: a, To: b, Weight: 0.9}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return a, b
}

func TestSearchTool(t *testing.T) {
	s := newTestStore(t)
	seedGraph(t, s)
	tool := NewSearchTool(retrieve.NewEngine(s))

	if tool.Definition().Name != "kin_search" {
		t.Errorf("tool name = %q", tool.Definition().Name)
	}

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"query": "traces"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Stigmergy") {
		t.Errorf("result missing hit:\n%s", text)
	}
}

func TestSearchTool_MissingQuery(t *testing.T) {
	s := newTestStore(t)
	tool := NewSearchTool(retrieve.NewEngine(s))
	res, err := tool.Handle(context.Background(), makeReq(map[string]any{}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Errorf("missing query should return a tool error")
	}
}

func TestSearchTool_NoResults(t *testing.T) {
	s := newTestStore(t)
	tool := NewSearchTool(retrieve.NewEngine(s))
	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"query": "nothing"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resultText(t, res), "No nodes found") {
		t.Errorf("expected empty-result message")
	}
}

func TestAddTool(t *testing.T) {
	s := newTestStore(t)
	tool := NewAddTool(s)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"title":   "Ant colonies",
		"content": "Decentralized routing",
		"type":    "concept",
		"domains": "biology, systems",
		"weight":  0.7,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resultText(t, res), "Created node") {
		t.Errorf("unexpected response: %s", resultText(t, res))
	}

	n, err := s.GetNodeByTitle("Ant colonies")
	if err != nil || n == nil {
		t.Fatalf("node not stored: %v", err)
	}
	if n.Weight != 0.7 || len(n.Domains) != 2 {
		t.Errorf("stored node = %+v", n)
	}
}

func TestAddTool_MissingTitle(t *testing.T) {
	s := newTestStore(t)
	tool := NewAddTool(s)
	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"content": "body"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Errorf("missing title should return a tool error")
	}
}

func TestContextTool(t *testing.T) {
	s := newTestStore(t)
	seedGraph(t, s)
	tool := NewContextTool(retrieve.NewEngine(s))

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"topic": "coordination",
		"tier":  "abridged",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Kin") {
		t.Errorf("context block missing header:\n%s", text)
	}
}

func TestShowTool_ByTitle(t *testing.T) {
	s := newTestStore(t)
	seedGraph(t, s)
	tool := NewShowTool(s)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"node": "stigmergy"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "# Stigmergy") {
		t.Errorf("detail missing title:\n%s", text)
	}
	if !strings.Contains(text, "Emergence") {
		t.Errorf("detail missing edge neighbor:\n%s", text)
	}
}

func TestShowTool_NotFound(t *testing.T) {
	s := newTestStore(t)
	tool := NewShowTool(s)
	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"node": "ghost"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resultText(t, res), "No node found") {
		t.Errorf("expected not-found message")
	}
}

func TestLinkTool(t *testing.T) {
	s := newTestStore(t)
	a, b := seedGraph(t, s)
	tool := NewLinkTool(s)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"from": b, "to": a, "type": "informs", "weight": 0.6,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resultText(t, res), "Linked") {
		t.Errorf("unexpected response: %s", resultText(t, res))
	}

	edges, err := s.EdgesFrom(b)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	var found bool
	for _, e := range edges {
		if e.ToID == a && e.Type == "informs" {
			found = true
		}
	}
	if !found {
		t.Errorf("edge not created")
	}
}

func TestLinkTool_MissingEndpoint(t *testing.T) {
	s := newTestStore(t)
	a, _ := seedGraph(t, s)
	tool := NewLinkTool(s)
	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"from": a, "to": "ghost",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Errorf("linking to a missing node should return a tool error")
	}
}

func TestStatsTool(t *testing.T) {
	s := newTestStore(t)
	seedGraph(t, s)
	tool := NewStatsTool(s)

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Nodes: 2") {
		t.Errorf("stats missing node count:\n%s", text)
	}
	if !strings.Contains(text, "concept") {
		t.Errorf("stats missing type breakdown:\n%s", text)
	}
}

func TestNew_RegistersTools(t *testing.T) {
	s := newTestStore(t)
	if srv := New(s); srv == nil {
		t.Fatalf("New returned nil")
	}
}
