package retrieve

import (
	"strings"
	"testing"

	"kindex/kin/internal/store"
)

func TestGenerateCodebook_Stable(t *testing.T) {
	_, s := newTestEngine(t)
	addNode(t, s, store.NodeParams{Title: "Stigmergy", Weight: 0.9})
	addNode(t, s, store.NodeParams{Title: "Emergence", Weight: 0.7})

	text1, hash1, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}
	text2, hash2, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}
	if text1 != text2 || hash1 != hash2 {
		t.Errorf("codebook not stable over unchanged store")
	}
}

func TestGenerateCodebook_HashTracksContent(t *testing.T) {
	_, s := newTestEngine(t)
	addNode(t, s, store.NodeParams{Title: "Stigmergy", Weight: 0.9})
	_, before, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}

	addNode(t, s, store.NodeParams{Title: "Emergence", Weight: 0.7})
	_, after, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}
	if before == after {
		t.Errorf("hash unchanged after adding a node")
	}
}

func TestGenerateCodebook_Filters(t *testing.T) {
	_, s := newTestEngine(t)
	addNode(t, s, store.NodeParams{Title: "Kept", Weight: 0.9})
	addNode(t, s, store.NodeParams{Title: "Too light", Weight: 0.2})
	addNode(t, s, store.NodeParams{Title: "A session", Type: "session", Weight: 0.9})

	text, _, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}
	if !strings.HasPrefix(text, "[CODEBOOK v1 | 1 entries]") {
		t.Errorf("header = %q", strings.SplitN(text, "\n", 2)[0])
	}
	if !strings.Contains(text, "Kept") {
		t.Errorf("qualifying node missing")
	}
	if strings.Contains(text, "Too light") || strings.Contains(text, "A session") {
		t.Errorf("filtered nodes leaked into codebook:\n%s", text)
	}
}

func TestGenerateCodebook_EmptyStore(t *testing.T) {
	_, s := newTestEngine(t)
	text, hash, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}
	if !strings.HasPrefix(text, "[CODEBOOK v1 | 0 entries]") {
		t.Errorf("empty codebook = %q", text)
	}
	if hash == "" {
		t.Errorf("no hash for empty codebook")
	}
}

func TestGenerateCodebook_EntriesSortedByID(t *testing.T) {
	_, s := newTestEngine(t)
	for _, title := range []string{"Zeta", "Alpha", "Mid"} {
		addNode(t, s, store.NodeParams{Title: title, Weight: 0.9})
	}
	text, _, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}
	index := BuildCodebookIndex(text)
	if len(index) != 3 {
		t.Fatalf("index size = %d, want 3", len(index))
	}
	var prev string
	lines := strings.Split(text, "\n")
	for _, line := range lines[1:] {
		m := codebookEntryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if prev != "" && m[2] < prev {
			t.Errorf("entries not sorted by id: %q after %q", m[2], prev)
		}
		prev = m[2]
	}
}

func TestBuildCodebookIndex(t *testing.T) {
	text := "[CODEBOOK v1 | 2 entries]\n#001 id:abc123def456 [concept] w=0.90 Stigmergy\n#002 id:fed654cba321 [concept] w=0.70 Emergence\n"
	index := BuildCodebookIndex(text)
	if index["abc123def456"] != "#001" {
		t.Errorf("index[abc...] = %q", index["abc123def456"])
	}
	if index["fed654cba321"] != "#002" {
		t.Errorf("index[fed...] = %q", index["fed654cba321"])
	}
}

func TestPredictTier2_MergesNeighbors(t *testing.T) {
	e, s := newTestEngine(t)
	a := addNode(t, s, store.NodeParams{Title: "Stigmergy", Weight: 0.9, Content: "traces"})
	b := addNode(t, s, store.NodeParams{Title: "Emergence", Weight: 0.7, Content: "macro"})
	sess := addNode(t, s, store.NodeParams{Title: "Tuesday session", Type: "session"})
	link(t, s, store.EdgeParams{From: a, To: b, Weight: 0.8})
	link(t, s, store.EdgeParams{From: a, To: sess, Weight: 0.8})

	results, err := e.Search("traces", DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	predicted, err := PredictTier2(s, results, 10)
	if err != nil {
		t.Fatalf("PredictTier2: %v", err)
	}

	found := map[string]bool{}
	for _, r := range predicted {
		found[r.ID] = true
		if r.Type == "session" {
			t.Errorf("session node in prediction: %s", r.Title)
		}
	}
	if !found[a] || !found[b] {
		t.Errorf("prediction missing hit or neighbor: %v", found)
	}
	for i := 1; i < len(predicted); i++ {
		if predicted[i].ID < predicted[i-1].ID {
			t.Errorf("prediction not sorted by id")
		}
	}
}

func TestPredictTier2_TopK(t *testing.T) {
	e, s := newTestEngine(t)
	for _, title := range []string{"One", "Two", "Three", "Four"} {
		addNode(t, s, store.NodeParams{Title: title, Content: "shared phrase"})
	}
	results, err := e.Search("shared", DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	predicted, err := PredictTier2(s, results, 2)
	if err != nil {
		t.Fatalf("PredictTier2: %v", err)
	}
	if len(predicted) != 2 {
		t.Errorf("len = %d, want 2", len(predicted))
	}
}

func TestFormatTier2_UsesOrdinals(t *testing.T) {
	e, s := newTestEngine(t)
	a := addNode(t, s, store.NodeParams{Title: "Stigmergy", Weight: 0.9, Content: "traces"})
	b := addNode(t, s, store.NodeParams{Title: "Emergence", Weight: 0.7, Content: "macro"})
	link(t, s, store.EdgeParams{From: a, To: b, Weight: 0.8})

	text, _, err := GenerateCodebook(s, DefaultCodebookMinWeight)
	if err != nil {
		t.Fatalf("GenerateCodebook: %v", err)
	}
	index := BuildCodebookIndex(text)

	results, err := e.Search("traces", DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	predicted, err := PredictTier2(s, results, 10)
	if err != nil {
		t.Fatalf("PredictTier2: %v", err)
	}
	out := FormatTier2(predicted, index, 0)
	if !strings.Contains(out, "#0") {
		t.Errorf("no codebook ordinals in output:\n%s", out)
	}
	if !strings.Contains(out, "Stigmergy") {
		t.Errorf("hit missing from output")
	}
}

func TestFormatTier2_Budget(t *testing.T) {
	e, s := newTestEngine(t)
	for _, title := range []string{"One", "Two", "Three"} {
		addNode(t, s, store.NodeParams{
			Title: title, Weight: 0.9,
			Content: strings.Repeat("filler text ", 100),
		})
	}
	results, err := e.Search("filler", DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	predicted, err := PredictTier2(s, results, 10)
	if err != nil {
		t.Fatalf("PredictTier2: %v", err)
	}
	out := FormatTier2(predicted, BuildCodebookIndex(""), 100)
	if len(out) > 100*charsPerToken+200 {
		t.Errorf("budget blown: %d chars for 100 tokens", len(out))
	}
}
