package retrieve

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"kindex/kin/internal/store"
)

// DefaultCodebookMinWeight excludes low-signal nodes from the codebook.
const DefaultCodebookMinWeight = 0.5

// idTruncLen is how many id characters a codebook entry carries; enough
// to be unambiguous in a personal graph while keeping entries short.
const idTruncLen = 12

// GenerateCodebook renders every non-session node at or above minWeight
// as one line, sorted by node id, and returns the text plus its sha256.
// The output is byte-for-byte stable over unchanged store state, which
// is what makes it usable as a prompt-cache prefix.
func GenerateCodebook(s *store.Store, minWeight float64) (string, string, error) {
	nodes, err := s.AllNodes(store.NodeFilter{Limit: 100000})
	if err != nil {
		return "", "", err
	}

	var entries []*store.Node
	for i := range nodes {
		n := &nodes[i]
		if n.Type == "session" || n.Weight < minWeight {
			continue
		}
		entries = append(entries, n)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	var b strings.Builder
	fmt.Fprintf(&b, "[CODEBOOK v1 | %d entries]", len(entries))
	for i, n := range entries {
		domains := ""
		if len(n.Domains) > 0 {
			domains = " (" + strings.Join(n.Domains, ",") + ")"
		}
		fmt.Fprintf(&b, "\n#%03d id:%s [%s] w=%.2f%s %s",
			i+1, truncID(n.ID), n.Type, n.Weight, domains, n.Title)
	}
	b.WriteString("\n")

	text := b.String()
	sum := sha256.Sum256([]byte(text))
	return text, hex.EncodeToString(sum[:]), nil
}

func truncID(id string) string {
	if len(id) > idTruncLen {
		return id[:idTruncLen]
	}
	return id
}

var codebookEntryRe = regexp.MustCompile(`(#\d+) id:(\w+)`)

// BuildCodebookIndex parses codebook text into a map from truncated node
// id to entry ordinal ("#001").
func BuildCodebookIndex(text string) map[string]string {
	index := make(map[string]string)
	for _, m := range codebookEntryRe.FindAllStringSubmatch(text, -1) {
		index[m[2]] = m[1]
	}
	return index
}

// PredictTier2 expands search results with their one-hop neighbors,
// excluding sessions, then re-sorts the merged set by node id. Sorting
// by id rather than score keeps the rendered block stable across queries
// that hit the same neighborhood, which is what the prompt cache needs.
func PredictTier2(s *store.Store, results []Result, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 10
	}

	byID := make(map[string]Result)
	for _, r := range results {
		if r.Type == "session" {
			continue
		}
		byID[r.ID] = r
	}

	for _, r := range results {
		for _, edge := range r.EdgesOut {
			if _, ok := byID[edge.ToID]; ok {
				continue
			}
			node, err := s.GetNode(edge.ToID)
			if err != nil {
				return nil, err
			}
			if node == nil || node.Type == "session" {
				continue
			}
			edges, err := s.EdgesFrom(node.ID)
			if err != nil {
				return nil, err
			}
			if len(edges) > 5 {
				edges = edges[:5]
			}
			byID[node.ID] = Result{Node: *node, EdgesOut: edges}
		}
	}

	merged := make([]Result, 0, len(byID))
	for _, r := range byID {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged, nil
}

// FormatTier2 renders predicted nodes sorted by id, resolving edge
// targets to codebook ordinals where the index knows them. maxTokens
// bounds the output; zero means the full-tier budget.
func FormatTier2(results []Result, index map[string]string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = TierBudgets[TierFull]
	}
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	w := newBudgetWriter(maxTokens)
	for _, r := range sorted {
		ref := index[truncID(r.ID)]
		header := fmt.Sprintf("## %s %s [%s]", ref, r.Title, r.Type)
		if ref == "" {
			header = fmt.Sprintf("## %s [%s]", r.Title, r.Type)
		}
		if !w.Append(header) {
			break
		}
		if r.Content != "" {
			if !w.Append(truncate(r.Content, 600)) {
				break
			}
		}
		if len(r.EdgesOut) > 0 {
			var links []string
			for _, edge := range r.EdgesOut {
				target := truncID(edge.ToID)
				if ord, ok := index[target]; ok {
					links = append(links, fmt.Sprintf("%s[%s]", ord, edge.Type))
				} else {
					name := edge.NeighborTitle
					if name == "" {
						name = target
					}
					links = append(links, fmt.Sprintf("%s[%s]", name, edge.Type))
				}
			}
			w.Append("→ " + strings.Join(links, ", "))
		}
	}
	return w.String()
}
