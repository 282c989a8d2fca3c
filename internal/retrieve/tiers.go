package retrieve

import (
	"fmt"
	"sort"
	"strings"

	"kindex/kin/internal/store"
)

// Tier names, richest first.
const (
	TierFull       = "full"
	TierAbridged   = "abridged"
	TierSummarized = "summarized"
	TierExecutive  = "executive"
	TierIndex      = "index"
)

// TierOrder lists tiers from richest to leanest.
var TierOrder = []string{TierFull, TierAbridged, TierSummarized, TierExecutive, TierIndex}

// TierBudgets holds the approximate token budget per tier.
var TierBudgets = map[string]int{
	TierFull:       4000,
	TierAbridged:   1500,
	TierSummarized: 750,
	TierExecutive:  200,
	TierIndex:      100,
}

// charsPerToken is the rough chars-to-tokens ratio used to turn token
// budgets into enforceable character budgets.
const charsPerToken = 4

// emptyContext is the uniform marker rendered at every tier when there
// are no results.
const emptyContext = "## Kin: No relevant context found.\n"

// AutoSelectTier picks the richest tier whose budget fits the available
// tokens. Zero or negative availableTokens means "unknown" and defaults
// to abridged.
func AutoSelectTier(availableTokens int) string {
	if availableTokens <= 0 {
		return TierAbridged
	}
	for _, tier := range TierOrder {
		if TierBudgets[tier] <= availableTokens {
			return tier
		}
	}
	return TierIndex
}

// FormatContextBlock renders results at the given tier. An empty tier
// auto-selects from maxTokens. Unknown tier names fall back to abridged.
func (e *Engine) FormatContextBlock(results []Result, query, tier string, maxTokens int) (string, error) {
	if len(results) == 0 {
		return emptyContext, nil
	}
	if tier == "" {
		tier = AutoSelectTier(maxTokens)
	}
	switch tier {
	case TierFull:
		return e.formatFull(results, query)
	case TierSummarized:
		return e.formatSummarized(results)
	case TierExecutive:
		return e.formatExecutive(results)
	case TierIndex:
		return e.formatIndex(results)
	default:
		return e.formatAbridged(results)
	}
}

// budgetWriter accumulates lines under a character budget. Append
// reports false once a line would overflow, so callers can stop early.
type budgetWriter struct {
	lines []string
	used  int
	limit int
}

func newBudgetWriter(tokens int) *budgetWriter {
	return &budgetWriter{limit: tokens * charsPerToken}
}

func (w *budgetWriter) Append(line string) bool {
	if w.used+len(line) > w.limit {
		return false
	}
	w.lines = append(w.lines, line)
	w.used += len(line)
	return true
}

func (w *budgetWriter) String() string {
	return strings.Join(w.lines, "\n") + "\n"
}

func gatherDomains(results []Result) []string {
	set := make(map[string]bool)
	for _, r := range results {
		for _, d := range r.Domains {
			set[d] = true
		}
	}
	domains := make([]string, 0, len(set))
	for d := range set {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// appendOperational adds active constraints, watches, and (verbose only)
// checkpoints and directives.
func (e *Engine) appendOperational(w *budgetWriter, verbose bool) error {
	ops, err := e.Store.Operational("", "")
	if err != nil {
		return err
	}
	limit := 3
	if verbose {
		limit = 5
	}

	if len(ops.Constraints) > 0 {
		w.Append("\n### Active constraints")
		for i, c := range ops.Constraints {
			if i >= limit {
				break
			}
			action := "warn"
			if a, ok := c.Extra["action"].(string); ok && a != "" {
				action = a
			}
			w.Append(fmt.Sprintf("- [%s] %s", action, c.Title))
			if trigger, ok := c.Extra["trigger"].(string); verbose && ok && trigger != "" {
				w.Append("  trigger: " + trigger)
			}
		}
	}

	if len(ops.Watches) > 0 {
		w.Append("\n### Watches")
		for i, watch := range ops.Watches {
			if i >= limit {
				break
			}
			parts := []string{"! " + watch.Title}
			if owner, ok := watch.Extra["owner"].(string); ok && owner != "" {
				parts = append(parts, "@"+owner)
			}
			if expires, ok := watch.Extra["expires"].(string); ok && expires != "" {
				parts = append(parts, "(expires "+expires+")")
			}
			w.Append("- " + strings.Join(parts, " "))
		}
	}

	if verbose && len(ops.Checkpoints) > 0 {
		w.Append("\n### Checkpoints")
		for i, cp := range ops.Checkpoints {
			if i >= 5 {
				break
			}
			line := "- [ ] " + cp.Title
			if trigger, ok := cp.Extra["trigger"].(string); ok && trigger != "" {
				line += " (trigger: " + trigger + ")"
			}
			w.Append(line)
		}
	}

	if verbose && len(ops.Directives) > 0 {
		w.Append("\n### Directives")
		for i, d := range ops.Directives {
			if i >= 5 {
				break
			}
			line := "- " + d.Title
			if scope, ok := d.Extra["scope"].(string); ok && scope != "" {
				line += " [scope: " + scope + "]"
			}
			w.Append(line)
		}
	}
	return nil
}

func (e *Engine) formatFull(results []Result, query string) (string, error) {
	domains := gatherDomains(results)
	if len(domains) > 8 {
		domains = domains[:8]
	}

	w := newBudgetWriter(TierBudgets[TierFull])
	w.Append("## Relevant Context (Kin — auto-loaded)")
	w.Append(fmt.Sprintf("**Level:** full | **Query:** %s", query))
	w.Append(fmt.Sprintf("**Active domains:** [%s]", strings.Join(domains, ", ")))
	w.Append("")
	w.Append("### Key concepts")

	for _, r := range results {
		w.Append(fmt.Sprintf("\n#### [%s] %s (w=%.2f)", r.Type, r.Title, r.Weight))
		if r.Content != "" {
			if !w.Append(truncate(r.Content, 600)) {
				break
			}
		}

		var prov []string
		if r.Source != "" {
			prov = append(prov, "source: "+r.Source)
		}
		if r.When != "" {
			prov = append(prov, "when: "+truncate(r.When, 10))
		}
		if r.Activity != "" {
			prov = append(prov, "via: "+r.Activity)
		}
		if len(prov) > 0 {
			w.Append(fmt.Sprintf("*Provenance: %s*", strings.Join(prov, ", ")))
		}

		if len(r.AKA) > 0 {
			w.Append(fmt.Sprintf("*AKA: %s*", strings.Join(r.AKA, ", ")))
		}

		if len(r.EdgesOut) > 0 {
			connected := make([]string, 0, len(r.EdgesOut))
			for i, edge := range r.EdgesOut {
				if i >= 8 {
					break
				}
				name := edge.NeighborTitle
				if name == "" {
					name = edge.ToID
				}
				connected = append(connected, fmt.Sprintf("%s [%s]", name, edge.Type))
			}
			w.Append(fmt.Sprintf("*Connects: %s*", strings.Join(connected, ", ")))
		}
	}

	questions, err := e.Store.AllNodes(store.NodeFilter{Type: "question", Status: "active", Limit: 5})
	if err != nil {
		return "", err
	}
	if len(questions) > 0 {
		w.Append("\n### Open questions")
		for _, q := range questions {
			w.Append("- " + q.Title)
			if q.Content != "" {
				w.Append("  Context: " + truncate(q.Content, 200))
			}
		}
	}

	decisions, err := e.Store.AllNodes(store.NodeFilter{Type: "decision", Limit: 5})
	if err != nil {
		return "", err
	}
	if len(decisions) > 0 {
		w.Append("\n### Recent decisions")
		for _, d := range decisions {
			w.Append(fmt.Sprintf("- %s: %s", truncate(d.When, 10), d.Title))
			if d.Content != "" {
				w.Append("  Rationale: " + truncate(d.Content, 200))
			}
		}
	}

	if err := e.appendOperational(w, true); err != nil {
		return "", err
	}
	return w.String(), nil
}

func (e *Engine) formatAbridged(results []Result) (string, error) {
	domains := gatherDomains(results)
	if len(domains) > 8 {
		domains = domains[:8]
	}

	w := newBudgetWriter(TierBudgets[TierAbridged])
	w.Append("## Relevant Context (Kin — auto-loaded)")
	w.Append(fmt.Sprintf("**Level:** abridged | **Active domains:** [%s]", strings.Join(domains, ", ")))
	w.Append("")
	w.Append("### Key concepts")

	for _, r := range results {
		block := fmt.Sprintf("- **%s** (%s): %s", r.Title, r.Type, truncate(r.Content, 200))
		if len(r.EdgesOut) > 0 {
			connected := make([]string, 0, 3)
			for i, edge := range r.EdgesOut {
				if i >= 3 {
					break
				}
				name := edge.NeighborTitle
				if name == "" {
					name = edge.ToID
				}
				connected = append(connected, name)
			}
			block += fmt.Sprintf("\n  *Connected to: %s*", strings.Join(connected, ", "))
		}
		if !w.Append(block) {
			break
		}
	}

	questions, err := e.Store.AllNodes(store.NodeFilter{Type: "question", Status: "active", Limit: 3})
	if err != nil {
		return "", err
	}
	if len(questions) > 0 {
		w.Append("\n### Open questions")
		for _, q := range questions {
			w.Append("- " + q.Title)
		}
	}

	decisions, err := e.Store.AllNodes(store.NodeFilter{Type: "decision", Limit: 3})
	if err != nil {
		return "", err
	}
	if len(decisions) > 0 {
		w.Append("\n### Recent decisions")
		for _, d := range decisions {
			w.Append(fmt.Sprintf("- %s: %s", truncate(d.When, 10), d.Title))
		}
	}

	if err := e.appendOperational(w, false); err != nil {
		return "", err
	}
	return w.String(), nil
}

func (e *Engine) formatSummarized(results []Result) (string, error) {
	domains := gatherDomains(results)
	if len(domains) > 6 {
		domains = domains[:6]
	}

	w := newBudgetWriter(TierBudgets[TierSummarized])
	w.Append("## Kin Context (summarized)")
	w.Append(fmt.Sprintf("**Domains:** %s", strings.Join(domains, ", ")))
	w.Append("")

	// Group by primary domain, preserving result order within groups.
	groups := make(map[string][]Result)
	for _, r := range results {
		domain := "general"
		if len(r.Domains) > 0 {
			domain = r.Domains[0]
		}
		groups[domain] = append(groups[domain], r)
	}
	order := make([]string, 0, len(groups))
	for domain := range groups {
		order = append(order, domain)
	}
	sort.Strings(order)

	for _, domain := range order {
		nodes := groups[domain]
		var summaries []string
		for i, n := range nodes {
			if i >= 3 {
				break
			}
			if n.Content != "" {
				summaries = append(summaries, fmt.Sprintf("%s: %s", n.Title, truncate(n.Content, 150)))
			}
		}
		if !w.Append(fmt.Sprintf("**%s:** %s", domain, strings.Join(summaries, "; "))) {
			break
		}
		w.Append("")
	}

	questions, err := e.Store.AllNodes(store.NodeFilter{Type: "question", Status: "active", Limit: 2})
	if err != nil {
		return "", err
	}
	if len(questions) > 0 {
		titles := make([]string, 0, len(questions))
		for _, q := range questions {
			titles = append(titles, q.Title)
		}
		w.Append(fmt.Sprintf("**Open questions:** %s", strings.Join(titles, "; ")))
	}
	return w.String(), nil
}

func (e *Engine) formatExecutive(results []Result) (string, error) {
	domains := gatherDomains(results)
	if len(domains) > 4 {
		domains = domains[:4]
	}

	var summaries []string
	for i, r := range results {
		if i >= 5 {
			break
		}
		if r.Content != "" {
			summaries = append(summaries, fmt.Sprintf("%s — %s", r.Title, truncate(r.Content, 80)))
		} else {
			summaries = append(summaries, r.Title)
		}
	}

	block := fmt.Sprintf("Kin [%s]: %s.", strings.Join(domains, ", "), strings.Join(summaries, ". "))

	questions, err := e.Store.AllNodes(store.NodeFilter{Type: "question", Status: "active", Limit: 1})
	if err != nil {
		return "", err
	}
	if len(questions) > 0 {
		block += " Open: " + questions[0].Title
	}

	if limit := TierBudgets[TierExecutive] * charsPerToken; len(block) > limit {
		block = block[:limit]
	}
	return block + "\n", nil
}

func (e *Engine) formatIndex(results []Result) (string, error) {
	var entries []string
	used := len("Kin index: ")
	limit := TierBudgets[TierIndex] * charsPerToken

	for _, r := range results {
		entry := fmt.Sprintf("%s(%s)", r.Title, r.Type)
		if len(r.EdgesOut) > 0 {
			types := make([]string, 0, 3)
			seen := make(map[string]bool)
			for i, edge := range r.EdgesOut {
				if i >= 3 {
					break
				}
				if !seen[edge.Type] {
					seen[edge.Type] = true
					types = append(types, edge.Type)
				}
			}
			entry = fmt.Sprintf("%s(%s)→[%s]", r.Title, r.Type, strings.Join(types, ","))
		}
		if used+len(entry)+3 > limit {
			break
		}
		entries = append(entries, entry)
		used += len(entry) + 3
	}
	return fmt.Sprintf("Kin index: %s\n", strings.Join(entries, " | ")), nil
}
