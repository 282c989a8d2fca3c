package store

// Node is one knowledge unit: a concept, document, decision, person, or an
// operational rule (constraint/directive/checkpoint/watch).
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	AKA      []string `json:"aka"`
	Intent   string   `json:"intent"`
	Who      []string `json:"prov_who"`
	When     string   `json:"prov_when"`
	Activity string   `json:"prov_activity"`
	Why      string   `json:"prov_why"`
	Source   string   `json:"prov_source"`
	Weight   float64  `json:"weight"`
	Domains  []string `json:"domains"`
	Status   string   `json:"status"`
	Audience string   `json:"audience"`

	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	LastAccessed string `json:"last_accessed"`

	// Extra holds type-specific fields as a schemaless map. Known keys per
	// type: trigger/action (constraint, checkpoint), owner/expires (watch,
	// directive), segments (session). Unknown keys round-trip untouched.
	Extra map[string]any `json:"extra"`
}

// Edge is a directed, typed, weighted relation between two node IDs.
type Edge struct {
	ID         int64   `json:"id"`
	FromID     string  `json:"from_id"`
	ToID       string  `json:"to_id"`
	Type       string  `json:"type"`
	Weight     float64 `json:"weight"`
	Provenance string  `json:"provenance"`
	CreatedAt  string  `json:"created_at"`

	// NeighborTitle is the title of the far endpoint, filled by
	// EdgesFrom/EdgesTo for display. Not persisted.
	NeighborTitle string `json:"neighbor_title,omitempty"`
}

// SearchResult pairs a node with its full-text relevance score.
// Rank is the FTS5 BM25 rank (more negative = better match), or 0 for
// fallback substring matches.
type SearchResult struct {
	Node
	Rank float64 `json:"rank"`
}

// ActivityEntry is one append-only audit record.
type ActivityEntry struct {
	ID          int64          `json:"id"`
	Timestamp   string         `json:"timestamp"`
	Action      string         `json:"action"`
	TargetID    string         `json:"target_id"`
	TargetTitle string         `json:"target_title"`
	Actor       string         `json:"actor"`
	Details     map[string]any `json:"details"`
}

// Suggestion is a proposed but unconfirmed edge between two concept titles.
type Suggestion struct {
	ID        int64  `json:"id"`
	ConceptA  string `json:"concept_a"`
	ConceptB  string `json:"concept_b"`
	Reason    string `json:"reason"`
	Source    string `json:"source"`
	Status    string `json:"status"` // pending / accepted / rejected
	CreatedAt string `json:"created_at"`
}

// Stats holds aggregate graph counts.
type Stats struct {
	Nodes   int            `json:"nodes"`
	Edges   int            `json:"edges"`
	Orphans int            `json:"orphans"`
	Types   map[string]int `json:"types"`
}

// OperationalSummary groups the active operational nodes by type.
type OperationalSummary struct {
	Constraints []Node `json:"constraints"`
	Checkpoints []Node `json:"checkpoints"`
	Watches     []Node `json:"watches"`
	Directives  []Node `json:"directives"`
}
