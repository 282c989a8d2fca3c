// Package adapters defines the ingestion interface and an explicit
// registry. An adapter is a thin importer that writes nodes and edges
// through the store API; everything else about the source stays inside
// the adapter.
package adapters

import (
	"fmt"
	"sort"
	"strings"

	"kindex/kin/internal/store"
)

// Option is a named parameter an adapter accepts (e.g. repo, team).
type Option struct {
	Name        string
	Description string
	Required    bool
	Default     string
}

// Meta describes an adapter for discovery and CLI help.
type Meta struct {
	Name         string
	Description  string
	Version      string
	RequiresAuth bool
	AuthHint     string
	Options      []Option
}

// IngestParams bound a single ingestion run.
type IngestParams struct {
	Limit   int
	Since   string            // ISO date; only ingest newer items
	Verbose bool
	Options map[string]string // adapter-specific options
}

// IngestResult is what an adapter returns after a run.
type IngestResult struct {
	Created int
	Updated int
	Skipped int
	Errors  []string
}

// Total counts nodes touched.
func (r IngestResult) Total() int { return r.Created + r.Updated }

func (r IngestResult) String() string {
	var parts []string
	if r.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d created", r.Created))
	}
	if r.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", r.Updated))
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	if len(r.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", len(r.Errors)))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

// Adapter is the ingestion contract. IsAvailable reports whether the
// adapter's prerequisites (CLI tools, API keys) are met; Ingest writes
// into the store and reports counts.
type Adapter interface {
	Meta() Meta
	IsAvailable() bool
	Ingest(s *store.Store, p IngestParams) (IngestResult, error)
}

// Registry holds named adapters. Registration is explicit; there is no
// package-level state, so tests can build isolated registries.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its meta name, replacing any previous
// adapter with the same name.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Meta().Name] = a
}

// Get returns the adapter with the given name, or nil.
func (r *Registry) Get(name string) Adapter {
	return r.adapters[name]
}

// Names returns all registered adapter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available returns the adapters whose prerequisites are met, keyed by
// name.
func (r *Registry) Available() map[string]Adapter {
	out := make(map[string]Adapter)
	for name, a := range r.adapters {
		if a.IsAvailable() {
			out[name] = a
		}
	}
	return out
}
