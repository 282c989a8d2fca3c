package store

import (
	"errors"
	"fmt"
)

// ErrMissingNode is returned when an edge references a node that does not
// exist. Edge creation against a missing node is a caller bug and is never
// silently dropped.
var ErrMissingNode = errors.New("edge endpoint does not exist")

// EdgeParams holds the fields for edge creation. Unidirectional must be set
// explicitly: the default models the graph invariant that relations are
// bidirectional with asymmetric strength.
type EdgeParams struct {
	From           string
	To             string
	Type           string
	Weight         float64
	Provenance     string
	Unidirectional bool
}

// AddEdge upserts the forward edge and, unless Unidirectional, inserts the
// reverse edge at ReverseEdgeFactor (default 80%) of the forward weight.
// An existing reverse edge is left untouched.
func (s *Store) AddEdge(p EdgeParams) error {
	if p.Type == "" {
		p.Type = "relates_to"
	}
	if p.Weight <= 0 {
		p.Weight = 0.5
	}

	for _, id := range []string{p.From, p.To} {
		var one int
		err := s.conn.QueryRow("SELECT 1 FROM nodes WHERE id = ?", id).Scan(&one)
		if isNoRows(err) {
			return fmt.Errorf("%w: %s", ErrMissingNode, id)
		}
		if err != nil {
			return err
		}
	}

	// created_at is written explicitly: the column default is SQLite's
	// space-separated UTC form, which the decay pass does not store times in.
	if _, err := s.conn.Exec(
		`INSERT OR REPLACE INTO edges (from_id, to_id, type, weight, provenance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.From, p.To, p.Type, p.Weight, p.Provenance, now()); err != nil {
		return fmt.Errorf("adding edge %s->%s: %w", p.From, p.To, err)
	}

	if !p.Unidirectional {
		if _, err := s.conn.Exec(
			`INSERT OR IGNORE INTO edges (from_id, to_id, type, weight, provenance, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.To, p.From, p.Type, p.Weight*s.opts.ReverseEdgeFactor, p.Provenance, now()); err != nil {
			return fmt.Errorf("adding reverse edge %s->%s: %w", p.To, p.From, err)
		}
	}

	s.log("add_edge", p.From+"->"+p.To, "", "", map[string]any{
		"type": p.Type, "weight": p.Weight,
	})
	return nil
}

func (s *Store) queryEdges(query string, args ...any) ([]Edge, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &e.Type, &e.Weight,
			&e.Provenance, &e.CreatedAt, &e.NeighborTitle); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// EdgesFrom returns outgoing edges ordered by weight descending, each
// carrying the target node's title.
func (s *Store) EdgesFrom(nodeID string) ([]Edge, error) {
	return s.queryEdges(
		`SELECT e.id, e.from_id, e.to_id, e.type, e.weight, e.provenance, e.created_at,
		        n.title
		 FROM edges e JOIN nodes n ON n.id = e.to_id
		 WHERE e.from_id = ? ORDER BY e.weight DESC, e.to_id`,
		nodeID)
}

// EdgesTo returns incoming edges ordered by weight descending, each
// carrying the source node's title.
func (s *Store) EdgesTo(nodeID string) ([]Edge, error) {
	return s.queryEdges(
		`SELECT e.id, e.from_id, e.to_id, e.type, e.weight, e.provenance, e.created_at,
		        n.title
		 FROM edges e JOIN nodes n ON n.id = e.from_id
		 WHERE e.to_id = ? ORDER BY e.weight DESC, e.from_id`,
		nodeID)
}

// AllEdges returns every edge without title enrichment, ordered by id.
func (s *Store) AllEdges() ([]Edge, error) {
	rows, err := s.conn.Query(
		"SELECT id, from_id, to_id, type, weight, provenance, created_at FROM edges ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &e.Type, &e.Weight,
			&e.Provenance, &e.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
