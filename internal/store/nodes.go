package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownField is returned by UpdateNode for a field outside the update
// whitelist.
var ErrUnknownField = errors.New("unknown field")

const nodeColumns = `id, type, title, content, aka, intent,
       prov_who, prov_when, prov_activity, prov_why, prov_source,
       weight, domains, status, audience,
       created_at, updated_at, last_accessed, extra`

// scanNode scans a row into a Node. The row must have all 19 columns in
// standard order.
func scanNode(scanner interface{ Scan(dest ...any) error }) (Node, error) {
	var n Node
	var aka, who, domains, extra string
	err := scanner.Scan(
		&n.ID, &n.Type, &n.Title, &n.Content, &aka, &n.Intent,
		&who, &n.When, &n.Activity, &n.Why, &n.Source,
		&n.Weight, &domains, &n.Status, &n.Audience,
		&n.CreatedAt, &n.UpdatedAt, &n.LastAccessed, &extra,
	)
	if err != nil {
		return n, err
	}
	n.AKA = parseList(aka)
	n.Who = parseList(who)
	n.Domains = parseList(domains)
	n.Extra = parseMap(extra)
	return n, nil
}

func (s *Store) queryNodes(query string, args ...any) ([]Node, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// NodeParams holds the fields for node creation. Zero values fall back to
// the schema defaults (type concept, status active, audience private,
// weight 0.5).
type NodeParams struct {
	ID       string
	Type     string
	Title    string
	Content  string
	AKA      []string
	Intent   string
	Domains  []string
	Status   string
	Audience string
	Weight   float64
	Who      []string
	When     string
	Activity string
	Why      string
	Source   string
	Extra    map[string]any
}

func (p *NodeParams) applyDefaults() {
	if p.Type == "" {
		p.Type = "concept"
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if p.Audience == "" {
		p.Audience = "private"
	}
	if p.Weight <= 0 {
		p.Weight = 0.5
	}
}

// AddNode inserts a node with insert-or-replace semantics and returns its
// ID, assigning a short random token when none is given.
//
// When provenance names people and the node itself is not a person node,
// missing person nodes are auto-created and linked with a weak context_of
// edge so provenance stays navigable.
func (s *Store) AddNode(p NodeParams) (string, error) {
	p.applyDefaults()
	nid := p.ID
	if nid == "" {
		nid = newID()
	}
	ts := now()
	when := p.When
	if when == "" {
		when = ts
	}

	_, err := s.conn.Exec(
		`INSERT OR REPLACE INTO nodes
		 (id, type, title, content, aka, intent,
		  prov_who, prov_when, prov_activity, prov_why, prov_source,
		  weight, domains, status, audience,
		  created_at, updated_at, last_accessed, extra)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nid, p.Type, p.Title, p.Content, jlist(p.AKA), p.Intent,
		jlist(p.Who), when, p.Activity, p.Why, p.Source,
		p.Weight, jlist(p.Domains), p.Status, p.Audience,
		ts, ts, ts, jdumps(p.Extra),
	)
	if err != nil {
		return "", fmt.Errorf("adding node %q: %w", p.Title, err)
	}

	actor := ""
	if len(p.Who) > 0 {
		actor = p.Who[0]
	}
	s.log("add_node", nid, p.Title, actor, map[string]any{
		"type": p.Type, "activity": p.Activity,
	})

	if len(p.Who) > 0 && p.Type != "person" && p.Activity != "" && p.Activity != "auto-created" {
		s.linkPeople(nid, p.Title, p.Who)
	}

	return nid, nil
}

// linkPeople ensures every provenance actor exists as a person node and is
// reachable from the new node via a weak context_of edge.
func (s *Store) linkPeople(nid, title string, who []string) {
	for _, name := range who {
		if name == "" {
			continue
		}
		person, err := s.GetNodeByTitle(name)
		if err != nil {
			continue
		}
		if person == nil {
			person, err = s.GetNode(name)
			if err != nil {
				continue
			}
		}
		if person == nil {
			pid, err := s.AddNode(NodeParams{
				Title:    name,
				Type:     "person",
				Activity: "auto-created",
				Why:      fmt.Sprintf("Referenced in prov_who of %q", title),
			})
			if err != nil {
				continue
			}
			person = &Node{ID: pid}
		}
		_ = s.AddEdge(EdgeParams{
			From:           nid,
			To:             person.ID,
			Type:           "context_of",
			Weight:         0.4,
			Provenance:     "auto-linked from prov_who",
			Unidirectional: true,
		})
	}
}

// GetNode fetches a node by ID, touching last_accessed. Returns (nil, nil)
// when the node does not exist.
func (s *Store) GetNode(id string) (*Node, error) {
	row := s.conn.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE id = ?", id)
	n, err := scanNode(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := s.conn.Exec(
		"UPDATE nodes SET last_accessed = ? WHERE id = ?", now(), id); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetNodeByTitle matches by exact title, then by any AKA entry, both
// case-insensitive. Returns (nil, nil) when nothing matches.
func (s *Store) GetNodeByTitle(title string) (*Node, error) {
	row := s.conn.QueryRow(
		"SELECT "+nodeColumns+" FROM nodes WHERE lower(title) = lower(?)", title)
	n, err := scanNode(row)
	if err == nil {
		return &n, nil
	}
	if !isNoRows(err) {
		return nil, err
	}

	// AKA match: scan candidates with a non-empty alias list.
	candidates, err := s.queryNodes(
		"SELECT " + nodeColumns + " FROM nodes WHERE aka != '[]' AND aka != ''")
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(title)
	for i := range candidates {
		for _, alias := range candidates[i].AKA {
			if strings.ToLower(alias) == lower {
				return &candidates[i], nil
			}
		}
	}
	return nil, nil
}

// updatableFields is the UpdateNode whitelist. Timestamps and the ID are
// managed by the store and can never be set directly.
var updatableFields = map[string]bool{
	"title": true, "content": true, "aka": true, "intent": true,
	"weight": true, "domains": true, "status": true, "audience": true,
	"prov_who": true, "prov_activity": true, "prov_why": true,
	"prov_source": true, "extra": true,
}

// UpdateNode applies a partial update. Unknown fields are refused with
// ErrUnknownField. updated_at is always bumped; the set of changed field
// names (not values) is recorded in the activity log.
func (s *Store) UpdateNode(id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		if !updatableFields[k] {
			return fmt.Errorf("%w: %q", ErrUnknownField, k)
		}
		names = append(names, k)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	vals := make([]any, 0, len(names)+2)
	for _, k := range names {
		v := fields[k]
		switch tv := v.(type) {
		case []string:
			v = jlist(tv)
		case []any, map[string]any:
			v = jdumps(tv)
		}
		sets = append(sets, k+" = ?")
		vals = append(vals, v)
	}
	sets = append(sets, "updated_at = ?")
	vals = append(vals, now(), id)

	res, err := s.conn.Exec(
		"UPDATE nodes SET "+strings.Join(sets, ", ")+" WHERE id = ?", vals...)
	if err != nil {
		return fmt.Errorf("updating node %s: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("updating node %s: not found", id)
	}

	s.log("update_node", id, "", "", map[string]any{"fields": names})
	return nil
}

// DeleteNode removes a node and every edge touching it. The title is read
// before the physical delete so the audit record stays meaningful.
func (s *Store) DeleteNode(id string) error {
	title := id
	var t string
	if err := s.conn.QueryRow("SELECT title FROM nodes WHERE id = ?", id).Scan(&t); err == nil {
		title = t
	}

	if _, err := s.conn.Exec(
		"DELETE FROM edges WHERE from_id = ? OR to_id = ?", id, id); err != nil {
		return fmt.Errorf("deleting edges of %s: %w", id, err)
	}
	if _, err := s.conn.Exec("DELETE FROM nodes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting node %s: %w", id, err)
	}

	s.log("delete_node", id, title, "", nil)
	return nil
}

// NodeFilter narrows AllNodes. Zero values mean "no filter".
type NodeFilter struct {
	Type     string
	Status   string
	Audience string
	Limit    int
}

// AllNodes lists nodes ordered by weight then recency.
func (s *Store) AllNodes(f NodeFilter) ([]Node, error) {
	q := "SELECT " + nodeColumns + " FROM nodes WHERE 1=1"
	var args []any
	if f.Type != "" {
		q += " AND type = ?"
		args = append(args, f.Type)
	}
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.Audience != "" {
		q += " AND audience = ?"
		args = append(args, f.Audience)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}
	q += " ORDER BY weight DESC, updated_at DESC LIMIT ?"
	args = append(args, limit)
	return s.queryNodes(q, args...)
}

// RecentNodes returns the n most recently updated nodes.
func (s *Store) RecentNodes(n int) ([]Node, error) {
	return s.queryNodes(
		"SELECT "+nodeColumns+" FROM nodes ORDER BY updated_at DESC LIMIT ?", n)
}

// NodesChangedSince returns nodes updated at or after the given timestamp.
func (s *Store) NodesChangedSince(since string) ([]Node, error) {
	return s.queryNodes(
		"SELECT "+nodeColumns+" FROM nodes WHERE updated_at >= ? ORDER BY updated_at DESC",
		since)
}

// Orphans returns nodes absent from both edge endpoint sets. An orphan is a
// health signal, not an error.
func (s *Store) Orphans() ([]Node, error) {
	return s.queryNodes(
		`SELECT ` + nodeColumns + ` FROM nodes WHERE id NOT IN
		 (SELECT from_id FROM edges UNION SELECT to_id FROM edges)`)
}

// NodeIDs returns every node ID, sorted for deterministic output.
func (s *Store) NodeIDs() ([]string, error) {
	rows, err := s.conn.Query("SELECT id FROM nodes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
