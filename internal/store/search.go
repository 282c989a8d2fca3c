package store

import (
	"fmt"
	"strings"
)

// FullTextSearch runs an FTS5 query ranked by BM25, with the node weight
// available to callers for boosting. Malformed query syntax never reaches
// the caller: it degrades to a substring match over title and content.
func (s *Store) FullTextSearch(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	safe := strings.ReplaceAll(query, `"`, `""`)
	match := fmt.Sprintf(`"%s" OR %s`, safe, safe)

	results, err := s.ftsQuery(match, limit)
	if err == nil {
		return results, nil
	}

	// Fallback: LIKE over title/content, weight-ordered, rank 0.
	rows, err := s.conn.Query(
		`SELECT `+nodeColumns+`, 0 FROM nodes
		 WHERE title LIKE ? OR content LIKE ?
		 ORDER BY weight DESC, id LIMIT ?`,
		"%"+query+"%", "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search fallback: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		r, err := scanSearchResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ftsQuery(match string, limit int) ([]SearchResult, error) {
	rows, err := s.conn.Query(
		`SELECT `+nodeColumns+`, rank FROM nodes_fts
		 JOIN nodes ON nodes.id = nodes_fts.id
		 WHERE nodes_fts MATCH ?
		 ORDER BY rank LIMIT ?`,
		match, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		r, err := scanSearchResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// scanSearchResult scans the 19 node columns plus a trailing rank column.
func scanSearchResult(scanner interface{ Scan(dest ...any) error }) (SearchResult, error) {
	var r SearchResult
	var aka, who, domains, extra string
	err := scanner.Scan(
		&r.ID, &r.Type, &r.Title, &r.Content, &aka, &r.Intent,
		&who, &r.When, &r.Activity, &r.Why, &r.Source,
		&r.Weight, &domains, &r.Status, &r.Audience,
		&r.CreatedAt, &r.UpdatedAt, &r.LastAccessed, &extra,
		&r.Rank,
	)
	if err != nil {
		return r, err
	}
	r.AKA = parseList(aka)
	r.Who = parseList(who)
	r.Domains = parseList(domains)
	r.Extra = parseMap(extra)
	return r, nil
}
