package store

// GraphStats counts nodes, edges, orphans, and nodes per type.
func (s *Store) GraphStats() (*Stats, error) {
	var nodeCount, edgeCount int
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&nodeCount); err != nil {
		return nil, err
	}
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM edges").Scan(&edgeCount); err != nil {
		return nil, err
	}

	var orphanCount int
	if err := s.conn.QueryRow(
		`SELECT COUNT(*) FROM nodes WHERE id NOT IN
		 (SELECT from_id FROM edges UNION SELECT to_id FROM edges)`).Scan(&orphanCount); err != nil {
		return nil, err
	}

	types := map[string]int{}
	rows, err := s.conn.Query("SELECT type, COUNT(*) FROM nodes GROUP BY type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var c int
		if err := rows.Scan(&t, &c); err != nil {
			return nil, err
		}
		types[t] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Stats{
		Nodes:   nodeCount,
		Edges:   edgeCount,
		Orphans: orphanCount,
		Types:   types,
	}, nil
}
