package store

// AddSuggestion records a bridge opportunity between two concept titles.
// Returns the suggestion ID.
func (s *Store) AddSuggestion(conceptA, conceptB, reason, source string) (int64, error) {
	res, err := s.conn.Exec(
		`INSERT INTO suggestions (concept_a, concept_b, reason, source, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conceptA, conceptB, reason, source, now())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.log("add_suggestion", conceptA+"->"+conceptB, "", "", map[string]any{
		"reason": reason, "source": source,
	})
	return id, nil
}

// PendingSuggestions returns suggestions still awaiting review, newest first.
func (s *Store) PendingSuggestions(limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(
		`SELECT id, concept_a, concept_b, reason, source, status, created_at
		 FROM suggestions WHERE status = 'pending'
		 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var sg Suggestion
		if err := rows.Scan(&sg.ID, &sg.ConceptA, &sg.ConceptB, &sg.Reason,
			&sg.Source, &sg.Status, &sg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

// UpdateSuggestion marks a suggestion accepted or rejected.
func (s *Store) UpdateSuggestion(id int64, status string) error {
	_, err := s.conn.Exec("UPDATE suggestions SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	s.log("update_suggestion", "", "", "", map[string]any{
		"id": id, "status": status,
	})
	return nil
}
