package store

import "encoding/json"

// log records an action in the activity log. Logging is best-effort: a
// failed audit write must never abort the operation it describes.
func (s *Store) log(action, targetID, targetTitle, actor string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	_, _ = s.conn.Exec(
		`INSERT INTO activity_log (timestamp, action, target_id, target_title, actor, details)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		now(), action, targetID, targetTitle, actor, jdumps(details))
}

func (s *Store) queryActivity(query string, args ...any) ([]ActivityEntry, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var details string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.TargetID,
			&e.TargetTitle, &e.Actor, &details); err != nil {
			return nil, err
		}
		e.Details = map[string]any{}
		_ = json.Unmarshal([]byte(details), &e.Details)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentActivity returns the latest activity log entries, newest first.
func (s *Store) RecentActivity(limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryActivity(
		`SELECT id, timestamp, action, target_id, target_title, actor, details
		 FROM activity_log ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
}

// ActivitySince returns entries at or after a timestamp, optionally
// filtered by action kind. This is the "what changed since T" query.
func (s *Store) ActivitySince(since, action string) ([]ActivityEntry, error) {
	q := `SELECT id, timestamp, action, target_id, target_title, actor, details
	      FROM activity_log WHERE timestamp >= ?`
	args := []any{since}
	if action != "" {
		q += " AND action = ?"
		args = append(args, action)
	}
	q += " ORDER BY timestamp DESC, id DESC"
	return s.queryActivity(q, args...)
}

// ActivityByActor returns entries recorded for a specific actor.
func (s *Store) ActivityByActor(actor string, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryActivity(
		`SELECT id, timestamp, action, target_id, target_title, actor, details
		 FROM activity_log WHERE actor = ?
		 ORDER BY timestamp DESC, id DESC LIMIT ?`, actor, limit)
}
