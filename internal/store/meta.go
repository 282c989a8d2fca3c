package store

import "database/sql"

// GetMeta reads a persisted scalar. The second return reports whether the
// key exists: a missing key is a normal condition, not an error.
func (s *Store) GetMeta(key string) (string, bool, error) {
	var value sql.NullString
	err := s.conn.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if isNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value.String, true, nil
}

// SetMeta writes a persisted scalar with upsert semantics.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	return err
}
