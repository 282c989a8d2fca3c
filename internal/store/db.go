// Package store is the durable core of the knowledge graph: SQLite-backed
// CRUD over nodes and edges with a synchronized FTS5 index, an append-only
// activity log, weight decay, and audience-scoped export.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05"

// Options holds the tunable constants of the store. The defaults match the
// graph invariants the rest of the system assumes; changing them is supported
// but rarely needed.
type Options struct {
	// ReverseEdgeFactor scales the weight of the auto-created reverse edge.
	ReverseEdgeFactor float64
	// DecayFloor is the minimum weight any node or edge can decay to.
	DecayFloor float64
}

// DefaultOptions returns the standard store tuning.
func DefaultOptions() Options {
	return Options{
		ReverseEdgeFactor: 0.8,
		DecayFloor:        0.01,
	}
}

// Store is the SQLite-backed knowledge graph with FTS5 full-text search.
type Store struct {
	conn *sql.DB
	Path string
	opts Options
}

// Open opens (creating if needed) the database at path with WAL mode and
// foreign keys enabled, then applies any pending schema migrations.
// A failed migration aborts the open: proceeding on an inconsistent schema
// is worse than not opening at all.
func Open(path string) (*Store, error) {
	return OpenWithOptions(path, DefaultOptions())
}

// OpenWithOptions is Open with explicit tuning.
func OpenWithOptions(path string, opts Options) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL for concurrent reads; the storage engine's locking is the only
	// synchronization layer, there is no application-level mutex.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if opts.ReverseEdgeFactor <= 0 {
		opts.ReverseEdgeFactor = 0.8
	}
	if opts.DecayFloor <= 0 {
		opts.DecayFloor = 0.01
	}

	s := &Store{conn: conn, Path: path, opts: opts}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// migrate creates missing tables and applies incremental migrations in
// order. Every step is idempotent: re-running against a database that
// already has the target structure is a no-op.
func (s *Store) migrate() error {
	if _, err := s.conn.Exec(createTables); err != nil {
		return err
	}

	var raw string
	err := s.conn.QueryRow("SELECT value FROM meta WHERE key='schema_version'").Scan(&raw)
	if err == sql.ErrNoRows {
		// Fresh database: createTables already has the full current shape.
		_, err = s.conn.Exec(
			"INSERT INTO meta (key, value) VALUES ('schema_version', ?)",
			strconv.Itoa(SchemaVersion))
		return err
	}
	if err != nil {
		return err
	}

	version, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("bad schema_version %q: %w", raw, err)
	}

	if version < 2 {
		// v2: audience column
		if err := s.addColumnIfMissing("nodes", "audience", "TEXT NOT NULL DEFAULT 'private'"); err != nil {
			return err
		}
		if _, err := s.conn.Exec("CREATE INDEX IF NOT EXISTS idx_nodes_audience ON nodes(audience)"); err != nil {
			return err
		}
	}
	if version < 3 {
		if _, err := s.conn.Exec(createActivityLog); err != nil {
			return err
		}
	}
	if version < 4 {
		if _, err := s.conn.Exec(createSuggestions); err != nil {
			return err
		}
	}

	if version < SchemaVersion {
		if _, err := s.conn.Exec(
			"UPDATE meta SET value = ? WHERE key = 'schema_version'",
			strconv.Itoa(SchemaVersion)); err != nil {
			return err
		}
	}
	return nil
}

// addColumnIfMissing is ALTER TABLE ADD COLUMN guarded by a table_info
// probe, since SQLite has no ADD COLUMN IF NOT EXISTS.
func (s *Store) addColumnIfMissing(table, column, decl string) error {
	rows, err := s.conn.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt any
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = s.conn.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// now returns the current time in the store's ISO-8601 second resolution.
func now() string {
	return time.Now().Format(timeLayout)
}

// newID returns a short random node token (12 hex chars).
func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func jdumps(v any) string {
	if v == nil {
		return "{}"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func jlist(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func parseList(raw string) []string {
	var out []string
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func parseMap(raw string) map[string]any {
	out := map[string]any{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]any{}
	}
	return out
}
