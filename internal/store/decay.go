package store

import (
	"fmt"
	"math"
	"time"
)

// materiality is the minimum weight delta worth persisting.
const materiality = 0.001

// ApplyWeightDecay halves node weights every nodeHalfLifeDays since last
// access and edge weights every edgeHalfLifeDays since creation, flooring
// at the configured decay floor. Decay is monotonic non-increasing; changes
// below the materiality threshold are skipped. Returns the count of nodes
// whose weight actually changed.
func (s *Store) ApplyWeightDecay(nodeHalfLifeDays, edgeHalfLifeDays int) (int, error) {
	if nodeHalfLifeDays <= 0 {
		nodeHalfLifeDays = 90
	}
	if edgeHalfLifeDays <= 0 {
		edgeHalfLifeDays = 30
	}
	nowT := time.Now()

	tx, err := s.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id, weight, last_accessed FROM nodes")
	if err != nil {
		return 0, err
	}
	type pending struct {
		id     string
		weight float64
	}
	var nodeUpdates []pending
	for rows.Next() {
		var id, last string
		var weight float64
		if err := rows.Scan(&id, &weight, &last); err != nil {
			rows.Close()
			return 0, err
		}
		if w, ok := decayed(weight, last, nodeHalfLifeDays, nowT, s.opts.DecayFloor); ok {
			nodeUpdates = append(nodeUpdates, pending{id, w})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, u := range nodeUpdates {
		if _, err := tx.Exec("UPDATE nodes SET weight = ? WHERE id = ?", u.weight, u.id); err != nil {
			return 0, fmt.Errorf("decaying node %s: %w", u.id, err)
		}
	}

	erows, err := tx.Query("SELECT id, weight, created_at FROM edges")
	if err != nil {
		return 0, err
	}
	type epending struct {
		id     int64
		weight float64
	}
	var edgeUpdates []epending
	for erows.Next() {
		var id int64
		var weight float64
		var created string
		if err := erows.Scan(&id, &weight, &created); err != nil {
			erows.Close()
			return 0, err
		}
		if w, ok := decayed(weight, created, edgeHalfLifeDays, nowT, s.opts.DecayFloor); ok {
			edgeUpdates = append(edgeUpdates, epending{id, w})
		}
	}
	if err := erows.Err(); err != nil {
		erows.Close()
		return 0, err
	}
	erows.Close()

	for _, u := range edgeUpdates {
		if _, err := tx.Exec("UPDATE edges SET weight = ? WHERE id = ?", u.weight, u.id); err != nil {
			return 0, fmt.Errorf("decaying edge %d: %w", u.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(nodeUpdates), nil
}

// sqliteLayout is the space-separated form SQLite's datetime('now') default
// produced for edges written by older databases. Those timestamps are UTC.
const sqliteLayout = "2006-01-02 15:04:05"

// decayed computes the half-life-decayed weight. The second return is false
// when the timestamp is unparsable, no whole day has elapsed, or the change
// is immaterial.
func decayed(weight float64, since string, halfLifeDays int, nowT time.Time, floor float64) (float64, bool) {
	t, err := time.ParseInLocation(timeLayout, since, time.Local)
	if err != nil {
		t, err = time.ParseInLocation(sqliteLayout, since, time.UTC)
	}
	if err != nil {
		return 0, false
	}
	days := int(nowT.Sub(t).Hours() / 24)
	if days <= 0 {
		return 0, false
	}
	decay := math.Pow(0.5, float64(days)/float64(halfLifeDays))
	w := math.Max(floor, weight*decay)
	if math.Abs(w-weight) <= materiality {
		return 0, false
	}
	return math.Round(w*10000) / 10000, true
}
