package store

import (
	"encoding/json"
	"fmt"
)

// skillBoost is added to a skill node's weight per evidence, capped at 1.0.
const skillBoost = 0.05

// RecordSkillEvidence records a person demonstrating a skill: person and
// skill nodes are found or created, a demonstrates edge carries the
// accumulated evidence list in its provenance, and the skill weight is
// boosted slightly per sighting.
func (s *Store) RecordSkillEvidence(personID, skillTitle, evidence, source string) error {
	person, err := s.GetNode(personID)
	if err != nil {
		return err
	}
	if person == nil {
		person, err = s.GetNodeByTitle(personID)
		if err != nil {
			return err
		}
	}
	if person == nil {
		pid, err := s.AddNode(NodeParams{
			Title:    personID,
			Type:     "person",
			Activity: "skill-tracking",
			Why:      "Auto-created for skill evidence",
		})
		if err != nil {
			return err
		}
		personID = pid
	} else {
		personID = person.ID
	}

	skill, err := s.GetNodeByTitle(skillTitle)
	if err != nil {
		return err
	}
	var skillID string
	if skill == nil {
		skillID, err = s.AddNode(NodeParams{
			Title:    skillTitle,
			Type:     "skill",
			Weight:   0.5,
			Activity: "skill-tracking",
			Why:      "Auto-created for skill evidence",
		})
		if err != nil {
			return err
		}
	} else {
		skillID = skill.ID
	}

	record := map[string]any{
		"evidence": evidence, "source": source, "recorded_at": now(),
	}

	var edgeID int64
	var provenance string
	err = s.conn.QueryRow(
		`SELECT id, provenance FROM edges
		 WHERE from_id = ? AND to_id = ? AND type = 'demonstrates'`,
		personID, skillID).Scan(&edgeID, &provenance)
	switch {
	case isNoRows(err):
		// New evidence trail: unidirectional person -> skill.
		prov := jdumps([]any{record})
		if _, err := s.conn.Exec(
			`INSERT OR REPLACE INTO edges (from_id, to_id, type, weight, provenance, created_at)
			 VALUES (?, ?, 'demonstrates', 0.5, ?, ?)`,
			personID, skillID, prov, now()); err != nil {
			return fmt.Errorf("recording evidence edge: %w", err)
		}
	case err != nil:
		return err
	default:
		var prev []any
		if jerr := json.Unmarshal([]byte(provenance), &prev); jerr != nil {
			prev = nil
		}
		prev = append(prev, record)
		if _, err := s.conn.Exec(
			"UPDATE edges SET provenance = ? WHERE id = ?",
			jdumps(prev), edgeID); err != nil {
			return fmt.Errorf("appending evidence: %w", err)
		}
	}

	node, err := s.GetNode(skillID)
	if err != nil {
		return err
	}
	if node != nil {
		w := node.Weight + skillBoost
		if w > 1.0 {
			w = 1.0
		}
		if err := s.UpdateNode(skillID, map[string]any{"weight": w}); err != nil {
			return err
		}
	}

	s.log("record_skill_evidence", skillID, skillTitle, personID, map[string]any{
		"evidence": evidence, "source": source,
	})
	return nil
}
