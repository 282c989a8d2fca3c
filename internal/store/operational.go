package store

// Operational node queries. Trigger and owner live inside the extra JSON
// blob ({"trigger": "pre-deploy"}, {"owner": "dana"}); they are matched with
// LIKE patterns over the serialized column, validated at the access site.

// NodesByTrigger finds active operational nodes whose extra trigger matches.
func (s *Store) NodesByTrigger(trigger, nodeType string) ([]Node, error) {
	q := "SELECT " + nodeColumns + " FROM nodes WHERE extra LIKE ?"
	args := []any{`%"trigger"%` + trigger + `%`}
	if nodeType != "" {
		q += " AND type = ?"
		args = append(args, nodeType)
	}
	q += " AND status = 'active' ORDER BY weight DESC, id"
	return s.queryNodes(q, args...)
}

// NodesByOwner finds active nodes owned by a specific person.
func (s *Store) NodesByOwner(owner, nodeType string) ([]Node, error) {
	q := "SELECT " + nodeColumns + " FROM nodes WHERE extra LIKE ?"
	args := []any{`%"owner"%"` + owner + `"%`}
	if nodeType != "" {
		q += " AND type = ?"
		args = append(args, nodeType)
	}
	q += " AND status = 'active' ORDER BY weight DESC, id"
	return s.queryNodes(q, args...)
}

// ActiveWatches returns active watch nodes whose extra expiry date, if set,
// has not passed.
func (s *Store) ActiveWatches() ([]Node, error) {
	nodes, err := s.AllNodes(NodeFilter{Type: "watch", Status: "active"})
	if err != nil {
		return nil, err
	}
	today := now()[:10] // YYYY-MM-DD
	var out []Node
	for _, n := range nodes {
		expires, _ := n.Extra["expires"].(string)
		if expires == "" || expires >= today {
			out = append(out, n)
		}
	}
	return out, nil
}

// ActiveConstraints returns active constraints, optionally trigger-filtered.
func (s *Store) ActiveConstraints(trigger string) ([]Node, error) {
	if trigger != "" {
		return s.NodesByTrigger(trigger, "constraint")
	}
	return s.AllNodes(NodeFilter{Type: "constraint", Status: "active"})
}

// ActiveCheckpoints returns active checkpoints, optionally trigger-filtered.
func (s *Store) ActiveCheckpoints(trigger string) ([]Node, error) {
	if trigger != "" {
		return s.NodesByTrigger(trigger, "checkpoint")
	}
	return s.AllNodes(NodeFilter{Type: "checkpoint", Status: "active"})
}

// Operational summarizes all active operational nodes, optionally filtered
// by trigger (constraints, checkpoints) and owner (watches, directives).
func (s *Store) Operational(trigger, owner string) (*OperationalSummary, error) {
	constraints, err := s.ActiveConstraints(trigger)
	if err != nil {
		return nil, err
	}
	checkpoints, err := s.ActiveCheckpoints(trigger)
	if err != nil {
		return nil, err
	}
	watches, err := s.ActiveWatches()
	if err != nil {
		return nil, err
	}
	directives, err := s.AllNodes(NodeFilter{Type: "directive", Status: "active"})
	if err != nil {
		return nil, err
	}

	if owner != "" {
		watches = filterByOwner(watches, owner)
		directives = filterByOwner(directives, owner)
	}

	return &OperationalSummary{
		Constraints: constraints,
		Checkpoints: checkpoints,
		Watches:     watches,
		Directives:  directives,
	}, nil
}

func filterByOwner(nodes []Node, owner string) []Node {
	var out []Node
	for _, n := range nodes {
		if o, _ := n.Extra["owner"].(string); o == owner {
			out = append(out, n)
		}
	}
	return out
}

// UpdateDirectiveState writes the mutable current_state of an operational
// node into its extra blob, stamping state_updated_at.
func (s *Store) UpdateDirectiveState(nodeID string, state map[string]any) error {
	node, err := s.GetNode(nodeID)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	extra := node.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	extra["current_state"] = state
	extra["state_updated_at"] = now()
	if err := s.UpdateNode(nodeID, map[string]any{"extra": extra}); err != nil {
		return err
	}
	s.log("update_state", nodeID, node.Title, "", map[string]any{"state": state})
	return nil
}
