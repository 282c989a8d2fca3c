package graph

import "sort"

// Community is a detected cluster of nodes.
type Community struct {
	ID      int      `json:"id"`
	Members []string `json:"members"`
	Size    int      `json:"size"`
}

type upair struct{ a, b string }

// Communities detects clusters on the undirected projection by greedy
// modularity maximization: every node starts alone, and the connected
// pair of communities with the best modularity gain is merged until no
// merge improves modularity. minSize filters the returned communities.
func Communities(v *View, minSize int) []Community {
	ids := v.NodeIDs()
	if len(ids) == 0 {
		return nil
	}

	// Undirected edge list, deduplicated, weight 1 per pair.
	pairs := make(map[upair]bool)
	for _, e := range v.Edges {
		if e.From == e.To {
			continue
		}
		a, b := e.From, e.To
		if a > b {
			a, b = b, a
		}
		pairs[upair{a, b}] = true
	}
	m := float64(len(pairs))

	comm := make(map[string]int, len(ids))
	degree := make(map[string]float64, len(ids))
	for i, id := range ids {
		comm[id] = i
		degree[id] = float64(len(v.Adj[id]))
	}

	if m == 0 {
		return singletonCommunities(ids, minSize)
	}

	// Greedy merge loop. Gain for merging communities i and j:
	//   e_ij/m - (d_i * d_j) / (2 m^2)
	// Aggregates are rebuilt after each merge; graphs here are personal
	// scale, so the O(E) rebuild is not worth optimizing away.
	for {
		commDegree := make(map[int]float64)
		for id, c := range comm {
			commDegree[c] += degree[id]
		}
		links := make(map[upairInt]float64)
		for p := range pairs {
			ci, cj := comm[p.a], comm[p.b]
			if ci == cj {
				continue
			}
			if ci > cj {
				ci, cj = cj, ci
			}
			links[upairInt{ci, cj}] += 1
		}

		keys := make([]upairInt, 0, len(links))
		for k := range links {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].a != keys[j].a {
				return keys[i].a < keys[j].a
			}
			return keys[i].b < keys[j].b
		})

		bestGain := 0.0
		best := upairInt{-1, -1}
		for _, k := range keys {
			gain := links[k]/m - commDegree[k.a]*commDegree[k.b]/(2*m*m)
			if gain > bestGain {
				bestGain = gain
				best = k
			}
		}
		if best.a < 0 {
			break
		}
		for id, c := range comm {
			if c == best.b {
				comm[id] = best.a
			}
		}
	}

	return groupCommunities(comm, minSize)
}

type upairInt struct{ a, b int }

func singletonCommunities(ids []string, minSize int) []Community {
	if minSize > 1 {
		return nil
	}
	out := make([]Community, 0, len(ids))
	for i, id := range ids {
		out = append(out, Community{ID: i, Members: []string{id}, Size: 1})
	}
	return out
}

// groupCommunities converts the node->label map into sorted Community
// values: largest first, members sorted, IDs renumbered from 0.
func groupCommunities(comm map[string]int, minSize int) []Community {
	groups := make(map[int][]string)
	for id, c := range comm {
		groups[c] = append(groups[c], id)
	}
	out := make([]Community, 0, len(groups))
	for _, members := range groups {
		if len(members) < minSize {
			continue
		}
		sort.Strings(members)
		out = append(out, Community{Members: members, Size: len(members)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].Members[0] < out[j].Members[0]
	})
	for i := range out {
		out[i].ID = i
	}
	return out
}
