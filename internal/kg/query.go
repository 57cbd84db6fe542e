package kg

import "sort"

// Neighbors returns the ids adjacent to the given entity, considering both
// incoming and outgoing relationships, optionally filtered by relationship
// type (empty filter matches everything). The entity itself is excluded
// and duplicates across parallel edges are collapsed. Results are sorted
// for stable output.
func (g *Graph) Neighbors(entityID string, relType RelationshipType) []string {
	if !g.HasEntity(entityID) {
		return nil
	}

	seen := make(map[string]struct{})
	for _, r := range g.relationships {
		if relType != "" && r.Type != relType {
			continue
		}
		var neighbor string
		switch entityID {
		case r.Source:
			neighbor = r.Target
		case r.Target:
			neighbor = r.Source
		default:
			continue
		}
		if neighbor != entityID {
			seen[neighbor] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ShortestPath finds a shortest directed path from source to target using
// breadth-first search. Unlike Neighbors, edge direction is respected:
// only source -> target edges are followed. It returns nil when either
// endpoint is missing or no directed path exists; that is a result, not
// an error. When several shortest paths exist, which one is returned is
// unspecified.
func (g *Graph) ShortestPath(sourceID, targetID string) []string {
	if !g.HasEntity(sourceID) || !g.HasEntity(targetID) {
		return nil
	}
	if sourceID == targetID {
		return []string{sourceID}
	}

	// Outgoing adjacency, in relationship insertion order
	adjacency := make(map[string][]string)
	for _, r := range g.relationships {
		adjacency[r.Source] = append(adjacency[r.Source], r.Target)
	}

	parent := map[string]string{sourceID: ""}
	queue := []string{sourceID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if _, visited := parent[next]; visited {
				continue
			}
			parent[next] = current
			if next == targetID {
				return buildPath(parent, sourceID, targetID)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func buildPath(parent map[string]string, sourceID, targetID string) []string {
	var reversed []string
	for id := targetID; id != ""; id = parent[id] {
		reversed = append(reversed, id)
		if id == sourceID {
			break
		}
	}
	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}
