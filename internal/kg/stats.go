package kg

// Statistics is an aggregate snapshot of the graph, recomputed from
// scratch on every Stats call. Nothing here is cached.
type Statistics struct {
	TotalEntities      int `json:"total_entities"`
	TotalRelationships int `json:"total_relationships"`

	// Density is |E| / (|V| * (|V|-1)), the simple-directed-graph
	// approximation with parallel edges counted individually in |E|.
	// Graphs with zero or one entity have density 0.
	Density float64 `json:"density"`

	// IsConnected treats the graph as undirected, deliberately unlike
	// ShortestPath: connectivity is an overall graph health metric,
	// while path search respects biological directionality. Zero or
	// one entity counts as connected.
	IsConnected bool `json:"is_connected"`

	EntityCounts       map[EntityType]int       `json:"entity_counts"`
	RelationshipCounts map[RelationshipType]int `json:"relationship_counts"`

	// Degrees counts both directions per entity, parallel edges
	// counted individually. Self-loops contribute two.
	Degrees map[string]int `json:"degrees"`
}

// Stats computes aggregate statistics over the full current graph
func (g *Graph) Stats() Statistics {
	stats := Statistics{
		TotalEntities:      len(g.entities),
		TotalRelationships: len(g.relationships),
		EntityCounts:       make(map[EntityType]int),
		RelationshipCounts: make(map[RelationshipType]int),
		Degrees:            make(map[string]int, len(g.entities)),
	}

	if n := len(g.entities); n > 1 {
		stats.Density = float64(len(g.relationships)) / float64(n*(n-1))
	}

	for _, e := range g.entities {
		stats.EntityCounts[e.Type]++
		stats.Degrees[e.ID] = 0
	}
	for _, r := range g.relationships {
		stats.RelationshipCounts[r.Type]++
		stats.Degrees[r.Source]++
		stats.Degrees[r.Target]++
	}

	stats.IsConnected = g.isConnected()
	return stats
}

// isConnected walks the undirected adjacency from an arbitrary entity and
// checks that every entity is reached
func (g *Graph) isConnected() bool {
	if len(g.entities) <= 1 {
		return true
	}

	adjacency := make(map[string][]string, len(g.entities))
	for _, r := range g.relationships {
		adjacency[r.Source] = append(adjacency[r.Source], r.Target)
		adjacency[r.Target] = append(adjacency[r.Target], r.Source)
	}

	start := g.order[0]
	visited := map[string]struct{}{start: {}}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if _, ok := visited[next]; !ok {
				visited[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return len(visited) == len(g.entities)
}
