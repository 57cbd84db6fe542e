package kg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainGraph(t *testing.T) *Graph {
	t.Helper()
	g := New("test")
	for _, id := range []string{"A", "B", "C"} {
		_, err := g.AddEntity(id, EntityGene, nil)
		require.NoError(t, err)
	}
	_, err := g.AddRelationship("A", "B", RelRegulates, nil)
	require.NoError(t, err)
	_, err = g.AddRelationship("B", "C", RelRegulates, nil)
	require.NoError(t, err)
	return g
}

func TestNeighbors_DirectionAgnostic(t *testing.T) {
	g := chainGraph(t)

	// Edges are A->B and B->C, but adjacency is undirected here
	assert.Equal(t, []string{"B"}, g.Neighbors("A", ""))
	assert.Equal(t, []string{"A", "C"}, g.Neighbors("B", ""))
	assert.Equal(t, []string{"B"}, g.Neighbors("C", ""))
}

func TestNeighbors_Symmetric(t *testing.T) {
	g := chainGraph(t)

	for _, a := range []string{"A", "B", "C"} {
		for _, b := range g.Neighbors(a, "") {
			assert.Contains(t, g.Neighbors(b, ""), a, "neighbors(%s) should contain %s", b, a)
		}
	}
}

func TestNeighbors_TypeFilter(t *testing.T) {
	g := New("test")
	_, _ = g.AddEntity("v", EntityVariant, nil)
	_, _ = g.AddEntity("g", EntityGene, nil)
	_, _ = g.AddEntity("d", EntityDisease, nil)
	_, _ = g.AddRelationship("v", "g", RelFoundIn, nil)
	_, _ = g.AddRelationship("v", "d", RelAssociatedWith, nil)

	assert.Equal(t, []string{"g"}, g.Neighbors("v", RelFoundIn))
	assert.Equal(t, []string{"d"}, g.Neighbors("v", RelAssociatedWith))
	assert.Equal(t, []string{"d", "g"}, g.Neighbors("v", ""))
}

func TestNeighbors_ParallelEdgesCollapsedSelfExcluded(t *testing.T) {
	g := New("test")
	_, _ = g.AddEntity("a", EntityGene, nil)
	_, _ = g.AddEntity("b", EntityGene, nil)
	_, _ = g.AddRelationship("a", "b", RelRegulates, nil)
	_, _ = g.AddRelationship("a", "b", RelInteractsWith, nil)
	_, _ = g.AddRelationship("b", "a", RelRegulates, nil)
	_, _ = g.AddRelationship("a", "a", RelRegulates, nil)

	assert.Equal(t, []string{"b"}, g.Neighbors("a", ""))
}

func TestNeighbors_MissingEntity(t *testing.T) {
	g := New("test")
	assert.Nil(t, g.Neighbors("nope", ""))
}

func TestShortestPath_Directed(t *testing.T) {
	g := chainGraph(t)

	assert.Equal(t, []string{"A", "B", "C"}, g.ShortestPath("A", "C"))

	// No reverse path even though neighbors are symmetric
	assert.Nil(t, g.ShortestPath("C", "A"))
	assert.Contains(t, g.Neighbors("A", ""), "B")
	assert.Contains(t, g.Neighbors("C", ""), "B")
}

func TestShortestPath_PicksShorterRoute(t *testing.T) {
	g := New("test")
	for _, id := range []string{"A", "B", "C", "D"} {
		_, _ = g.AddEntity(id, EntityGene, nil)
	}
	// Long route A->B->C->D and shortcut A->D
	_, _ = g.AddRelationship("A", "B", RelRegulates, nil)
	_, _ = g.AddRelationship("B", "C", RelRegulates, nil)
	_, _ = g.AddRelationship("C", "D", RelRegulates, nil)
	_, _ = g.AddRelationship("A", "D", RelRegulates, nil)

	assert.Equal(t, []string{"A", "D"}, g.ShortestPath("A", "D"))
}

func TestShortestPath_SameNode(t *testing.T) {
	g := chainGraph(t)
	assert.Equal(t, []string{"A"}, g.ShortestPath("A", "A"))
}

func TestShortestPath_MissingEndpoints(t *testing.T) {
	g := chainGraph(t)
	assert.Nil(t, g.ShortestPath("A", "nope"))
	assert.Nil(t, g.ShortestPath("nope", "A"))
}
