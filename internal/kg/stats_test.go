package kg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_EmptyGraph(t *testing.T) {
	g := New("test")
	stats := g.Stats()

	assert.Equal(t, 0, stats.TotalEntities)
	assert.Equal(t, 0, stats.TotalRelationships)
	assert.Equal(t, 0.0, stats.Density)
	assert.True(t, stats.IsConnected)
	assert.Empty(t, stats.EntityCounts)
	assert.Empty(t, stats.Degrees)
}

func TestStats_SingleNode(t *testing.T) {
	g := New("test")
	_, _ = g.AddEntity("a", EntityGene, nil)
	stats := g.Stats()

	assert.Equal(t, 0.0, stats.Density)
	assert.True(t, stats.IsConnected)
	assert.Equal(t, 0, stats.Degrees["a"])
}

func TestStats_CountsAndDensity(t *testing.T) {
	g := New("test")
	_, _ = g.AddEntity("v", EntityVariant, nil)
	_, _ = g.AddEntity("g", EntityGene, nil)
	_, _ = g.AddEntity("d", EntityDisease, nil)
	_, _ = g.AddRelationship("v", "g", RelFoundIn, nil)
	_, _ = g.AddRelationship("v", "d", RelAssociatedWith, nil)
	_, _ = g.AddRelationship("v", "d", RelAssociatedWith, nil) // parallel edge

	stats := g.Stats()
	assert.Equal(t, 3, stats.TotalEntities)
	assert.Equal(t, 3, stats.TotalRelationships)
	// |E| / (|V| * (|V|-1)) with parallel edges counted individually
	assert.InDelta(t, 3.0/6.0, stats.Density, 1e-12)

	assert.Equal(t, map[EntityType]int{EntityVariant: 1, EntityGene: 1, EntityDisease: 1}, stats.EntityCounts)
	assert.Equal(t, map[RelationshipType]int{RelFoundIn: 1, RelAssociatedWith: 2}, stats.RelationshipCounts)

	// Degree counts both directions, parallel edges individually
	assert.Equal(t, 3, stats.Degrees["v"])
	assert.Equal(t, 1, stats.Degrees["g"])
	assert.Equal(t, 2, stats.Degrees["d"])
}

func TestStats_Connectivity(t *testing.T) {
	g := New("test")
	_, _ = g.AddEntity("a", EntityGene, nil)
	_, _ = g.AddEntity("b", EntityGene, nil)
	_, _ = g.AddEntity("c", EntityGene, nil)
	_, _ = g.AddRelationship("a", "b", RelRegulates, nil)

	// c is isolated
	assert.False(t, g.Stats().IsConnected)

	// A single directed edge is enough: connectivity is undirected
	_, _ = g.AddRelationship("c", "a", RelRegulates, nil)
	assert.True(t, g.Stats().IsConnected)
}

func TestStats_SelfLoopDegree(t *testing.T) {
	g := New("test")
	_, _ = g.AddEntity("a", EntityGene, nil)
	_, _ = g.AddRelationship("a", "a", RelRegulates, nil)

	assert.Equal(t, 2, g.Stats().Degrees["a"])
}
