// Package kg implements the in-memory cancer-genomics knowledge graph:
// typed entities, typed directed relationships with parallel edges,
// queries, statistics and persistence.
//
// A Graph is a plain in-process data structure with no internal locking.
// All operations assume a single writer; embedders that share a Graph
// across goroutines must wrap it in their own mutual-exclusion boundary.
package kg

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	kgerrors "giraffe-kg/pkg/errors"
	"giraffe-kg/pkg/logger"
)

// Graph owns all entity and relationship records. Callers never construct
// Entity or Relationship values directly; everything goes through
// AddEntity/AddRelationship, and accessors hand out copies.
type Graph struct {
	name     string
	metadata Metadata

	entities map[string]*Entity
	order    []string // entity ids in insertion order

	relationships []*Relationship

	logger *zap.Logger
}

// New creates an empty knowledge graph
func New(name string) *Graph {
	g := &Graph{
		name: name,
		metadata: Metadata{
			Created:     time.Now().UTC(),
			Version:     SchemaVersion,
			Description: "GIRAFFE cancer genomics knowledge graph",
		},
		entities: make(map[string]*Entity),
		logger:   logger.Named("kg"),
	}
	g.logger.Info("Initialized knowledge graph", zap.String("name", name))
	return g
}

// Name returns the graph's name
func (g *Graph) Name() string { return g.name }

// Metadata returns a copy of the graph's creation metadata
func (g *Graph) Metadata() Metadata { return g.metadata }

// AddEntity upserts a node. A new id creates an entity; an existing id
// keeps its creation timestamp, merges the given properties key by key
// and takes the new type (a type change is warned about, not rejected).
// Types outside the recommended vocabulary succeed with a warning.
func (g *Graph) AddEntity(id string, entityType EntityType, properties Properties) ([]Warning, error) {
	if id == "" {
		return nil, fmt.Errorf("entity id must not be empty")
	}

	var warnings []Warning
	if !entityType.Known() {
		warnings = append(warnings, Warning{
			Code:    WarnUnknownEntityType,
			Subject: id,
			Message: fmt.Sprintf("unknown entity type: %s", entityType),
		})
		g.logger.Warn("Unknown entity type",
			zap.String("entity_id", id),
			zap.String("type", string(entityType)),
		)
	}

	if existing, ok := g.entities[id]; ok {
		if existing.Type != entityType {
			warnings = append(warnings, Warning{
				Code:    WarnEntityTypeChanged,
				Subject: id,
				Message: fmt.Sprintf("entity type changed from %s to %s", existing.Type, entityType),
			})
			g.logger.Warn("Entity type changed",
				zap.String("entity_id", id),
				zap.String("old_type", string(existing.Type)),
				zap.String("new_type", string(entityType)),
			)
			existing.Type = entityType
		}
		if existing.Properties == nil {
			existing.Properties = make(Properties, len(properties))
		}
		existing.Properties.Merge(properties)
		return warnings, nil
	}

	g.entities[id] = &Entity{
		ID:         id,
		Type:       entityType,
		CreatedAt:  time.Now().UTC(),
		Properties: properties.Clone(),
	}
	g.order = append(g.order, id)
	g.logger.Debug("Added entity", zap.String("entity_id", id), zap.String("type", string(entityType)))
	return warnings, nil
}

// HasEntity reports whether an entity with the given id exists
func (g *Graph) HasEntity(id string) bool {
	_, ok := g.entities[id]
	return ok
}

// Entity returns a copy of the entity with the given id
func (g *Graph) Entity(id string) (Entity, bool) {
	e, ok := g.entities[id]
	if !ok {
		return Entity{}, false
	}
	return copyEntity(e), true
}

// AddRelationship links two existing entities with a typed directed edge.
// It fails with a missing-endpoint error, mutating nothing, when either
// entity is absent. Parallel edges between the same ordered pair are kept
// as independent records; self-loops are allowed. Unknown relationship
// types succeed with a warning, matching entity policy.
func (g *Graph) AddRelationship(sourceID, targetID string, relType RelationshipType, properties Properties) ([]Warning, error) {
	if !g.HasEntity(sourceID) || !g.HasEntity(targetID) {
		g.logger.Error("Cannot add relationship: missing entities",
			zap.String("source", sourceID),
			zap.String("target", targetID),
		)
		return nil, kgerrors.NewMissingEndpoint(sourceID, targetID)
	}

	var warnings []Warning
	if !relType.Known() {
		warnings = append(warnings, Warning{
			Code:    WarnUnknownRelationshipType,
			Subject: sourceID + "->" + targetID,
			Message: fmt.Sprintf("unknown relationship type: %s", relType),
		})
		g.logger.Warn("Unknown relationship type",
			zap.String("source", sourceID),
			zap.String("target", targetID),
			zap.String("type", string(relType)),
		)
	}

	g.relationships = append(g.relationships, &Relationship{
		ID:         uuid.New().String(),
		Source:     sourceID,
		Target:     targetID,
		Type:       relType,
		CreatedAt:  time.Now().UTC(),
		Properties: properties.Clone(),
	})
	g.logger.Debug("Added relationship",
		zap.String("source", sourceID),
		zap.String("target", targetID),
		zap.String("type", string(relType)),
	)
	return warnings, nil
}

// EntityCount returns the number of entities
func (g *Graph) EntityCount() int { return len(g.entities) }

// RelationshipCount returns the number of relationship records,
// parallel edges counted individually
func (g *Graph) RelationshipCount() int { return len(g.relationships) }

// FindEntitiesByType returns the ids of all entities with the given type,
// in entity insertion order.
func (g *Graph) FindEntitiesByType(entityType EntityType) []string {
	var ids []string
	for _, id := range g.order {
		if g.entities[id].Type == entityType {
			ids = append(ids, id)
		}
	}
	return ids
}

// Entities returns copies of all entities in insertion order
func (g *Graph) Entities() []Entity {
	out := make([]Entity, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, copyEntity(g.entities[id]))
	}
	return out
}

// Relationships returns copies of all relationship records in insertion order
func (g *Graph) Relationships() []Relationship {
	out := make([]Relationship, 0, len(g.relationships))
	for _, r := range g.relationships {
		out = append(out, copyRelationship(r))
	}
	return out
}

// clear drops all entities and relationships. Only the load paths use it,
// to reset state before restoring saved content.
func (g *Graph) clear() {
	g.entities = make(map[string]*Entity)
	g.order = nil
	g.relationships = nil
}

func copyEntity(e *Entity) Entity {
	c := *e
	c.Properties = e.Properties.Clone()
	return c
}

func copyRelationship(r *Relationship) Relationship {
	c := *r
	c.Properties = r.Properties.Clone()
	return c
}
