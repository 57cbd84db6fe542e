// Package mirror pushes the in-memory knowledge graph into Neo4j so that
// external visualization and query tooling can see it. Replication is
// one-way: the in-memory registry stays authoritative and nothing is ever
// read back from Neo4j.
package mirror

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"giraffe-kg/internal/kg"
	kgerrors "giraffe-kg/pkg/errors"
	"giraffe-kg/pkg/logger"
)

// Mirror replicates graph state into a Neo4j instance
type Mirror struct {
	driver neo4j.DriverWithContext
	uri    string
	logger *zap.Logger
}

// New creates a mirror connected to the given Neo4j instance
func New(uri, user, password string) (*Mirror, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	return &Mirror{
		driver: driver,
		uri:    uri,
		logger: logger.Named("mirror"),
	}, nil
}

// Verify checks connectivity to the Neo4j instance
func (m *Mirror) Verify(ctx context.Context) error {
	if err := m.driver.VerifyConnectivity(ctx); err != nil {
		return kgerrors.NewMirrorSyncFailed(m.uri, err)
	}
	return nil
}

// Close closes the Neo4j driver connection
func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

// Sync pushes every entity and relationship of the graph into Neo4j.
// Entities merge on their id; relationships merge on their record id, so
// parallel edges between the same pair survive repeated syncs. Relationship
// types land as a property because Cypher cannot parameterize edge labels.
func (m *Mirror) Sync(ctx context.Context, g *kg.Graph) error {
	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	entities := g.Entities()
	for _, e := range entities {
		query := `
			MERGE (n:Entity {id: $id})
			SET n.type = $type, n.added_at = $addedAt, n += $props
		`
		_, err := session.Run(ctx, query, map[string]any{
			"id":      e.ID,
			"type":    string(e.Type),
			"addedAt": e.CreatedAt.UTC(),
			"props":   flatten(e.Properties),
		})
		if err != nil {
			return kgerrors.NewMirrorSyncFailed(m.uri, fmt.Errorf("failed to merge entity %s: %w", e.ID, err))
		}
	}

	relationships := g.Relationships()
	for _, r := range relationships {
		query := `
			MATCH (s:Entity {id: $source})
			MATCH (t:Entity {id: $target})
			MERGE (s)-[rel:RELATES {record_id: $recordID}]->(t)
			SET rel.type = $type, rel.added_at = $addedAt, rel += $props
		`
		_, err := session.Run(ctx, query, map[string]any{
			"recordID": r.ID,
			"source":   r.Source,
			"target":   r.Target,
			"type":     string(r.Type),
			"addedAt":  r.CreatedAt.UTC(),
			"props":    flatten(r.Properties),
		})
		if err != nil {
			return kgerrors.NewMirrorSyncFailed(m.uri, fmt.Errorf("failed to merge relationship %s: %w", r.ID, err))
		}
	}

	m.logger.Info("Graph mirrored to Neo4j",
		zap.String("uri", m.uri),
		zap.Int("entities", len(entities)),
		zap.Int("relationships", len(relationships)),
	)
	return nil
}

func flatten(props kg.Properties) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v.Interface()
	}
	return out
}
