package kg

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	kgerrors "giraffe-kg/pkg/errors"
)

// exportDocument is the self-describing interchange form of a graph
type exportDocument struct {
	Name     string         `json:"name"`
	Metadata Metadata       `json:"metadata"`
	Nodes    []Entity       `json:"nodes"`
	Edges    []Relationship `json:"edges"`
}

// ExportJSON serializes the graph's metadata, entities and relationships
// to a JSON file. The document is written to a temporary file in the
// target directory and atomically renamed into place, so a failed export
// leaves any previously saved file untouched.
func (g *Graph) ExportJSON(path string) error {
	doc := exportDocument{
		Name:     g.name,
		Metadata: g.metadata,
		Nodes:    g.Entities(),
		Edges:    g.Relationships(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}

	g.logger.Info("Knowledge graph exported",
		zap.String("path", path),
		zap.Int("entities", len(doc.Nodes)),
		zap.Int("relationships", len(doc.Edges)),
	)
	return nil
}

// ImportJSON replaces the graph's content with the content of a JSON
// export. Entities are restored in document order, so insertion order
// survives an export/import round trip. The current content is dropped
// only after the document has parsed, so a bad file leaves the graph
// untouched.
func (g *Graph) ImportJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}

	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}
	for _, e := range doc.Nodes {
		if e.ID == "" {
			return kgerrors.NewSerializationFailed(path, fmt.Errorf("node without id"))
		}
	}
	for _, r := range doc.Edges {
		if r.Source == "" || r.Target == "" {
			return kgerrors.NewSerializationFailed(path, fmt.Errorf("edge without endpoints"))
		}
	}

	g.clear()
	if doc.Name != "" {
		g.name = doc.Name
	}
	if !doc.Metadata.Created.IsZero() {
		g.metadata = doc.Metadata
	}
	for _, e := range doc.Nodes {
		entity := e
		entity.Properties = e.Properties.Clone()
		g.entities[entity.ID] = &entity
		g.order = append(g.order, entity.ID)
	}
	for _, r := range doc.Edges {
		rel := r
		if rel.ID == "" {
			rel.ID = uuid.New().String()
		}
		rel.Properties = r.Properties.Clone()
		g.relationships = append(g.relationships, &rel)
	}

	g.logger.Info("Knowledge graph loaded",
		zap.String("path", path),
		zap.Int("entities", len(g.entities)),
		zap.Int("relationships", len(g.relationships)),
	)
	return nil
}

// snapshot is the complete internal state of a graph, including entity
// insertion order. It exists only for the binary save/restore path and
// carries no cross-version compatibility guarantee.
type snapshot struct {
	Name          string
	Metadata      Metadata
	Order         []string
	Entities      map[string]Entity
	Relationships []Relationship
}

// SaveSnapshot writes an opaque binary serialization of the graph for
// fast save/restore. Same atomic-replace contract as ExportJSON.
func (g *Graph) SaveSnapshot(path string) error {
	snap := snapshot{
		Name:          g.name,
		Metadata:      g.metadata,
		Order:         append([]string(nil), g.order...),
		Entities:      make(map[string]Entity, len(g.entities)),
		Relationships: g.Relationships(),
	}
	for id, e := range g.entities {
		snap.Entities[id] = copyEntity(e)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return kgerrors.NewSerializationFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}

	g.logger.Info("Knowledge graph snapshot saved", zap.String("path", path))
	return nil
}

// LoadSnapshot restores the exact internal state written by SaveSnapshot
func (g *Graph) LoadSnapshot(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return kgerrors.NewSerializationFailed(path, err)
	}

	g.clear()
	g.name = snap.Name
	g.metadata = snap.Metadata
	g.order = snap.Order
	for id := range snap.Entities {
		e := snap.Entities[id]
		g.entities[id] = &e
	}
	for i := range snap.Relationships {
		g.relationships = append(g.relationships, &snap.Relationships[i])
	}

	g.logger.Info("Knowledge graph snapshot loaded", zap.String("path", path))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
