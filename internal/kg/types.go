package kg

import "time"

// EntityType tags a node. The vocabulary is open: any string is accepted,
// values outside the recommended set below are flagged with a warning.
type EntityType string

// Recommended entity types
const (
	EntityGene        EntityType = "gene"
	EntityVariant     EntityType = "variant"
	EntityDisease     EntityType = "disease"
	EntityPathway     EntityType = "pathway"
	EntityProtein     EntityType = "protein"
	EntitySample      EntityType = "sample"
	EntityPatient     EntityType = "patient"
	EntityDrug        EntityType = "drug"
	EntityPublication EntityType = "publication"
)

var knownEntityTypes = map[EntityType]struct{}{
	EntityGene: {}, EntityVariant: {}, EntityDisease: {},
	EntityPathway: {}, EntityProtein: {}, EntitySample: {},
	EntityPatient: {}, EntityDrug: {}, EntityPublication: {},
}

// Known reports whether t is in the recommended entity vocabulary
func (t EntityType) Known() bool {
	_, ok := knownEntityTypes[t]
	return ok
}

// RelationshipType tags an edge. Open vocabulary, same policy as EntityType.
type RelationshipType string

// Recommended relationship types
const (
	RelAssociatedWith RelationshipType = "associated_with"
	RelCauses         RelationshipType = "causes"
	RelRegulates      RelationshipType = "regulates"
	RelInteractsWith  RelationshipType = "interacts_with"
	RelFoundIn        RelationshipType = "found_in"
	RelTreats         RelationshipType = "treats"
	RelInhibits       RelationshipType = "inhibits"
	RelActivates      RelationshipType = "activates"
	RelMutatedIn      RelationshipType = "mutated_in"
	RelDerivedFrom    RelationshipType = "derived_from"
	RelContains       RelationshipType = "contains"
	RelMentionedIn    RelationshipType = "mentioned_in"
)

var knownRelationshipTypes = map[RelationshipType]struct{}{
	RelAssociatedWith: {}, RelCauses: {}, RelRegulates: {},
	RelInteractsWith: {}, RelFoundIn: {}, RelTreats: {},
	RelInhibits: {}, RelActivates: {}, RelMutatedIn: {},
	RelDerivedFrom: {}, RelContains: {}, RelMentionedIn: {},
}

// Known reports whether t is in the recommended relationship vocabulary
func (t RelationshipType) Known() bool {
	_, ok := knownRelationshipTypes[t]
	return ok
}

// Entity represents a typed node in the knowledge graph
type Entity struct {
	ID         string     `json:"id"`
	Type       EntityType `json:"type"`
	CreatedAt  time.Time  `json:"added_timestamp"`
	Properties Properties `json:"properties,omitempty"`
}

// Relationship represents a typed directed edge between two entities.
// Each record carries its own ID, so parallel edges between the same
// ordered pair stay independently addressable.
type Relationship struct {
	ID         string           `json:"id"`
	Source     string           `json:"source"`
	Target     string           `json:"target"`
	Type       RelationshipType `json:"type"`
	CreatedAt  time.Time        `json:"added_timestamp"`
	Properties Properties       `json:"properties,omitempty"`
}

// Metadata describes a graph instance
type Metadata struct {
	Created     time.Time `json:"created"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
}

// SchemaVersion is stamped into Metadata.Version of new graphs
const SchemaVersion = "1.0"

// Warning codes
const (
	WarnUnknownEntityType       = "unknown_entity_type"
	WarnUnknownRelationshipType = "unknown_relationship_type"
	WarnEntityTypeChanged       = "entity_type_changed"
)

// Warning is a non-fatal diagnostic emitted by a graph operation. The
// operation it accompanies still succeeded.
type Warning struct {
	Code    string `json:"code"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
