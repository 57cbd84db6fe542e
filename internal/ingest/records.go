package ingest

import (
	"encoding/json"

	"giraffe-kg/internal/kg"
)

// DiseaseList accepts either a single JSON string or an array of strings;
// annotation sources are inconsistent about which they emit.
type DiseaseList []string

// UnmarshalJSON implements json.Unmarshaler
func (d *DiseaseList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*d = DiseaseList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*d = DiseaseList(many)
	return nil
}

// MutationRecord is an already-parsed, annotated mutation. Parsing VCF or
// TSV into this shape is the collaborator's job, not this package's.
type MutationRecord struct {
	Chromosome           string      `json:"chromosome" validate:"required"`
	Position             string      `json:"position" validate:"required"`
	RefAllele            string      `json:"ref_allele" validate:"required"`
	AltAllele            string      `json:"alt_allele" validate:"required"`
	Gene                 string      `json:"gene,omitempty"`
	RSID                 string      `json:"rsid,omitempty"`
	Frequency            string      `json:"frequency,omitempty"`
	ClinicalSignificance string      `json:"clinical_significance,omitempty"`
	Diseases             DiseaseList `json:"diseases,omitempty"`
}

// SampleRecord describes a sequenced tumor sample and the variants
// detected in it
type SampleRecord struct {
	SampleID   string   `json:"sample_id" validate:"required"`
	PatientID  string   `json:"patient_id" validate:"required"`
	CancerType string   `json:"cancer_type" validate:"required"`
	Source     string   `json:"source,omitempty"`
	VariantIDs []string `json:"variant_ids,omitempty" validate:"omitempty,dive,required"`
}

// ExtractedEntity is one entity from a free-text extraction result.
// ID is optional; when empty it is derived as {type}_{normalized_name}.
type ExtractedEntity struct {
	ID         string        `json:"id,omitempty"`
	Type       string        `json:"type" validate:"required"`
	Name       string        `json:"name" validate:"required"`
	Properties kg.Properties `json:"properties,omitempty"`
}

// ExtractedRelationship is one relationship from a free-text extraction
// result. Relationships whose endpoints do not exist after the entities of
// the same extraction were applied are skipped, not failed.
type ExtractedRelationship struct {
	Source     string        `json:"source" validate:"required"`
	Target     string        `json:"target" validate:"required"`
	Type       string        `json:"type" validate:"required"`
	Properties kg.Properties `json:"properties,omitempty"`
}

// Extraction is the full output of one extraction pass over a document
type Extraction struct {
	Entities      []ExtractedEntity       `json:"entities" validate:"omitempty,dive"`
	Relationships []ExtractedRelationship `json:"relationships" validate:"omitempty,dive"`
	Summary       string                  `json:"summary,omitempty"`
}

// Report summarizes what one ingest operation did to the graph
type Report struct {
	EntitiesUpserted   []string     `json:"entities_upserted"`
	RelationshipsAdded int          `json:"relationships_added"`
	Skipped            []string     `json:"skipped,omitempty"`
	Warnings           []kg.Warning `json:"warnings,omitempty"`
}

func (r *Report) upserted(id string) {
	r.EntitiesUpserted = append(r.EntitiesUpserted, id)
}

func (r *Report) warn(ws []kg.Warning) {
	r.Warnings = append(r.Warnings, ws...)
}
