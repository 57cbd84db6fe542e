// Package ingest turns externally produced biomedical records — annotated
// mutations, tumor samples, free-text extraction results — into knowledge
// graph entities and relationships. Inputs arrive already parsed; this
// package validates them and wires them into the graph.
package ingest

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"giraffe-kg/internal/kg"
	kgerrors "giraffe-kg/pkg/errors"
	"giraffe-kg/pkg/logger"
)

// Processor applies validated records to a knowledge graph
type Processor struct {
	graph    *kg.Graph
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProcessor creates a processor bound to a graph
func NewProcessor(graph *kg.Graph) *Processor {
	return &Processor{
		graph:    graph,
		validate: validator.New(),
		logger:   logger.Named("ingest"),
	}
}

// AddMutation upserts a variant entity with the deterministic identity
// var_{chromosome}_{position}_{ref}_{alt}, wires it to its gene via
// found_in and to each disease via associated_with, creating gene and
// disease entities as needed. Returns the variant id.
func (p *Processor) AddMutation(rec MutationRecord) (string, *Report, error) {
	if err := p.validate.Struct(rec); err != nil {
		return "", nil, kgerrors.NewInvalidRecord("mutation", err)
	}

	report := &Report{}
	variantID := fmt.Sprintf("var_%s_%s_%s_%s", rec.Chromosome, rec.Position, rec.RefAllele, rec.AltAllele)

	variantProps := kg.Properties{
		"chromosome": kg.String(rec.Chromosome),
		"position":   kg.String(rec.Position),
		"ref_allele": kg.String(rec.RefAllele),
		"alt_allele": kg.String(rec.AltAllele),
	}
	if rec.RSID != "" {
		variantProps["rsid"] = kg.String(rec.RSID)
	}
	if rec.Frequency != "" {
		variantProps["frequency"] = kg.String(rec.Frequency)
	}
	if rec.ClinicalSignificance != "" {
		variantProps["clinical_significance"] = kg.String(rec.ClinicalSignificance)
	}

	ws, err := p.graph.AddEntity(variantID, kg.EntityVariant, variantProps)
	if err != nil {
		return "", nil, err
	}
	report.warn(ws)
	report.upserted(variantID)

	if rec.Gene != "" {
		geneID := "gene_" + rec.Gene
		ws, err := p.graph.AddEntity(geneID, kg.EntityGene, kg.Properties{
			"symbol":     kg.String(rec.Gene),
			"chromosome": kg.String(rec.Chromosome),
		})
		if err != nil {
			return "", nil, err
		}
		report.warn(ws)
		report.upserted(geneID)

		ws, err = p.graph.AddRelationship(variantID, geneID, kg.RelFoundIn, kg.Properties{
			"evidence": kg.String("genomic_annotation"),
		})
		if err != nil {
			return "", nil, err
		}
		report.warn(ws)
		report.RelationshipsAdded++
	}

	for _, disease := range rec.Diseases {
		diseaseID := "disease_" + NormalizeName(disease)
		ws, err := p.graph.AddEntity(diseaseID, kg.EntityDisease, kg.Properties{
			"name":     kg.String(disease),
			"category": kg.String("cancer"),
		})
		if err != nil {
			return "", nil, err
		}
		report.warn(ws)
		report.upserted(diseaseID)

		relProps := kg.Properties{
			"evidence": kg.String("dbsnp_annotation"),
		}
		if rec.ClinicalSignificance != "" {
			relProps["clinical_significance"] = kg.String(rec.ClinicalSignificance)
		}
		ws, err = p.graph.AddRelationship(variantID, diseaseID, kg.RelAssociatedWith, relProps)
		if err != nil {
			return "", nil, err
		}
		report.warn(ws)
		report.RelationshipsAdded++
	}

	p.logger.Debug("Mutation ingested",
		zap.String("variant_id", variantID),
		zap.String("gene", rec.Gene),
		zap.Int("diseases", len(rec.Diseases)),
	)
	return variantID, report, nil
}

// AddSample upserts a sample entity, links it to its patient via
// derived_from (the patient entity is created only if absent, so existing
// patient properties survive), and links it to each variant it contains.
// Variant ids not present in the graph are skipped and reported.
func (p *Processor) AddSample(rec SampleRecord) (*Report, error) {
	if err := p.validate.Struct(rec); err != nil {
		return nil, kgerrors.NewInvalidRecord("sample", err)
	}

	source := rec.Source
	if source == "" {
		source = "TCGA"
	}

	report := &Report{}
	ws, err := p.graph.AddEntity(rec.SampleID, kg.EntitySample, kg.Properties{
		"cancer_type": kg.String(rec.CancerType),
		"source":      kg.String(source),
		"patient_id":  kg.String(rec.PatientID),
	})
	if err != nil {
		return nil, err
	}
	report.warn(ws)
	report.upserted(rec.SampleID)

	if !p.graph.HasEntity(rec.PatientID) {
		ws, err := p.graph.AddEntity(rec.PatientID, kg.EntityPatient, kg.Properties{
			"cancer_type": kg.String(rec.CancerType),
		})
		if err != nil {
			return nil, err
		}
		report.warn(ws)
		report.upserted(rec.PatientID)
	}

	ws, err = p.graph.AddRelationship(rec.SampleID, rec.PatientID, kg.RelDerivedFrom, nil)
	if err != nil {
		return nil, err
	}
	report.warn(ws)
	report.RelationshipsAdded++

	for _, variantID := range rec.VariantIDs {
		if !p.graph.HasEntity(variantID) {
			report.Skipped = append(report.Skipped, variantID)
			continue
		}
		ws, err := p.graph.AddRelationship(rec.SampleID, variantID, kg.RelContains, kg.Properties{
			"detection_method": kg.String("sequencing"),
		})
		if err != nil {
			return nil, err
		}
		report.warn(ws)
		report.RelationshipsAdded++
	}

	p.logger.Debug("Sample ingested",
		zap.String("sample_id", rec.SampleID),
		zap.String("patient_id", rec.PatientID),
		zap.Int("skipped_variants", len(report.Skipped)),
	)
	return report, nil
}

// ApplyExtraction applies an extraction result to the graph. Entities are
// applied first; a relationship whose endpoints are still missing after
// that is skipped silently and counted in the report, never an error.
func (p *Processor) ApplyExtraction(ex Extraction) (*Report, error) {
	if err := p.validate.Struct(ex); err != nil {
		return nil, kgerrors.NewInvalidRecord("extraction", err)
	}

	report := &Report{}
	for _, ent := range ex.Entities {
		id := ent.ID
		if id == "" {
			id = ent.Type + "_" + NormalizeName(ent.Name)
		}
		props := ent.Properties.Clone()
		if props == nil {
			props = kg.Properties{}
		}
		if _, ok := props["name"]; !ok {
			props["name"] = kg.String(ent.Name)
		}
		ws, err := p.graph.AddEntity(id, kg.EntityType(ent.Type), props)
		if err != nil {
			return nil, err
		}
		report.warn(ws)
		report.upserted(id)
	}

	for _, rel := range ex.Relationships {
		if !p.graph.HasEntity(rel.Source) || !p.graph.HasEntity(rel.Target) {
			report.Skipped = append(report.Skipped, rel.Source+"->"+rel.Target)
			continue
		}
		ws, err := p.graph.AddRelationship(rel.Source, rel.Target, kg.RelationshipType(rel.Type), rel.Properties)
		if err != nil {
			return nil, err
		}
		report.warn(ws)
		report.RelationshipsAdded++
	}

	p.logger.Debug("Extraction applied",
		zap.Int("entities", len(ex.Entities)),
		zap.Int("relationships", report.RelationshipsAdded),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// NormalizeName lowercases a display name and replaces spaces with
// underscores, matching the disease identity convention of annotation
// pipelines ("Breast Cancer" -> "breast_cancer").
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
