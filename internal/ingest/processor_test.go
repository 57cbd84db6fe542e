package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giraffe-kg/internal/kg"
	kgerrors "giraffe-kg/pkg/errors"
)

func brca1Mutation() MutationRecord {
	return MutationRecord{
		Chromosome:           "chr17",
		Position:             "41234470",
		RefAllele:            "A",
		AltAllele:            "G",
		Gene:                 "BRCA1",
		RSID:                 "rs80357382",
		Frequency:            "0.0001",
		ClinicalSignificance: "Pathogenic",
		Diseases:             DiseaseList{"Breast Cancer", "Ovarian Cancer"},
	}
}

func TestAddMutation(t *testing.T) {
	g := kg.New("test")
	p := NewProcessor(g)

	variantID, report, err := p.AddMutation(brca1Mutation())
	require.NoError(t, err)
	assert.Equal(t, "var_chr17_41234470_A_G", variantID)

	// Variant, gene and two disease entities
	assert.Equal(t, 4, g.EntityCount())
	assert.True(t, g.HasEntity("gene_BRCA1"))
	assert.True(t, g.HasEntity("disease_breast_cancer"))
	assert.True(t, g.HasEntity("disease_ovarian_cancer"))

	// found_in to the gene plus associated_with per disease
	assert.Equal(t, 3, g.RelationshipCount())
	assert.Equal(t, []string{"gene_BRCA1"}, g.Neighbors(variantID, kg.RelFoundIn))
	assert.ElementsMatch(t, []string{"disease_breast_cancer", "disease_ovarian_cancer"},
		g.Neighbors(variantID, kg.RelAssociatedWith))

	variant, _ := g.Entity(variantID)
	rsid, _ := variant.Properties["rsid"].AsString()
	assert.Equal(t, "rs80357382", rsid)

	assert.Equal(t, 3, report.RelationshipsAdded)
	assert.Empty(t, report.Warnings)
}

func TestAddMutation_NoGeneNoDiseases(t *testing.T) {
	g := kg.New("test")
	p := NewProcessor(g)

	variantID, report, err := p.AddMutation(MutationRecord{
		Chromosome: "chr12",
		Position:   "25398284",
		RefAllele:  "C",
		AltAllele:  "T",
	})
	require.NoError(t, err)
	assert.Equal(t, "var_chr12_25398284_C_T", variantID)
	assert.Equal(t, 1, g.EntityCount())
	assert.Equal(t, 0, report.RelationshipsAdded)
}

func TestAddMutation_Validation(t *testing.T) {
	p := NewProcessor(kg.New("test"))

	_, _, err := p.AddMutation(MutationRecord{Chromosome: "chr1"})
	require.Error(t, err)
	assert.True(t, kgerrors.IsErrorType(err, kgerrors.ErrorTypeIngest))
}

func TestDiseaseList_StringOrSlice(t *testing.T) {
	var rec MutationRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"chromosome": "chr17", "position": "1", "ref_allele": "A", "alt_allele": "G",
		"diseases": "Breast Cancer"
	}`), &rec))
	assert.Equal(t, DiseaseList{"Breast Cancer"}, rec.Diseases)

	require.NoError(t, json.Unmarshal([]byte(`{
		"chromosome": "chr17", "position": "1", "ref_allele": "A", "alt_allele": "G",
		"diseases": ["Breast Cancer", "Ovarian Cancer"]
	}`), &rec))
	assert.Equal(t, DiseaseList{"Breast Cancer", "Ovarian Cancer"}, rec.Diseases)
}

func TestAddSample(t *testing.T) {
	g := kg.New("test")
	p := NewProcessor(g)

	variantID, _, err := p.AddMutation(brca1Mutation())
	require.NoError(t, err)

	report, err := p.AddSample(SampleRecord{
		SampleID:   "TCGA-A1-A0SB",
		PatientID:  "patient_001",
		CancerType: "Breast Cancer",
		VariantIDs: []string{variantID, "var_missing_1_A_G"},
	})
	require.NoError(t, err)

	assert.True(t, g.HasEntity("TCGA-A1-A0SB"))
	assert.True(t, g.HasEntity("patient_001"))
	assert.Equal(t, []string{"patient_001"}, g.Neighbors("TCGA-A1-A0SB", kg.RelDerivedFrom))
	assert.Equal(t, []string{variantID}, g.Neighbors("TCGA-A1-A0SB", kg.RelContains))

	// The unknown variant is skipped, not an error
	assert.Equal(t, []string{"var_missing_1_A_G"}, report.Skipped)
	assert.Equal(t, 2, report.RelationshipsAdded)
}

func TestAddSample_ExistingPatientKeepsProperties(t *testing.T) {
	g := kg.New("test")
	p := NewProcessor(g)

	_, err := g.AddEntity("patient_001", kg.EntityPatient, kg.Properties{
		"age": kg.Number(54),
	})
	require.NoError(t, err)

	_, err = p.AddSample(SampleRecord{
		SampleID:   "TCGA-A1-A0SB",
		PatientID:  "patient_001",
		CancerType: "Breast Cancer",
	})
	require.NoError(t, err)

	patient, _ := g.Entity("patient_001")
	age, ok := patient.Properties["age"].AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 54.0, age)
}

func TestApplyExtraction(t *testing.T) {
	g := kg.New("test")
	p := NewProcessor(g)

	report, err := p.ApplyExtraction(Extraction{
		Entities: []ExtractedEntity{
			{Type: "gene", Name: "TP53", ID: "gene_TP53"},
			{Type: "disease", Name: "Li-Fraumeni Syndrome"},
		},
		Relationships: []ExtractedRelationship{
			{Source: "gene_TP53", Target: "disease_li-fraumeni_syndrome", Type: "mutated_in"},
			// Endpoint never extracted: skipped silently
			{Source: "gene_TP53", Target: "pathway_apoptosis", Type: "participates_in"},
		},
	})
	require.NoError(t, err)

	assert.True(t, g.HasEntity("gene_TP53"))
	assert.True(t, g.HasEntity("disease_li-fraumeni_syndrome"))
	assert.Equal(t, 1, g.RelationshipCount())
	assert.Equal(t, 1, report.RelationshipsAdded)
	assert.Equal(t, []string{"gene_TP53->pathway_apoptosis"}, report.Skipped)
}

func TestApplyExtraction_UnknownTypesWarnButSucceed(t *testing.T) {
	g := kg.New("test")
	p := NewProcessor(g)

	report, err := p.ApplyExtraction(Extraction{
		Entities: []ExtractedEntity{
			{Type: "cell_line", Name: "HeLa"},
		},
	})
	require.NoError(t, err)
	assert.True(t, g.HasEntity("cell_line_hela"))
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, kg.WarnUnknownEntityType, report.Warnings[0].Code)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "breast_cancer", NormalizeName("Breast Cancer"))
	assert.Equal(t, "ovarian_cancer", NormalizeName("  Ovarian Cancer "))
}
