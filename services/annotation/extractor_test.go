package annotation

import (
	"encoding/json"
	"testing"

	"varhive/api/models/annotation"

	"github.com/stretchr/testify/assert"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }
func stringPtr(v string) *string    { return &v }
func boolPtr(v bool) *bool          { return &v }

func makeTestPosition() *annotation.Position {
	return &annotation.Position{
		Chromosome:      "17",
		Position:        43071077,
		RefAllele:       "T",
		Filters:         []string{"PASS"},
		MappingQuality:  float64Ptr(60),
		CytogeneticBand: stringPtr("17q21.31"),
		VcfInfo:         map[string]interface{}{"DP": json.Number("250")},
	}
}

func makeTestVariant() annotation.Variant {
	return annotation.Variant{
		Vid:         "17-43071077-T-C",
		Begin:       43071077,
		End:         43071077,
		AltAllele:   "C",
		VariantType: stringPtr("SNV"),
		Hgvsg:       stringPtr("NC_000017.11:g.43071077T>C"),
		Quality:     float64Ptr(812.3),
		Dbsnp:       &annotation.Dbsnp{Ids: []string{"rs80357462"}},
		Gnomad: &annotation.CohortFrequency{
			AllAf: float64Ptr(0.000012),
			AllAc: intPtr(3),
			AllAn: intPtr(250000),
			AfrAf: float64Ptr(0.0001),
			NfeAf: float64Ptr(0.000004),
		},
		Transcripts: []annotation.Transcript{
			{
				Transcript:  "ENST00000357654.9",
				Source:      "Ensembl",
				Hgnc:        stringPtr("BRCA1"),
				Consequence: []string{"missense_variant"},
				IsCanonical: boolPtr(true),
			},
		},
	}
}

func TestFlattenVariantMapsIdentityAndKey(t *testing.T) {
	position := makeTestPosition()
	variant := makeTestVariant()

	doc, err := FlattenVariant(position, &variant)
	assert.Nil(t, err)

	assert.Equal(t, "17", doc.Chromosome)
	assert.Equal(t, 43071077, doc.Position)
	assert.Equal(t, "T", doc.Ref)
	assert.Equal(t, "C", doc.Alt)
	assert.Equal(t, "17-43071077-T-C", doc.Vid)

	// the locus key round-trips through the flattened record
	assert.Equal(t, "17-43071077-T-C", doc.LocusKey())
}

func TestFlattenVariantJoinsMultiValuedFields(t *testing.T) {
	position := makeTestPosition()
	position.Filters = []string{"PASS", "LowGQ"}

	variant := makeTestVariant()
	variant.Dbsnp = &annotation.Dbsnp{Ids: []string{"rs1", "rs2", "rs3"}}

	doc, err := FlattenVariant(position, &variant)
	assert.Nil(t, err)

	assert.Equal(t, "PASS,LowGQ", *doc.Filters)
	assert.Equal(t, "rs1,rs2,rs3", *doc.Rsid)
}

func TestFlattenVariantAbsentStaysNil(t *testing.T) {
	position := makeTestPosition()
	position.Filters = nil
	position.MappingQuality = nil
	position.CytogeneticBand = nil

	variant := makeTestVariant()
	variant.Dbsnp = nil
	variant.Gnomad = nil
	variant.Quality = nil

	doc, err := FlattenVariant(position, &variant)
	assert.Nil(t, err)

	// absent means nil, never a zero stand-in
	assert.Nil(t, doc.Filters)
	assert.Nil(t, doc.Rsid)
	assert.Nil(t, doc.GnomadAf)
	assert.Nil(t, doc.Quality)
	assert.Nil(t, doc.MappingQuality)
	assert.Nil(t, doc.ClinvarSignificance)
}

func TestFlattenVariantIdempotent(t *testing.T) {
	position := makeTestPosition()
	variant := makeTestVariant()

	first, firstErr := FlattenVariant(position, &variant)
	second, secondErr := FlattenVariant(position, &variant)
	assert.Nil(t, firstErr)
	assert.Nil(t, secondErr)

	firstBytes, _ := json.Marshal(first)
	secondBytes, _ := json.Marshal(second)
	assert.Equal(t, firstBytes, secondBytes)
}

func TestFlattenVariantIncompleteIdentity(t *testing.T) {
	position := makeTestPosition()
	variant := makeTestVariant()
	variant.Vid = ""

	_, err := FlattenVariant(position, &variant)
	assert.NotNil(t, err)

	incompleteErr, ok := err.(*IncompleteVariantError)
	assert.True(t, ok)
	assert.Equal(t, "vid", incompleteErr.MissingField)

	// a zero position is indistinguishable from an unset one
	position = makeTestPosition()
	position.Position = 0
	variant = makeTestVariant()

	_, err = FlattenVariant(position, &variant)
	incompleteErr, ok = err.(*IncompleteVariantError)
	assert.True(t, ok)
	assert.Equal(t, "position", incompleteErr.MissingField)
}

func TestExtractClinvarSingleObject(t *testing.T) {
	variant := makeTestVariant()
	variant.Clinvar = json.RawMessage(`{
		"isAlleleSpecific": true,
		"variantType": "single nucleotide variant",
		"accession": "RCV000077599", "version": 11,
		"classifications": {"germlineClassification": {"classification": "Pathogenic"}}
	}`)

	doc, err := FlattenVariant(makeTestPosition(), &variant)
	assert.Nil(t, err)

	assert.Equal(t, "single nucleotide variant", *doc.ClinvarVariantType)
	assert.Equal(t, "Pathogenic", *doc.ClinvarSignificance)
	assert.Equal(t, "RCV000077599.11", *doc.ClinvarId)
}

func TestExtractClinvarListFiltersAndJoins(t *testing.T) {
	variant := makeTestVariant()
	variant.Clinvar = json.RawMessage(`[
		{
			"isAlleleSpecific": true,
			"variantType": "single nucleotide variant",
			"accession": "RCV000077599", "version": 11,
			"classifications": {"germlineClassification": {"classification": "Pathogenic"}}
		},
		{
			"isAlleleSpecific": false,
			"variantType": "deletion",
			"accession": "RCV000123456", "version": 2,
			"classifications": {"germlineClassification": {"classification": "Benign"}}
		},
		{
			"isAlleleSpecific": true,
			"accession": "VCV000055601", "version": "3",
			"classifications": {"germlineClassification": {"classification": "Likely pathogenic"}}
		}
	]`)

	doc, err := FlattenVariant(makeTestPosition(), &variant)
	assert.Nil(t, err)

	// the non-allele-specific entry is dropped; the rest join in source order
	assert.Equal(t, "single nucleotide variant", *doc.ClinvarVariantType)
	assert.Equal(t, "Pathogenic;Likely pathogenic", *doc.ClinvarSignificance)
	assert.Equal(t, "RCV000077599.11;VCV000055601.3", *doc.ClinvarId)
}

func TestExtractClinvarNoQualifyingEntries(t *testing.T) {
	variant := makeTestVariant()
	variant.Clinvar = json.RawMessage(`[{"isAlleleSpecific": false, "accession": "RCV1", "version": 1}]`)

	doc, err := FlattenVariant(makeTestPosition(), &variant)
	assert.Nil(t, err)

	// filtered-to-empty stays nil, distinguishable from an empty string
	assert.Nil(t, doc.ClinvarVariantType)
	assert.Nil(t, doc.ClinvarSignificance)
	assert.Nil(t, doc.ClinvarId)
}

func TestFlattenTranscriptDefaults(t *testing.T) {
	variant := makeTestVariant()
	variant.Transcripts = []annotation.Transcript{
		{Transcript: "NM_000059.4", Source: "RefSeq"},
	}

	doc, err := FlattenVariant(makeTestPosition(), &variant)
	assert.Nil(t, err)

	assert.Equal(t, 1, doc.NTranscripts)
	assert.False(t, doc.Transcripts[0].IsCanonical)
	assert.Equal(t, []string{}, doc.Transcripts[0].Consequences)
}
