package annotation

import (
	"testing"

	"varhive/api/models/schema"

	"github.com/stretchr/testify/assert"
)

func TestAnnotateAllAbsentStaysAbsent(t *testing.T) {
	doc := &schema.VariantDocument{}

	Annotate(doc)

	// nil in, nil out; absence never becomes a numeric zero
	assert.Nil(t, doc.MaxGnomadAf)
	assert.Nil(t, doc.MaxPopAf)
	assert.Nil(t, doc.CanonicalTranscript)
	assert.Equal(t, []string{}, doc.AllConsequences)
	assert.Equal(t, []string{}, doc.Genes)
}

func TestAnnotateMaxGnomadAf(t *testing.T) {
	doc := &schema.VariantDocument{
		GnomadAf:      float64Ptr(0.001),
		GnomadExomeAf: float64Ptr(0.005),
	}
	Annotate(doc)
	assert.Equal(t, 0.005, *doc.MaxGnomadAf)

	// a single defined source carries the maximum alone
	doc = &schema.VariantDocument{GnomadExomeAf: float64Ptr(0.02)}
	Annotate(doc)
	assert.Equal(t, 0.02, *doc.MaxGnomadAf)
}

func TestAnnotateMaxPopAf(t *testing.T) {
	doc := &schema.VariantDocument{
		GnomadAfrAf: float64Ptr(0.01),
		GnomadEasAf: float64Ptr(0.2),
		GnomadNfeAf: float64Ptr(0.003),
	}
	Annotate(doc)
	assert.Equal(t, 0.2, *doc.MaxPopAf)
}

func TestAnnotateTranscriptRollups(t *testing.T) {
	doc := &schema.VariantDocument{
		Transcripts: []schema.TranscriptRecord{
			{
				TranscriptId: "ENST1",
				Hgnc:         stringPtr("TP53"),
				Consequences: []string{"missense_variant", "splice_region_variant"},
			},
			{
				TranscriptId: "ENST2",
				Hgnc:         stringPtr("TP53"),
				Consequences: []string{"missense_variant"},
				IsCanonical:  true,
			},
			{
				TranscriptId: "ENST3",
				Hgnc:         stringPtr("WRAP53"),
				Consequences: []string{"downstream_gene_variant"},
				IsCanonical:  true,
			},
		},
	}

	Annotate(doc)

	// first canonical in input order wins
	assert.NotNil(t, doc.CanonicalTranscript)
	assert.Equal(t, "ENST2", doc.CanonicalTranscript.TranscriptId)

	// deduplicated and sorted
	assert.Equal(t, []string{"downstream_gene_variant", "missense_variant", "splice_region_variant"}, doc.AllConsequences)
	assert.Equal(t, []string{"TP53", "WRAP53"}, doc.Genes)
}

func TestAnnotateSkipsEmptyGeneSymbols(t *testing.T) {
	doc := &schema.VariantDocument{
		Transcripts: []schema.TranscriptRecord{
			{TranscriptId: "ENST1", Hgnc: stringPtr("")},
			{TranscriptId: "ENST2", Hgnc: nil},
			{TranscriptId: "ENST3", Hgnc: stringPtr("BRCA2")},
		},
	}

	Annotate(doc)
	assert.Equal(t, []string{"BRCA2"}, doc.Genes)
}

func TestAnnotateDeterministic(t *testing.T) {
	build := func() *schema.VariantDocument {
		return &schema.VariantDocument{
			GnomadAf: float64Ptr(0.001),
			Transcripts: []schema.TranscriptRecord{
				{Hgnc: stringPtr("B"), Consequences: []string{"z_term", "a_term"}},
				{Hgnc: stringPtr("A"), Consequences: []string{"a_term"}},
			},
		}
	}

	first := build()
	second := build()
	Annotate(first)
	Annotate(second)

	assert.Equal(t, first.AllConsequences, second.AllConsequences)
	assert.Equal(t, first.Genes, second.Genes)
	assert.Equal(t, []string{"a_term", "z_term"}, first.AllConsequences)
}
