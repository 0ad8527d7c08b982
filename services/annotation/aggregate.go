package annotation

import (
	"sort"

	"varhive/api/models/schema"

	"github.com/ahmetb/go-linq"
)

/*
	Annotate enriches one freshly extracted document with its derived
	fields. Deterministic and side-effect free: absent inputs are ignored
	rather than treated as zero, and set-valued rollups are sorted so the
	same input always yields the same document.
*/
func Annotate(doc *schema.VariantDocument) {
	doc.MaxGnomadAf = maxDefined(doc.GnomadAf, doc.GnomadExomeAf)

	doc.MaxPopAf = maxDefined(
		doc.GnomadAfrAf, doc.GnomadAmrAf, doc.GnomadEasAf, doc.GnomadFinAf,
		doc.GnomadNfeAf, doc.GnomadAsjAf, doc.GnomadSasAf, doc.GnomadOthAf)

	doc.CanonicalTranscript = firstCanonicalTranscript(doc.Transcripts)
	doc.AllConsequences = allConsequences(doc.Transcripts)
	doc.Genes = geneSymbols(doc.Transcripts)
}

// maxDefined ignores not-present values; nil when every input is absent.
func maxDefined(values ...*float64) *float64 {
	max, ok := linq.From(values).
		WhereT(func(v *float64) bool { return v != nil }).
		SelectT(func(v *float64) float64 { return *v }).
		Max().(float64)
	if !ok {
		return nil
	}
	return &max
}

// firstCanonicalTranscript picks the first transcript (input order) flagged
// canonical by the upstream engine.
func firstCanonicalTranscript(transcripts []schema.TranscriptRecord) *schema.TranscriptRecord {
	canonical, ok := linq.From(transcripts).
		FirstWithT(func(t schema.TranscriptRecord) bool { return t.IsCanonical }).(schema.TranscriptRecord)
	if !ok {
		return nil
	}
	return &canonical
}

// allConsequences is the duplicate-free union of every transcript's
// consequence terms.
func allConsequences(transcripts []schema.TranscriptRecord) []string {
	consequences := []string{}
	linq.From(transcripts).
		SelectManyT(func(t schema.TranscriptRecord) linq.Query { return linq.From(t.Consequences) }).
		Distinct().
		ToSlice(&consequences)

	sort.Strings(consequences)
	return consequences
}

// geneSymbols is the duplicate-free union of gene symbols, with
// not-present symbols excluded.
func geneSymbols(transcripts []schema.TranscriptRecord) []string {
	genes := []string{}
	linq.From(transcripts).
		WhereT(func(t schema.TranscriptRecord) bool { return t.Hgnc != nil && *t.Hgnc != "" }).
		SelectT(func(t schema.TranscriptRecord) string { return *t.Hgnc }).
		Distinct().
		ToSlice(&genes)

	sort.Strings(genes)
	return genes
}
