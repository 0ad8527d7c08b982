package annotation

import (
	"bytes"
	"fmt"
	"strings"

	"varhive/api/models/annotation"
	"varhive/api/models/schema"

	"github.com/Jeffail/gabs"
)

const (
	rsidDelimiter    = ","
	filterDelimiter  = ","
	clinvarDelimiter = ";"
)

// IncompleteVariantError signals one variant missing required identity
// fields. It is recoverable: the record is skipped and counted.
type IncompleteVariantError struct {
	MissingField string
	Vid          string
}

func (e *IncompleteVariantError) Error() string {
	if e.Vid != "" {
		return fmt.Sprintf("incomplete variant '%s': missing required field '%s'", e.Vid, e.MissingField)
	}
	return fmt.Sprintf("incomplete variant: missing required field '%s'", e.MissingField)
}

/*
	FlattenVariant maps one position + variant pair onto the flat schema.
	Pure function of its inputs: every schema field is assigned, with nil
	as the explicit "not present" marker, so repeated runs over the same
	input produce byte-identical documents.
*/
func FlattenVariant(position *annotation.Position, variant *annotation.Variant) (*schema.VariantDocument, error) {
	if missing := missingIdentityField(position, variant); missing != "" {
		return nil, &IncompleteVariantError{MissingField: missing, Vid: variant.Vid}
	}

	doc := &schema.VariantDocument{
		Chromosome: position.Chromosome,
		Position:   position.Position,
		Ref:        position.RefAllele,
		Alt:        variant.AltAllele,

		Vid:   variant.Vid,
		Hgvsg: variant.Hgvsg,

		VariantType: variant.VariantType,
		Begin:       variant.Begin,
		End:         variant.End,

		MappingQuality:   position.MappingQuality,
		FisherStrandBias: variant.FisherStrandBias,
		Quality:          variant.Quality,
		CytogeneticBand:  position.CytogeneticBand,

		PhylopScore:        variant.PhylopScore,
		PhylopPrimateScore: variant.PhylopPrimateScore,
		GerpScore:          variant.GerpScore,
		DannScore:          variant.DannScore,

		VcfInfo: position.VcfInfo,
	}

	if len(position.Filters) > 0 {
		joined := strings.Join(position.Filters, filterDelimiter)
		doc.Filters = &joined
	}

	// join all dbSNP ids; single-id extraction is a superseded behavior
	if variant.Dbsnp != nil && len(variant.Dbsnp.Ids) > 0 {
		joined := strings.Join(variant.Dbsnp.Ids, rsidDelimiter)
		doc.Rsid = &joined
	}

	if gnomad := variant.Gnomad; gnomad != nil {
		doc.GnomadAf = gnomad.AllAf
		doc.GnomadAc = gnomad.AllAc
		doc.GnomadAn = gnomad.AllAn
		doc.GnomadHc = gnomad.AllHc
		doc.GnomadAfrAf = gnomad.AfrAf
		doc.GnomadAmrAf = gnomad.AmrAf
		doc.GnomadEasAf = gnomad.EasAf
		doc.GnomadFinAf = gnomad.FinAf
		doc.GnomadNfeAf = gnomad.NfeAf
		doc.GnomadAsjAf = gnomad.AsjAf
		doc.GnomadSasAf = gnomad.SasAf
		doc.GnomadOthAf = gnomad.OthAf
		doc.GnomadFailedFilter = gnomad.FailedFilter
	}

	if exome := variant.GnomadExome; exome != nil {
		doc.GnomadExomeAf = exome.AllAf
		doc.GnomadExomeAc = exome.AllAc
		doc.GnomadExomeAn = exome.AllAn
		doc.GnomadExomeHc = exome.AllHc
		doc.GnomadExomeFailedFilter = exome.FailedFilter
	}

	if topmed := variant.Topmed; topmed != nil {
		doc.TopmedAf = topmed.AllAf
		doc.TopmedAc = topmed.AllAc
		doc.TopmedAn = topmed.AllAn
		doc.TopmedHc = topmed.AllHc
		doc.TopmedFailedFilter = topmed.FailedFilter
	}

	doc.ClinvarVariantType, doc.ClinvarSignificance, doc.ClinvarId = extractClinvar(variant.Clinvar)

	doc.Transcripts = flattenTranscripts(variant.Transcripts)
	doc.NTranscripts = len(doc.Transcripts)

	doc.Samples = flattenSamples(position.Samples)

	return doc, nil
}

func missingIdentityField(position *annotation.Position, variant *annotation.Variant) string {
	switch {
	case variant.Vid == "":
		return "vid"
	case position.Chromosome == "":
		return "chromosome"
	case position.Position == 0:
		return "position"
	case position.RefAllele == "":
		return "refAllele"
	case variant.AltAllele == "":
		return "altAllele"
	}
	return ""
}

/*
	extractClinvar normalizes the shape-shifting clinical-annotation block
	(a single object or a list of objects) into a uniform list, keeps only
	the entries explicitly flagged allele-specific, and joins each derived
	field across qualifying entries in source order.
*/
func extractClinvar(raw []byte) (variantType *string, significance *string, accession *string) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return nil, nil, nil
	}

	// normalize to a list (possibly singleton) before filtering
	var entries []*gabs.Container
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		entries, _ = parsed.Children()
	} else {
		entries = []*gabs.Container{parsed}
	}

	var (
		variantTypes    []string
		classifications []string
		accessions      []string
	)
	for _, entry := range entries {
		alleleSpecific, ok := entry.Path("isAlleleSpecific").Data().(bool)
		if !ok || !alleleSpecific {
			continue
		}

		if vt, vtOk := entry.Path("variantType").Data().(string); vtOk {
			variantTypes = append(variantTypes, vt)
		}

		if classification, cOk := entry.Path("classifications.germlineClassification.classification").Data().(string); cOk {
			classifications = append(classifications, classification)
		}

		if acc, accOk := entry.Path("accession").Data().(string); accOk {
			switch version := entry.Path("version").Data().(type) {
			case float64:
				accessions = append(accessions, fmt.Sprintf("%s.%d", acc, int(version)))
			case string:
				accessions = append(accessions, fmt.Sprintf("%s.%s", acc, version))
			default:
				accessions = append(accessions, acc)
			}
		}
	}

	return joinOrNil(variantTypes), joinOrNil(classifications), joinOrNil(accessions)
}

// joinOrNil keeps "no qualifying entry" distinguishable from an empty string.
func joinOrNil(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	joined := strings.Join(values, clinvarDelimiter)
	return &joined
}

func flattenTranscripts(transcripts []annotation.Transcript) []schema.TranscriptRecord {
	records := make([]schema.TranscriptRecord, 0, len(transcripts))
	for _, t := range transcripts {
		consequences := t.Consequence
		if consequences == nil {
			consequences = []string{}
		}

		isCanonical := t.IsCanonical != nil && *t.IsCanonical

		records = append(records, schema.TranscriptRecord{
			TranscriptId: t.Transcript,
			Source:       t.Source,
			BioType:      t.BioType,
			GeneId:       t.GeneId,
			Hgnc:         t.Hgnc,
			Consequences: consequences,
			Impact:       t.Impact,
			IsCanonical:  isCanonical,
		})
	}
	return records
}

func flattenSamples(samples []annotation.Sample) []schema.SampleRecord {
	if samples == nil {
		return nil
	}

	records := make([]schema.SampleRecord, 0, len(samples))
	for _, s := range samples {
		records = append(records, schema.SampleRecord{
			Genotype:           s.Genotype,
			VariantFrequencies: s.VariantFrequencies,
			TotalDepth:         s.TotalDepth,
			GenotypeQuality:    s.GenotypeQuality,
			AlleleDepths:       s.AlleleDepths,
		})
	}
	return records
}
