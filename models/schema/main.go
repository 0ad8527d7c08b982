package schema

import "fmt"

/*
	The flat, query-ready record model: one document per Position x Variant
	pair. Every field of the fixed schema is always serialized; optional
	fields are pointers and marshal as an explicit null when absent.
*/

type VariantDocument struct {
	// locus key
	Chromosome string `json:"chromosome"`
	Position   int    `json:"position"`
	Ref        string `json:"ref"`
	Alt        string `json:"alt"`

	// identifiers
	Vid   string  `json:"vid"`
	Rsid  *string `json:"rsid"`
	Hgvsg *string `json:"hgvsg"`

	VariantType *string `json:"variant_type"`
	Begin       int     `json:"begin"`
	End         int     `json:"end"`

	// quality metrics
	Filters          *string  `json:"filters"`
	MappingQuality   *float64 `json:"mapping_quality"`
	FisherStrandBias *float64 `json:"fisher_strand_bias"`
	Quality          *float64 `json:"quality"`
	CytogeneticBand  *string  `json:"cytogenetic_band"`

	// conservation scores
	PhylopScore        *float64 `json:"phylop_score"`
	PhylopPrimateScore *float64 `json:"phylop_primate_score"`
	GerpScore          *float64 `json:"gerp_score"`
	DannScore          *float64 `json:"dann_score"`

	// gnomAD genome frequencies
	GnomadAf           *float64 `json:"gnomad_af"`
	GnomadAc           *int     `json:"gnomad_ac"`
	GnomadAn           *int     `json:"gnomad_an"`
	GnomadHc           *int     `json:"gnomad_hc"`
	GnomadAfrAf        *float64 `json:"gnomad_afr_af"`
	GnomadAmrAf        *float64 `json:"gnomad_amr_af"`
	GnomadEasAf        *float64 `json:"gnomad_eas_af"`
	GnomadFinAf        *float64 `json:"gnomad_fin_af"`
	GnomadNfeAf        *float64 `json:"gnomad_nfe_af"`
	GnomadAsjAf        *float64 `json:"gnomad_asj_af"`
	GnomadSasAf        *float64 `json:"gnomad_sas_af"`
	GnomadOthAf        *float64 `json:"gnomad_oth_af"`
	GnomadFailedFilter *bool    `json:"gnomad_failed_filter"`

	// gnomAD exome frequencies
	GnomadExomeAf           *float64 `json:"gnomad_exome_af"`
	GnomadExomeAc           *int     `json:"gnomad_exome_ac"`
	GnomadExomeAn           *int     `json:"gnomad_exome_an"`
	GnomadExomeHc           *int     `json:"gnomad_exome_hc"`
	GnomadExomeFailedFilter *bool    `json:"gnomad_exome_failed_filter"`

	// TOPMed
	TopmedAf           *float64 `json:"topmed_af"`
	TopmedAc           *int     `json:"topmed_ac"`
	TopmedAn           *int     `json:"topmed_an"`
	TopmedHc           *int     `json:"topmed_hc"`
	TopmedFailedFilter *bool    `json:"topmed_failed_filter"`

	// ClinVar
	ClinvarVariantType  *string `json:"clinvar_variant_type"`
	ClinvarSignificance *string `json:"clinvar_significance"`
	ClinvarId           *string `json:"clinvar_id"`

	NTranscripts int                `json:"n_transcripts"`
	Transcripts  []TranscriptRecord `json:"transcripts"`

	Samples []SampleRecord `json:"samples"`

	// raw INFO column values carried through for inspection; values may
	// still hold json.Number until the batch writer coerces them
	VcfInfo map[string]interface{} `json:"vcf_info"`

	// derived by the aggregator after extraction
	MaxGnomadAf         *float64          `json:"max_gnomad_af"`
	MaxPopAf            *float64          `json:"max_pop_af"`
	CanonicalTranscript *TranscriptRecord `json:"canonical_transcript"`
	AllConsequences     []string          `json:"all_consequences"`
	Genes               []string          `json:"genes"`
}

type TranscriptRecord struct {
	TranscriptId string   `json:"transcript_id"`
	Source       string   `json:"source"`
	BioType      *string  `json:"bio_type"`
	GeneId       *string  `json:"gene_id"`
	Hgnc         *string  `json:"hgnc"`
	Consequences []string `json:"consequences"`
	Impact       *string  `json:"impact"`
	IsCanonical  bool     `json:"is_canonical"`
}

type SampleRecord struct {
	Genotype           *string   `json:"genotype"`
	VariantFrequencies []float64 `json:"variant_frequencies"`
	TotalDepth         *int      `json:"total_depth"`
	GenotypeQuality    *int      `json:"genotype_quality"`
	AlleleDepths       []int     `json:"allele_depths"`
}

// LocusKey uniquely identifies one variant document across the whole table.
func (d *VariantDocument) LocusKey() string {
	return fmt.Sprintf("%s-%d-%s-%s", d.Chromosome, d.Position, d.Ref, d.Alt)
}

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_INT = map[string]interface{}{"type": "integer"}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_FLOAT64 = map[string]interface{}{"type": "double"}
var MAPPING_BOOL = map[string]interface{}{"type": "boolean"}

var transcriptMapping = map[string]interface{}{
	"properties": map[string]interface{}{
		"transcript_id": MAPPING_TEXT,
		"source":        MAPPING_TEXT,
		"bio_type":      MAPPING_TEXT,
		"gene_id":       MAPPING_TEXT,
		"hgnc":          MAPPING_TEXT,
		"consequences":  MAPPING_TEXT,
		"impact":        MAPPING_TEXT,
		"is_canonical":  MAPPING_BOOL,
	},
}

// The keyword subfields are what the statistics aggregations
// ('variant_type.keyword', 'genes.keyword', etc.) depend on.
var VARIANT_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"chromosome": MAPPING_TEXT,
		"position":   MAPPING_LONG,
		"ref":        MAPPING_TEXT,
		"alt":        MAPPING_TEXT,

		"vid":   MAPPING_TEXT,
		"rsid":  MAPPING_TEXT,
		"hgvsg": MAPPING_TEXT,

		"variant_type": MAPPING_TEXT,
		"begin":        MAPPING_LONG,
		"end":          MAPPING_LONG,

		"filters":            MAPPING_TEXT,
		"mapping_quality":    MAPPING_FLOAT64,
		"fisher_strand_bias": MAPPING_FLOAT64,
		"quality":            MAPPING_FLOAT64,
		"cytogenetic_band":   MAPPING_TEXT,

		"phylop_score":         MAPPING_FLOAT64,
		"phylop_primate_score": MAPPING_FLOAT64,
		"gerp_score":           MAPPING_FLOAT64,
		"dann_score":           MAPPING_FLOAT64,

		"gnomad_af":            MAPPING_FLOAT64,
		"gnomad_ac":            MAPPING_INT,
		"gnomad_an":            MAPPING_INT,
		"gnomad_hc":            MAPPING_INT,
		"gnomad_afr_af":        MAPPING_FLOAT64,
		"gnomad_amr_af":        MAPPING_FLOAT64,
		"gnomad_eas_af":        MAPPING_FLOAT64,
		"gnomad_fin_af":        MAPPING_FLOAT64,
		"gnomad_nfe_af":        MAPPING_FLOAT64,
		"gnomad_asj_af":        MAPPING_FLOAT64,
		"gnomad_sas_af":        MAPPING_FLOAT64,
		"gnomad_oth_af":        MAPPING_FLOAT64,
		"gnomad_failed_filter": MAPPING_BOOL,

		"gnomad_exome_af":            MAPPING_FLOAT64,
		"gnomad_exome_ac":            MAPPING_INT,
		"gnomad_exome_an":            MAPPING_INT,
		"gnomad_exome_hc":            MAPPING_INT,
		"gnomad_exome_failed_filter": MAPPING_BOOL,

		"topmed_af":            MAPPING_FLOAT64,
		"topmed_ac":            MAPPING_INT,
		"topmed_an":            MAPPING_INT,
		"topmed_hc":            MAPPING_INT,
		"topmed_failed_filter": MAPPING_BOOL,

		"clinvar_variant_type": MAPPING_TEXT,
		"clinvar_significance": MAPPING_TEXT,
		"clinvar_id":           MAPPING_TEXT,

		"n_transcripts": MAPPING_INT,
		"transcripts":   transcriptMapping,

		"samples": map[string]interface{}{
			"properties": map[string]interface{}{
				"genotype":            MAPPING_TEXT,
				"variant_frequencies": MAPPING_FLOAT64,
				"total_depth":         MAPPING_INT,
				"genotype_quality":    MAPPING_INT,
				"allele_depths":       MAPPING_INT,
			},
		},

		"max_gnomad_af":        MAPPING_FLOAT64,
		"max_pop_af":           MAPPING_FLOAT64,
		"canonical_transcript": transcriptMapping,
		"all_consequences":     MAPPING_TEXT,
		"genes":                MAPPING_TEXT,
	},
}
