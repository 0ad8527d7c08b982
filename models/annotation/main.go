package annotation

import "encoding/json"

/*
	Data types mirroring one annotated document produced by the
	upstream annotation engine:
		{ "header": {...}, "positions": [ {...} ], "genes": [ {...} ] }
	Optional attributes are pointers (or nilable slices) so that
	"absent in the source" stays distinguishable from a zero value.
*/

type Header struct {
	Annotator      string       `json:"annotator"`
	CreationTime   string       `json:"creationTime"`
	GenomeAssembly string       `json:"genomeAssembly"`
	SchemaVersion  int          `json:"schemaVersion"`
	DataSources    []DataSource `json:"dataSources"`
}

type DataSource struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	ReleaseDate string `json:"releaseDate"`
}

type Gene struct {
	Name     string `json:"name"`
	GeneId   string `json:"geneId,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Synonyms string `json:"synonyms,omitempty"`
}

type Position struct {
	Chromosome      string                 `json:"chromosome"`
	Position        int                    `json:"position"`
	RefAllele       string                 `json:"refAllele"`
	AltAlleles      []string               `json:"altAlleles"`
	Filters         []string               `json:"filters"`
	MappingQuality  *float64               `json:"mappingQuality"`
	CytogeneticBand *string                `json:"cytogeneticBand"`
	VcfInfo         map[string]interface{} `json:"vcfInfo"`
	Samples         []Sample               `json:"samples"`
	Variants        []Variant              `json:"variants"`
}

type Sample struct {
	Genotype           *string   `json:"genotype"`
	VariantFrequencies []float64 `json:"variantFrequencies"`
	TotalDepth         *int      `json:"totalDepth"`
	GenotypeQuality    *int      `json:"genotypeQuality"`
	AlleleDepths       []int     `json:"alleleDepths"`
}

type Variant struct {
	Vid         string  `json:"vid"`
	Chromosome  string  `json:"chromosome"`
	Begin       int     `json:"begin"`
	End         int     `json:"end"`
	RefAllele   string  `json:"refAllele"`
	AltAllele   string  `json:"altAllele"`
	VariantType *string `json:"variantType"`
	Hgvsg       *string `json:"hgvsg"`

	Quality          *float64 `json:"quality"`
	FisherStrandBias *float64 `json:"fisherStrandBias"`

	// conservation scores
	PhylopScore        *float64 `json:"phylopScore"`
	PhylopPrimateScore *float64 `json:"phyloPPrimateScore"`
	GerpScore          *float64 `json:"gerpScore"`
	DannScore          *float64 `json:"dannScore"`

	Dbsnp *Dbsnp `json:"dbsnp"`

	// population frequency sources
	Gnomad      *CohortFrequency `json:"gnomad"`
	GnomadExome *CohortFrequency `json:"gnomad-exome"`
	Topmed      *CohortFrequency `json:"topmed"`

	// the clinical-annotation block is shape-shifting (a single object
	// or a list of objects) and is normalized downstream with gabs
	Clinvar json.RawMessage `json:"clinvar-preview"`

	Transcripts []Transcript `json:"transcripts"`
}

type Dbsnp struct {
	Ids []string `json:"ids"`
}

type CohortFrequency struct {
	AllAf *float64 `json:"allAf"`
	AllAc *int     `json:"allAc"`
	AllAn *int     `json:"allAn"`
	AllHc *int     `json:"allHc"`

	AfrAf *float64 `json:"afrAf"`
	AmrAf *float64 `json:"amrAf"`
	EasAf *float64 `json:"easAf"`
	FinAf *float64 `json:"finAf"`
	NfeAf *float64 `json:"nfeAf"`
	AsjAf *float64 `json:"asjAf"`
	SasAf *float64 `json:"sasAf"`
	OthAf *float64 `json:"othAf"`

	FailedFilter *bool `json:"failedFilter"`
}

type Transcript struct {
	Transcript  string   `json:"transcript"`
	Source      string   `json:"source"`
	BioType     *string  `json:"bioType"`
	GeneId      *string  `json:"geneId"`
	Hgnc        *string  `json:"hgnc"`
	Consequence []string `json:"consequence"`
	Impact      *string  `json:"impact"`
	IsCanonical *bool    `json:"isCanonical"`
}
