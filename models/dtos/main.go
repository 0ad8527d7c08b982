package dtos

import (
	"time"

	"varhive/api/models/schema"
)

type VariantGetResponse struct {
	Variant *schema.VariantDocument `json:"variant"`
	Summary VariantSummary          `json:"summary"`

	PopulationFrequencies PopulationFrequencies `json:"population_frequencies"`
	QualityMetrics        QualityMetrics        `json:"quality_metrics"`
	ConservationScores    ConservationScores    `json:"conservation_scores"`
}

type VariantSummary struct {
	Id                   string   `json:"id"`
	Position             string   `json:"position"`
	Ref                  string   `json:"ref"`
	Alt                  string   `json:"alt"`
	Type                 *string  `json:"type"`
	Quality              *float64 `json:"quality"`
	Filter               []string `json:"filter"`
	Rsid                 *string  `json:"rsid"`
	GnomadAf             *float64 `json:"gnomad_af"`
	MaxPopAf             *float64 `json:"max_pop_af"`
	ClinvarSignificance  string   `json:"clinvar_significance"`
	ClinvarVariantType   *string  `json:"clinvar_variant_type"`
	ClinvarId            *string  `json:"clinvar_id"`
	Genes                []string `json:"gene"`
}

type PopulationFrequencies struct {
	GnomadTotal *float64 `json:"gnomad_total"`
	GnomadAfr   *float64 `json:"gnomad_afr"`
	GnomadAmr   *float64 `json:"gnomad_amr"`
	GnomadEas   *float64 `json:"gnomad_eas"`
	GnomadFin   *float64 `json:"gnomad_fin"`
	GnomadNfe   *float64 `json:"gnomad_nfe"`
	GnomadAsj   *float64 `json:"gnomad_asj"`
	GnomadSas   *float64 `json:"gnomad_sas"`
	Topmed      *float64 `json:"topmed"`
}

type QualityMetrics struct {
	MappingQuality   *float64 `json:"mapping_quality"`
	FisherStrandBias *float64 `json:"fisher_strand_bias"`
	QualityScore     *float64 `json:"quality_score"`
}

type ConservationScores struct {
	Phylop        *float64 `json:"phylop"`
	PhylopPrimate *float64 `json:"phylop_primate"`
	Gerp          *float64 `json:"gerp"`
	Dann          *float64 `json:"dann"`
}

type RegionGetResponse struct {
	Region        string                    `json:"region"`
	Chromosome    string                    `json:"chromosome"`
	Start         int                       `json:"start"`
	End           int                       `json:"end"`
	TotalVariants int                       `json:"total_variants"`
	Page          int                       `json:"page"`
	PageSize      int                       `json:"page_size"`
	Variants      []*schema.VariantDocument `json:"variants"`
}

type GeneGetResponse struct {
	Gene          string                    `json:"gene"`
	TotalVariants int                       `json:"total_variants"`
	Page          int                       `json:"page"`
	PageSize      int                       `json:"page_size"`
	TotalPages    int                       `json:"total_pages"`
	Variants      []*schema.VariantDocument `json:"variants"`
	Statistics    VariantStatistics         `json:"statistics"`
}

// VariantStatistics is the grouped/bucketed summary block computed over a
// filtered record set by the statistics aggregator.
type VariantStatistics struct {
	Count       int     `json:"count"`
	UniqueTypes int     `json:"uniqueTypes"`
	MeanAF      float64 `json:"meanAF"`
	MaxAF       float64 `json:"maxAF"`

	ClinvarCount int `json:"clinvarCount"`

	PieData          []NamedCount `json:"pieData"`
	PopData          []NamedMean  `json:"popData"`
	VariantTypeData  []NamedCount `json:"variantTypeData"`
	ClinvarData      []NamedCount `json:"clinvarData"`
	ConsequenceData  []NamedCount `json:"consequenceData"`
	QualityDist      []NamedCount `json:"qualityDist"`
	ConservationData []NamedMean  `json:"conservationData"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type NamedMean struct {
	Name string  `json:"name"`
	Mean float64 `json:"avg"`
}

type DatabaseStatsResponse struct {
	TotalVariants int64          `json:"total_variants"`
	VariantTypes  map[string]int `json:"variant_types"`
	Chromosomes   map[string]int `json:"chromosomes"`
}

type AutocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
}

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}

type GeneralError struct {
	Message string `json:"message"`
}
