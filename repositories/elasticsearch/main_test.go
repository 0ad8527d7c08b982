package elasticsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildGeneQueryConditionsGeneOnly(t *testing.T) {
	conditions := BuildGeneQueryConditions("BRCA1", "", nil, nil)

	must := conditions["bool"].(map[string]interface{})["must"].([]map[string]interface{})
	assert.Len(t, must, 1)
	assert.Equal(t, "BRCA1", must[0]["term"].(map[string]interface{})["genes.keyword"])
}

func TestBuildGeneQueryConditionsAllFilters(t *testing.T) {
	minAf := 0.001
	maxAf := 0.05
	conditions := BuildGeneQueryConditions("TP53", "missense_variant", &minAf, &maxAf)

	must := conditions["bool"].(map[string]interface{})["must"].([]map[string]interface{})
	assert.Len(t, must, 3)

	assert.Equal(t, "missense_variant", must[1]["term"].(map[string]interface{})["all_consequences.keyword"])

	afRange := must[2]["range"].(map[string]interface{})["max_gnomad_af"].(map[string]interface{})
	assert.Equal(t, 0.001, afRange["gte"])
	assert.Equal(t, 0.05, afRange["lte"])
}

func TestBuildGeneQueryConditionsHalfOpenAfRange(t *testing.T) {
	minAf := 0.01
	conditions := BuildGeneQueryConditions("TP53", "", &minAf, nil)

	must := conditions["bool"].(map[string]interface{})["must"].([]map[string]interface{})
	afRange := must[1]["range"].(map[string]interface{})["max_gnomad_af"].(map[string]interface{})
	assert.Equal(t, 0.01, afRange["gte"])

	_, hasUpper := afRange["lte"]
	assert.False(t, hasUpper)
}

func TestBuildGlobalStatsQueryShape(t *testing.T) {
	query := BuildGlobalStatsQuery(BuildGeneQueryConditions("BRCA1", "", nil, nil))

	// aggregations only; hits are fetched by the listing query
	assert.Equal(t, 0, query["size"])
	assert.NotNil(t, query["query"])

	aggs := query["aggs"].(map[string]interface{})
	for _, name := range []string{
		"variant_types", "gnomad_af_stats", "clinvar", "consequences",
		"af_ranges", "quality_hist",
		"pop_afr", "pop_amr", "pop_eas", "pop_nfe", "pop_sas",
		"avg_phylop", "avg_gerp", "avg_dann",
	} {
		assert.Contains(t, aggs, name)
	}

	// five allele-frequency buckets with stable labels
	afRanges := aggs["af_ranges"].(map[string]interface{})["range"].(map[string]interface{})
	buckets := afRanges["ranges"].([]map[string]interface{})
	assert.Len(t, buckets, 5)
	assert.Equal(t, "Ultra-rare (<0.01%)", buckets[0]["key"])
	assert.Equal(t, "Very common (>5%)", buckets[4]["key"])
}
