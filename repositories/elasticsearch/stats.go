package elasticsearch

import (
	"varhive/api/models"

	"github.com/elastic/go-elasticsearch/v7"
)

/*
	Aggregation request bodies for the statistics aggregator. The filter
	predicate passed in is the same one used to select records for
	display, so the statistics describe the full filtered record set
	rather than the visible page.
*/

// BuildGlobalStatsQuery builds the request body computing every grouped
// and bucketed summary over the records matching queryConditions.
func BuildGlobalStatsQuery(queryConditions map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"query": queryConditions,
		"size":  0, // aggregations only, no hits
		"aggs": map[string]interface{}{
			// variant types
			"variant_types": map[string]interface{}{
				"terms": map[string]interface{}{"field": "variant_type.keyword", "size": 20},
			},

			// allele frequency extended stats (mean, max, ...)
			"gnomad_af_stats": map[string]interface{}{
				"extended_stats": map[string]interface{}{"field": "gnomad_af"},
			},

			// consensus clinical significance
			"clinvar": map[string]interface{}{
				"terms": map[string]interface{}{"field": "clinvar_significance.keyword", "size": 20},
			},

			// consequence terms
			"consequences": map[string]interface{}{
				"terms": map[string]interface{}{"field": "all_consequences.keyword", "size": 20},
			},

			// allele frequency histogram
			"af_ranges": map[string]interface{}{
				"range": map[string]interface{}{
					"field": "gnomad_af",
					"ranges": []map[string]interface{}{
						{"to": 0.0001, "key": "Ultra-rare (<0.01%)"},
						{"from": 0.0001, "to": 0.001, "key": "Rare (0.01-0.1%)"},
						{"from": 0.001, "to": 0.01, "key": "Low freq (0.1-1%)"},
						{"from": 0.01, "to": 0.05, "key": "Common (1-5%)"},
						{"from": 0.05, "key": "Very common (>5%)"},
					},
				},
			},

			// population averages
			"pop_afr": map[string]interface{}{"avg": map[string]interface{}{"field": "gnomad_afr_af"}},
			"pop_amr": map[string]interface{}{"avg": map[string]interface{}{"field": "gnomad_amr_af"}},
			"pop_eas": map[string]interface{}{"avg": map[string]interface{}{"field": "gnomad_eas_af"}},
			"pop_nfe": map[string]interface{}{"avg": map[string]interface{}{"field": "gnomad_nfe_af"}},
			"pop_sas": map[string]interface{}{"avg": map[string]interface{}{"field": "gnomad_sas_af"}},

			// quality histogram
			"quality_hist": map[string]interface{}{
				"range": map[string]interface{}{
					"field": "quality",
					"ranges": []map[string]interface{}{
						{"to": 30, "key": "<30"},
						{"from": 30, "to": 100, "key": "30-100"},
						{"from": 100, "to": 500, "key": "100-500"},
						{"from": 500, "to": 1000, "key": "500-1000"},
						{"from": 1000, "key": ">1000"},
					},
				},
			},

			// conservation score averages
			"avg_phylop": map[string]interface{}{"avg": map[string]interface{}{"field": "phylop_score"}},
			"avg_gerp":   map[string]interface{}{"avg": map[string]interface{}{"field": "gerp_score"}},
			"avg_dann":   map[string]interface{}{"avg": map[string]interface{}{"field": "dann_score"}},
		},
	}
}

// GetGlobalStats runs the statistics aggregations for one filter predicate.
func GetGlobalStats(cfg *models.Config, es *elasticsearch.Client, queryConditions map[string]interface{}) (map[string]interface{}, error) {
	return executeSearch(cfg, es, BuildGlobalStatsQuery(queryConditions))
}
