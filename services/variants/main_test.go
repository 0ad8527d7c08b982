package variantsService

import (
	"testing"

	"varhive/api/models/dtos"

	"github.com/stretchr/testify/assert"
)

func nameCount(name string, value int) dtos.NamedCount {
	return dtos.NamedCount{Name: name, Value: value}
}

func nameMean(name string, mean float64) dtos.NamedMean {
	return dtos.NamedMean{Name: name, Mean: mean}
}

func makeSearchResult() map[string]interface{} {
	return map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": float64(42)},
			"hits": []interface{}{
				map[string]interface{}{
					"_source": map[string]interface{}{
						"chromosome": "17",
						"position":   float64(43071077),
						"ref":        "T",
						"alt":        "C",
						"vid":        "17-43071077-T-C",
						"rsid":       "rs80357462",
						"gnomad_af":  0.000012,
						"genes":      []interface{}{"BRCA1"},
					},
				},
			},
		},
	}
}

func TestDecodeHits(t *testing.T) {
	docs, err := DecodeHits(makeSearchResult())
	assert.Nil(t, err)
	assert.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "17", doc.Chromosome)
	assert.Equal(t, 43071077, doc.Position)
	assert.Equal(t, "17-43071077-T-C", doc.Vid)
	assert.Equal(t, "rs80357462", *doc.Rsid)
	assert.Equal(t, 0.000012, *doc.GnomadAf)
	assert.Equal(t, []string{"BRCA1"}, doc.Genes)
}

func TestDecodeHitsToleratesEmptyResponses(t *testing.T) {
	docs, err := DecodeHits(map[string]interface{}{})
	assert.Nil(t, err)
	assert.Empty(t, docs)
}

func TestTotalHits(t *testing.T) {
	assert.Equal(t, 42, TotalHits(makeSearchResult()))
	assert.Equal(t, 0, TotalHits(map[string]interface{}{}))
}

func TestBuildVariantGetResponse(t *testing.T) {
	docs, _ := DecodeHits(makeSearchResult())
	response := BuildVariantGetResponse(docs[0])

	assert.Equal(t, "17-43071077-T-C", response.Summary.Id)
	assert.Equal(t, "17:43071077", response.Summary.Position)
	// stored raw significance is absent here, so the consensus defaults
	assert.Equal(t, "Not provided", response.Summary.ClinvarSignificance)
	assert.Equal(t, 0.000012, *response.PopulationFrequencies.GnomadTotal)
}

func makeAggregationResult() map[string]interface{} {
	termsAgg := func(pairs ...interface{}) map[string]interface{} {
		buckets := []interface{}{}
		for i := 0; i < len(pairs); i += 2 {
			buckets = append(buckets, map[string]interface{}{
				"key": pairs[i], "doc_count": pairs[i+1],
			})
		}
		return map[string]interface{}{"buckets": buckets}
	}

	return map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": float64(100)},
			"hits":  []interface{}{},
		},
		"aggregations": map[string]interface{}{
			"variant_types": termsAgg("SNV", float64(80), "indel", float64(20)),
			"clinvar": termsAgg(
				"Pathogenic", float64(10),
				"Likely pathogenic", float64(5),
				"not provided", float64(30)),
			"consequences": termsAgg("missense_variant", float64(60)),
			// definition order deliberately differs from count order
			"af_ranges": termsAgg(
				"Ultra-rare (<0.01%)", float64(10),
				"Rare (0.01-0.1%)", float64(80),
				"Common (1-5%)", float64(40),
				"Very common (>5%)", float64(0)),
			"quality_hist": termsAgg("30-100", float64(25), ">1000", float64(75)),
			"gnomad_af_stats": map[string]interface{}{
				"avg": 0.0004, "max": 0.12,
			},
			"pop_afr":    map[string]interface{}{"value": 0.001},
			"pop_nfe":    map[string]interface{}{"value": 0.0002},
			"avg_phylop": map[string]interface{}{"value": 2.4},
			"avg_gerp":   map[string]interface{}{"value": nil},
		},
	}
}

func TestFormatStatsResponse(t *testing.T) {
	stats := FormatStatsResponse(makeAggregationResult())

	assert.Equal(t, 100, stats.Count)
	assert.Equal(t, 2, stats.UniqueTypes)
	assert.Equal(t, 0.0004, stats.MeanAF)
	assert.Equal(t, 0.12, stats.MaxAF)

	// raw significance strings collapse to consensus labels with merged counts
	assert.Contains(t, stats.ClinvarData, nameCount("Likely pathogenic/Pathogenic", 15))
	assert.Contains(t, stats.ClinvarData, nameCount("Not provided", 30))
	// only classified (non-"Not provided") records count as clinvar-annotated
	assert.Equal(t, 15, stats.ClinvarCount)

	// the AF histogram is re-sorted by descending count (range buckets
	// come back in range-definition order) and empty buckets are dropped
	assert.Equal(t, []dtos.NamedCount{
		nameCount("Rare (0.01-0.1%)", 80),
		nameCount("Common (1-5%)", 40),
		nameCount("Ultra-rare (<0.01%)", 10),
	}, stats.PieData)

	// the quality histogram keeps its threshold order
	assert.Equal(t, []dtos.NamedCount{
		nameCount("30-100", 25),
		nameCount(">1000", 75),
	}, stats.QualityDist)

	// population and conservation means; absent averages are omitted
	assert.Contains(t, stats.PopData, nameMean("AFR", 0.001))
	assert.Contains(t, stats.PopData, nameMean("NFE", 0.0002))
	assert.Len(t, stats.ConservationData, 1)
	assert.Equal(t, "PhyloP", stats.ConservationData[0].Name)
}

func TestFormatStatsResponseNoAggregations(t *testing.T) {
	stats := FormatStatsResponse(map[string]interface{}{})

	assert.Equal(t, 0, stats.Count)
	assert.Empty(t, stats.VariantTypeData)
	assert.Empty(t, stats.PieData)
	assert.Empty(t, stats.PopData)
}
