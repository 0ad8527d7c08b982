package variantsService

import (
	"fmt"
	"sort"
	"sync"

	"varhive/api/models"
	"varhive/api/models/dtos"
	"varhive/api/models/schema"
	esRepo "varhive/api/repositories/elasticsearch"
	"varhive/api/services/annotation"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

type (
	VariantService struct {
		Config *models.Config
	}
)

func NewVariantService(cfg *models.Config) *VariantService {
	vs := &VariantService{
		Config: cfg,
	}

	return vs
}

// DecodeHits maps the '_source' of every hit in a raw search response
// onto flat variant records.
func DecodeHits(result map[string]interface{}) ([]*schema.VariantDocument, error) {
	docs := []*schema.VariantDocument{}

	hits, hitsOk := result["hits"].(map[string]interface{})
	if !hitsOk {
		return docs, nil
	}
	hitList, hitListOk := hits["hits"].([]interface{})
	if !hitListOk {
		return docs, nil
	}

	for _, hit := range hitList {
		hitMapped, hitOk := hit.(map[string]interface{})
		if !hitOk {
			continue
		}
		source, sourceOk := hitMapped["_source"].(map[string]interface{})
		if !sourceOk {
			continue
		}

		var doc schema.VariantDocument
		decoder, decoderErr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName: "json",
			Result:  &doc,
		})
		if decoderErr != nil {
			return nil, decoderErr
		}
		if decodeErr := decoder.Decode(source); decodeErr != nil {
			return nil, fmt.Errorf("error mapping search hit: %w", decodeErr)
		}

		docs = append(docs, &doc)
	}

	return docs, nil
}

// TotalHits reads 'hits.total.value' from a raw search response.
func TotalHits(result map[string]interface{}) int {
	if hits, ok := result["hits"].(map[string]interface{}); ok {
		if total, ok := hits["total"].(map[string]interface{}); ok {
			if value, ok := total["value"].(float64); ok {
				return int(value)
			}
		}
	}
	return 0
}

// BuildVariantGetResponse assembles the single-variant detail payload:
// the full record plus the grouped summary blocks.
func BuildVariantGetResponse(doc *schema.VariantDocument) *dtos.VariantGetResponse {
	summary := dtos.VariantSummary{
		Id:                  doc.Vid,
		Position:            fmt.Sprintf("%s:%d", doc.Chromosome, doc.Position),
		Ref:                 doc.Ref,
		Alt:                 doc.Alt,
		Type:                doc.VariantType,
		Quality:             doc.Quality,
		Rsid:                doc.Rsid,
		GnomadAf:            doc.GnomadAf,
		MaxPopAf:            doc.MaxPopAf,
		ClinvarSignificance: annotation.ClassifySignificanceValue(doc.ClinvarSignificance),
		ClinvarVariantType:  doc.ClinvarVariantType,
		ClinvarId:           doc.ClinvarId,
		Genes:               doc.Genes,
	}
	if doc.Filters != nil {
		summary.Filter = []string{*doc.Filters}
	}

	return &dtos.VariantGetResponse{
		Variant: doc,
		Summary: summary,
		PopulationFrequencies: dtos.PopulationFrequencies{
			GnomadTotal: doc.GnomadAf,
			GnomadAfr:   doc.GnomadAfrAf,
			GnomadAmr:   doc.GnomadAmrAf,
			GnomadEas:   doc.GnomadEasAf,
			GnomadFin:   doc.GnomadFinAf,
			GnomadNfe:   doc.GnomadNfeAf,
			GnomadAsj:   doc.GnomadAsjAf,
			GnomadSas:   doc.GnomadSasAf,
			Topmed:      doc.TopmedAf,
		},
		QualityMetrics: dtos.QualityMetrics{
			MappingQuality:   doc.MappingQuality,
			FisherStrandBias: doc.FisherStrandBias,
			QualityScore:     doc.Quality,
		},
		ConservationScores: dtos.ConservationScores{
			Phylop:        doc.PhylopScore,
			PhylopPrimate: doc.PhylopPrimateScore,
			Gerp:          doc.GerpScore,
			Dann:          doc.DannScore,
		},
	}
}

var populationLabels = []struct {
	agg   string
	label string
}{
	{"pop_afr", "AFR"},
	{"pop_amr", "AMR"},
	{"pop_eas", "EAS"},
	{"pop_nfe", "NFE"},
	{"pop_sas", "SAS"},
}

var conservationLabels = []struct {
	agg   string
	label string
}{
	{"avg_phylop", "PhyloP"},
	{"avg_gerp", "GERP"},
	{"avg_dann", "DANN"},
}

/*
	FormatStatsResponse shapes a raw aggregation response into the
	statistics block served alongside a filtered variant listing.
	Terms buckets are preserved as returned (count-descending); range
	buckets arrive in range-definition order, so the AF histogram is
	re-sorted by descending count. Empty range buckets are dropped.
*/
func FormatStatsResponse(result map[string]interface{}) dtos.VariantStatistics {
	stats := dtos.VariantStatistics{
		Count:            TotalHits(result),
		PieData:          []dtos.NamedCount{},
		PopData:          []dtos.NamedMean{},
		VariantTypeData:  []dtos.NamedCount{},
		ClinvarData:      []dtos.NamedCount{},
		ConsequenceData:  []dtos.NamedCount{},
		QualityDist:      []dtos.NamedCount{},
		ConservationData: []dtos.NamedMean{},
	}

	aggs, aggsOk := result["aggregations"].(map[string]interface{})
	if !aggsOk {
		return stats
	}

	stats.VariantTypeData = termsBuckets(aggs, "variant_types")
	stats.UniqueTypes = len(stats.VariantTypeData)

	// stored significance values are raw semicolon-joined term strings;
	// collapse each bucket to its consensus label and merge counts
	stats.ClinvarData = classifyBuckets(termsBuckets(aggs, "clinvar"))
	// ClinvarCount deliberately counts classified records only; records
	// whose entries all collapse to "Not provided" carry no assertion and
	// are excluded from the total
	for _, bucket := range stats.ClinvarData {
		if bucket.Name != "Not provided" {
			stats.ClinvarCount += bucket.Value
		}
	}

	stats.ConsequenceData = termsBuckets(aggs, "consequences")

	// most-populated frequency range first; the quality histogram keeps
	// its threshold order
	stats.PieData = rangeBuckets(aggs, "af_ranges")
	sort.SliceStable(stats.PieData, func(i, j int) bool {
		return stats.PieData[i].Value > stats.PieData[j].Value
	})

	stats.QualityDist = rangeBuckets(aggs, "quality_hist")

	if afStats, ok := aggs["gnomad_af_stats"].(map[string]interface{}); ok {
		if avg, ok := afStats["avg"].(float64); ok {
			stats.MeanAF = avg
		}
		if max, ok := afStats["max"].(float64); ok {
			stats.MaxAF = max
		}
	}

	for _, pop := range populationLabels {
		if mean, ok := avgValue(aggs, pop.agg); ok {
			stats.PopData = append(stats.PopData, dtos.NamedMean{Name: pop.label, Mean: mean})
		}
	}
	for _, score := range conservationLabels {
		if mean, ok := avgValue(aggs, score.agg); ok {
			stats.ConservationData = append(stats.ConservationData, dtos.NamedMean{Name: score.label, Mean: mean})
		}
	}

	return stats
}

func termsBuckets(aggs map[string]interface{}, name string) []dtos.NamedCount {
	counts := []dtos.NamedCount{}
	for _, bucket := range rawBuckets(aggs, name) {
		bucketMapped, ok := bucket.(map[string]interface{})
		if !ok {
			continue
		}
		key := fmt.Sprint(bucketMapped["key"])
		count, _ := bucketMapped["doc_count"].(float64)
		counts = append(counts, dtos.NamedCount{Name: key, Value: int(count)})
	}

	// terms buckets arrive count-descending; keep ties deterministic
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Value > counts[j].Value })
	return counts
}

func classifyBuckets(raw []dtos.NamedCount) []dtos.NamedCount {
	merged := map[string]int{}
	for _, bucket := range raw {
		merged[annotation.ClassifySignificance(bucket.Name)] += bucket.Value
	}

	labels := []dtos.NamedCount{}
	for label, count := range merged {
		labels = append(labels, dtos.NamedCount{Name: label, Value: count})
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Value != labels[j].Value {
			return labels[i].Value > labels[j].Value
		}
		return labels[i].Name < labels[j].Name
	})
	return labels
}

func rangeBuckets(aggs map[string]interface{}, name string) []dtos.NamedCount {
	counts := []dtos.NamedCount{}
	for _, bucket := range rawBuckets(aggs, name) {
		bucketMapped, ok := bucket.(map[string]interface{})
		if !ok {
			continue
		}
		count, _ := bucketMapped["doc_count"].(float64)
		if count == 0 {
			continue
		}
		counts = append(counts, dtos.NamedCount{Name: fmt.Sprint(bucketMapped["key"]), Value: int(count)})
	}
	return counts
}

func rawBuckets(aggs map[string]interface{}, name string) []interface{} {
	if agg, ok := aggs[name].(map[string]interface{}); ok {
		if buckets, ok := agg["buckets"].([]interface{}); ok {
			return buckets
		}
	}
	return nil
}

func avgValue(aggs map[string]interface{}, name string) (float64, bool) {
	if agg, ok := aggs[name].(map[string]interface{}); ok {
		if value, ok := agg["value"].(float64); ok {
			return value, true
		}
	}
	return 0, false
}

// GetVariantsOverview reports the index-wide distribution of chromosomes,
// variant types, significance labels and genes, queried concurrently.
func GetVariantsOverview(es *elasticsearch.Client, cfg *models.Config) map[string]interface{} {
	resultsMap := map[string]interface{}{}
	resultsMux := sync.RWMutex{}

	var wg sync.WaitGroup
	callGetBucketsByKeyword := func(key string, keyword string, _wg *sync.WaitGroup) {
		defer _wg.Done()

		results, bucketsError := esRepo.GetBucketsByKeyword(cfg, es, keyword)
		if bucketsError != nil {
			resultsMux.Lock()
			defer resultsMux.Unlock()

			resultsMap[key] = map[string]interface{}{
				"error": "Something went wrong. Please contact the administrator!",
			}
			return
		}

		// retrieve aggregations.items.buckets
		bucketsMapped := []interface{}{}
		if aggs, aggsOk := results["aggregations"]; aggsOk {
			aggsMapped := aggs.(map[string]interface{})

			if items, itemsOk := aggsMapped["items"]; itemsOk {
				itemsMapped := items.(map[string]interface{})

				if buckets, bucketsOk := itemsMapped["buckets"]; bucketsOk {
					bucketsMapped = buckets.([]interface{})
				}
			}
		}

		individualKeyMap := map[string]interface{}{}
		// push results bucket to slice
		for _, bucket := range bucketsMapped {
			doc_key := fmt.Sprint(bucket.(map[string]interface{})["key"]) // ensure strings and numbers are expressed as strings
			doc_count := bucket.(map[string]interface{})["doc_count"]

			individualKeyMap[doc_key] = doc_count
		}

		resultsMux.Lock()
		resultsMap[key] = individualKeyMap
		resultsMux.Unlock()
	}

	// get distribution of chromosomes
	wg.Add(1)
	go callGetBucketsByKeyword("chromosomes", "chromosome.keyword", &wg)

	// get distribution of variant types
	wg.Add(1)
	go callGetBucketsByKeyword("variantTypes", "variant_type.keyword", &wg)

	// get distribution of significance labels
	wg.Add(1)
	go callGetBucketsByKeyword("clinvarSignificance", "clinvar_significance.keyword", &wg)

	// get distribution of genes
	wg.Add(1)
	go callGetBucketsByKeyword("genes", "genes.keyword", &wg)

	wg.Wait()

	return resultsMap
}
