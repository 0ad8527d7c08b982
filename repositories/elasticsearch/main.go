package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"varhive/api/models"
	"varhive/api/utils"

	"github.com/elastic/go-elasticsearch/v7"
)

// GetDocumentByVid looks one variant document up by its canonical
// CHR-POS-REF-ALT identifier.
func GetDocumentByVid(cfg *models.Config, es *elasticsearch.Client, vid string) (map[string]interface{}, error) {
	query := map[string]interface{}{
		"size": 1,
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"vid.keyword": vid,
			},
		},
	}
	return executeSearch(cfg, es, query)
}

// GetDocumentByRsid looks one variant document up by dbSNP id.
func GetDocumentByRsid(cfg *models.Config, es *elasticsearch.Client, rsid string) (map[string]interface{}, error) {
	query := map[string]interface{}{
		"size": 1,
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"rsid.keyword": rsid,
			},
		},
	}
	return executeSearch(cfg, es, query)
}

// GetDocumentsInPositionRange pages through documents of one chromosome
// within [lowerBound, upperBound], sorted by position.
func GetDocumentsInPositionRange(cfg *models.Config, es *elasticsearch.Client,
	chromosome string, lowerBound int, upperBound int,
	page int, pageSize int) (map[string]interface{}, error) {

	// documents may carry the chromosome with or without a 'chr' prefix
	possibleChromosomes := []string{chromosome, fmt.Sprintf("chr%s", chromosome)}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"terms": map[string]interface{}{
							"chromosome.keyword": possibleChromosomes,
						},
					},
					{
						"range": map[string]interface{}{
							"position": map[string]interface{}{
								"gte": lowerBound,
								"lte": upperBound,
							},
						},
					},
				},
			},
		},
		"from": (page - 1) * pageSize,
		"size": pageSize,
		"sort": []map[string]interface{}{
			{"position": "asc"},
		},
	}
	return executeSearch(cfg, es, query)
}

// BuildGeneQueryConditions assembles the boolean filter used both for
// paging a gene's variants and for the statistics aggregations over the
// same filtered record set.
func BuildGeneQueryConditions(geneName string, consequence string, minAf *float64, maxAf *float64) map[string]interface{} {
	mustMap := []map[string]interface{}{{
		"term": map[string]interface{}{
			"genes.keyword": geneName,
		},
	}}

	if consequence != "" {
		mustMap = append(mustMap, map[string]interface{}{
			"term": map[string]interface{}{
				"all_consequences.keyword": consequence,
			},
		})
	}

	if minAf != nil || maxAf != nil {
		rangeMap := map[string]interface{}{}
		if minAf != nil {
			rangeMap["gte"] = *minAf
		}
		if maxAf != nil {
			rangeMap["lte"] = *maxAf
		}
		mustMap = append(mustMap, map[string]interface{}{
			"range": map[string]interface{}{
				"max_gnomad_af": rangeMap,
			},
		})
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": mustMap,
		},
	}
}

// GetDocumentsByQueryConditions pages position-sorted documents matching
// an already-built boolean filter.
func GetDocumentsByQueryConditions(cfg *models.Config, es *elasticsearch.Client,
	queryConditions map[string]interface{}, page int, pageSize int) (map[string]interface{}, error) {

	query := map[string]interface{}{
		"query": queryConditions,
		"from":  (page - 1) * pageSize,
		"size":  pageSize,
		"sort": []map[string]interface{}{
			{"position": "asc"},
		},
	}
	return executeSearch(cfg, es, query)
}

// GetPrefixSuggestions serves autocompletion over a keyword field.
func GetPrefixSuggestions(cfg *models.Config, es *elasticsearch.Client,
	field string, prefix string, collapse bool, size int) (map[string]interface{}, error) {

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"prefix": map[string]interface{}{
				fmt.Sprintf("%s.keyword", field): prefix,
			},
		},
		"size":    size,
		"_source": []string{field},
	}

	if collapse {
		query["collapse"] = map[string]interface{}{
			"field": fmt.Sprintf("%s.keyword", field),
		}
	}
	return executeSearch(cfg, es, query)
}

// GetBucketsByKeyword returns the distribution of values of one keyword
// field across the whole variants index.
func GetBucketsByKeyword(cfg *models.Config, es *elasticsearch.Client, keyword string) (map[string]interface{}, error) {
	aggMap := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"items": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": keyword,
					"size":  "10000", // increases the number of buckets returned (default is 10)
				},
			},
		},
	}
	return executeSearch(cfg, es, aggMap)
}

// CountDocuments returns the total number of documents in the variants index.
func CountDocuments(cfg *models.Config, es *elasticsearch.Client) (int64, error) {
	res, countErr := es.Count(
		es.Count.WithContext(context.Background()),
		es.Count.WithIndex(cfg.Elasticsearch.Index),
	)
	if countErr != nil {
		return 0, countErr
	}
	defer res.Body.Close()

	result, umErr := interpretResponse(res.String())
	if umErr != nil {
		return 0, umErr
	}

	count, ok := result["count"].(float64)
	if !ok {
		return 0, fmt.Errorf("unexpected count response shape: %v", result)
	}
	return int64(count), nil
}

func executeSearch(cfg *models.Config, es *elasticsearch.Client, query map[string]interface{}) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	if cfg.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	fmt.Printf("Query Start: %s\n", time.Now())

	res, searchErr := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex(cfg.Elasticsearch.Index),
		es.Search.WithBody(&buf),
		es.Search.WithTrackTotalHits(true),
		es.Search.WithPretty(),
	)
	if searchErr != nil {
		fmt.Printf("Error getting response: %s\n", searchErr)
		return nil, searchErr
	}
	defer res.Body.Close()

	resultString := res.String()
	if cfg.Debug {
		fmt.Println(resultString)
	}

	result, umErr := interpretResponse(resultString)
	if umErr != nil {
		return nil, umErr
	}

	fmt.Printf("Query End: %s\n", time.Now())

	return result, nil
}

// interpretResponse decodes an elasticsearch response string.
// Known bug: the response comes back with a preceding '[200 OK] '
// status marker which needs trimming before unmarshalling.
func interpretResponse(resultString string) (map[string]interface{}, error) {
	bracketString, jsonBodyString := utils.GetLeadingStringInBetweenSquareBrackets(resultString)
	if !strings.Contains(bracketString, "200") {
		return nil, fmt.Errorf("elasticsearch request failed: got '%s'", bracketString)
	}

	result := make(map[string]interface{})
	if umErr := json.Unmarshal([]byte(jsonBodyString), &result); umErr != nil {
		fmt.Printf("Error unmarshalling response: %s\n", umErr)
		return nil, umErr
	}
	return result, nil
}
