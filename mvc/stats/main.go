package stats

import (
	"fmt"
	"net/http"
	"time"

	"varhive/api/models/dtos"
	"varhive/api/models/dtos/errors"
	"varhive/api/mvc"
	esRepo "varhive/api/repositories/elasticsearch"

	"github.com/labstack/echo"
	"golang.org/x/sync/errgroup"
)

// autocompletable fields by suggestion type
var suggestionFields = map[string]string{
	"gene": "genes",
	"rsid": "rsid",
	"vid":  "vid",
}

// GetDatabaseStats serves the index-wide totals: document count plus the
// variant type and chromosome distributions, fetched concurrently.
func GetDatabaseStats(c echo.Context) error {
	fmt.Printf("[%s] - GetDatabaseStats hit!\n", time.Now())
	es, cfg := mvc.RetrieveCommonElements(c)

	var (
		totalVariants int64
		variantTypes  map[string]int
		chromosomes   map[string]int
	)

	var g errgroup.Group
	g.Go(func() error {
		count, countErr := esRepo.CountDocuments(cfg, es)
		if countErr != nil {
			return countErr
		}
		totalVariants = count
		return nil
	})
	g.Go(func() error {
		result, bucketsErr := esRepo.GetBucketsByKeyword(cfg, es, "variant_type.keyword")
		if bucketsErr != nil {
			return bucketsErr
		}
		variantTypes = bucketCounts(result)
		return nil
	})
	g.Go(func() error {
		result, bucketsErr := esRepo.GetBucketsByKeyword(cfg, es, "chromosome.keyword")
		if bucketsErr != nil {
			return bucketsErr
		}
		chromosomes = bucketCounts(result)
		return nil
	})
	if waitErr := g.Wait(); waitErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(waitErr.Error()))
	}

	return c.JSON(http.StatusOK, dtos.DatabaseStatsResponse{
		TotalVariants: totalVariants,
		VariantTypes:  variantTypes,
		Chromosomes:   chromosomes,
	})
}

/*
	GetAutocompleteSuggestions serves prefix completion over gene symbols,
	rsIDs or canonical variant ids ('type' query parameter; genes by
	default). Gene suggestions are collapsed so each symbol appears once.
*/
func GetAutocompleteSuggestions(c echo.Context) error {
	fmt.Printf("[%s] - GetAutocompleteSuggestions hit!\n", time.Now())
	es, cfg := mvc.RetrieveCommonElements(c)

	prefix := c.QueryParam("q")
	if len(prefix) == 0 {
		return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Missing 'q' query parameter for suggesting!"))
	}

	suggestionType := c.QueryParam("type")
	if suggestionType == "" {
		suggestionType = "gene"
	}
	field, knownType := suggestionFields[suggestionType]
	if !knownType {
		return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Invalid 'type' query parameter! Expected one of: gene, rsid, vid"))
	}

	result, searchErr := esRepo.GetPrefixSuggestions(cfg, es, field, prefix, suggestionType == "gene", 10)
	if searchErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(searchErr.Error()))
	}

	return c.JSON(http.StatusOK, dtos.AutocompleteResponse{
		Suggestions: extractSuggestions(result, field),
	})
}

// bucketCounts flattens a keyword terms aggregation into key -> count.
func bucketCounts(result map[string]interface{}) map[string]int {
	counts := map[string]int{}

	aggs, aggsOk := result["aggregations"].(map[string]interface{})
	if !aggsOk {
		return counts
	}
	items, itemsOk := aggs["items"].(map[string]interface{})
	if !itemsOk {
		return counts
	}
	buckets, bucketsOk := items["buckets"].([]interface{})
	if !bucketsOk {
		return counts
	}

	for _, bucket := range buckets {
		bucketMapped, bucketOk := bucket.(map[string]interface{})
		if !bucketOk {
			continue
		}
		key, keyOk := bucketMapped["key"].(string)
		docCount, countOk := bucketMapped["doc_count"].(float64)
		if keyOk && countOk {
			counts[key] = int(docCount)
		}
	}

	return counts
}

// extractSuggestions pulls the suggested field out of each hit's _source;
// the field may hold a single value or a list.
func extractSuggestions(result map[string]interface{}, field string) []string {
	suggestions := []string{}
	seen := map[string]bool{}

	hits, hitsOk := result["hits"].(map[string]interface{})
	if !hitsOk {
		return suggestions
	}
	hitList, hitListOk := hits["hits"].([]interface{})
	if !hitListOk {
		return suggestions
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

		switch value := source[field].(type) {
		case string:
			if !seen[value] {
				seen[value] = true
				suggestions = append(suggestions, value)
			}
		case []interface{}:
			for _, item := range value {
				if itemString, ok := item.(string); ok && !seen[itemString] {
					seen[itemString] = true
					suggestions = append(suggestions, itemString)
				}
			}
		}
	}

	return suggestions
}
