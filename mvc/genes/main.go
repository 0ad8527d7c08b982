package genes

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"varhive/api/contexts"
	"varhive/api/models/dtos"
	"varhive/api/models/dtos/errors"
	"varhive/api/mvc"
	esRepo "varhive/api/repositories/elasticsearch"
	variantService "varhive/api/services/variants"

	"github.com/labstack/echo"
	"golang.org/x/sync/errgroup"
)

/*
	GenesGetVariants serves a filtered, paged listing of one gene's variants
	together with the statistics block computed over the whole filtered set.
	The record page and the aggregations are fetched concurrently.
*/
func GenesGetVariants(c echo.Context) error {
	fmt.Printf("[%s] - GenesGetVariants hit!\n", time.Now())
	es, cfg := mvc.RetrieveCommonElements(c)
	geneName := c.(*contexts.BrowserContext).GeneName

	page, pageSize := mvc.RetrievePagination(c, 50)

	// -- optional filters
	consequence := c.QueryParam("consequence")

	var minAf, maxAf *float64
	minAfQP := c.QueryParam("minAf")
	if len(minAfQP) > 0 {
		if value, conversionErr := strconv.ParseFloat(minAfQP, 64); conversionErr == nil {
			minAf = &value
		} else {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Error converting 'minAf' query parameter! Check your input"))
		}
	}
	maxAfQP := c.QueryParam("maxAf")
	if len(maxAfQP) > 0 {
		if value, conversionErr := strconv.ParseFloat(maxAfQP, 64); conversionErr == nil {
			maxAf = &value
		} else {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Error converting 'maxAf' query parameter! Check your input"))
		}
	}

	queryConditions := esRepo.BuildGeneQueryConditions(geneName, consequence, minAf, maxAf)

	var (
		hitsResult  map[string]interface{}
		statsResult map[string]interface{}
	)

	var g errgroup.Group
	g.Go(func() error {
		result, searchErr := esRepo.GetDocumentsByQueryConditions(cfg, es, queryConditions, page, pageSize)
		if searchErr != nil {
			return searchErr
		}
		hitsResult = result
		return nil
	})
	g.Go(func() error {
		result, searchErr := esRepo.GetGlobalStats(cfg, es, queryConditions)
		if searchErr != nil {
			return searchErr
		}
		statsResult = result
		return nil
	})
	if waitErr := g.Wait(); waitErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(waitErr.Error()))
	}

	docs, decodeErr := variantService.DecodeHits(hitsResult)
	if decodeErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(decodeErr.Error()))
	}

	totalVariants := variantService.TotalHits(hitsResult)
	totalPages := (totalVariants + pageSize - 1) / pageSize

	return c.JSON(http.StatusOK, dtos.GeneGetResponse{
		Gene:          geneName,
		TotalVariants: totalVariants,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
		Variants:      docs,
		Statistics:    variantService.FormatStatsResponse(statsResult),
	})
}
