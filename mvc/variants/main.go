package variants

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"varhive/api/contexts"
	"varhive/api/models/dtos"
	"varhive/api/models/dtos/errors"
	"varhive/api/models/ingest"
	"varhive/api/mvc"
	esRepo "varhive/api/repositories/elasticsearch"
	"varhive/api/services/identifiers"
	variantService "varhive/api/services/variants"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

func VariantsIngestionStats(c echo.Context) error {
	fmt.Printf("[%s] - VariantsIngestionStats hit!\n", time.Now())
	ingestionService := c.(*contexts.BrowserContext).IngestionService

	return c.JSON(http.StatusOK, ingestionService.Stats())
}

func VariantsIngestionRequests(c echo.Context) error {
	fmt.Printf("[%s] - VariantsIngestionRequests hit!\n", time.Now())
	ingestionService := c.(*contexts.BrowserContext).IngestionService

	ingestionService.IngestRequestMapMux.RLock()
	defer ingestionService.IngestRequestMapMux.RUnlock()

	requests := make([]*ingest.AnnotationIngestRequest, 0, len(ingestionService.IngestRequestMap))
	for _, request := range ingestionService.IngestRequestMap {
		requests = append(requests, request)
	}

	return c.JSON(http.StatusOK, requests)
}

/*
	VariantsGetById serves one variant looked up by canonical id, rsID, or a
	region-shaped identifier. Exact-id lookups return the single record with
	its summary blocks; region-shaped lookups return every record in range.
*/
func VariantsGetById(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetById hit!\n", time.Now())
	es, cfg := mvc.RetrieveCommonElements(c)
	lookup := c.(*contexts.BrowserContext).VariantLookup

	if lookup.Kind == identifiers.LookupRegion {
		page, pageSize := mvc.RetrievePagination(c, 100)

		result, searchErr := esRepo.GetDocumentsInPositionRange(cfg, es,
			lookup.Chromosome, lookup.Start, lookup.End, page, pageSize)
		if searchErr != nil {
			return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(searchErr.Error()))
		}

		docs, decodeErr := variantService.DecodeHits(result)
		if decodeErr != nil {
			return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(decodeErr.Error()))
		}

		return c.JSON(http.StatusOK, dtos.RegionGetResponse{
			Region:        lookup.Key,
			Chromosome:    lookup.Chromosome,
			Start:         lookup.Start,
			End:           lookup.End,
			TotalVariants: variantService.TotalHits(result),
			Page:          page,
			PageSize:      pageSize,
			Variants:      docs,
		})
	}

	var (
		result    map[string]interface{}
		searchErr error
	)
	if lookup.Kind == identifiers.LookupRsid {
		result, searchErr = esRepo.GetDocumentByRsid(cfg, es, lookup.Key)
	} else {
		result, searchErr = esRepo.GetDocumentByVid(cfg, es, lookup.Key)
	}
	if searchErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(searchErr.Error()))
	}

	docs, decodeErr := variantService.DecodeHits(result)
	if decodeErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(decodeErr.Error()))
	}
	if len(docs) == 0 {
		return c.JSON(http.StatusNotFound,
			errors.CreateSimpleNotFound(fmt.Sprintf("No variant found for '%s'", lookup.Key)))
	}

	return c.JSON(http.StatusOK, variantService.BuildVariantGetResponse(docs[0]))
}

// VariantsGetByRegion serves a position-sorted page of every variant
// inside the resolved region.
func VariantsGetByRegion(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetByRegion hit!\n", time.Now())
	es, cfg := mvc.RetrieveCommonElements(c)
	lookup := c.(*contexts.BrowserContext).RegionLookup

	page, pageSize := mvc.RetrievePagination(c, 100)

	result, searchErr := esRepo.GetDocumentsInPositionRange(cfg, es,
		lookup.Chromosome, lookup.Start, lookup.End, page, pageSize)
	if searchErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(searchErr.Error()))
	}

	docs, decodeErr := variantService.DecodeHits(result)
	if decodeErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(decodeErr.Error()))
	}

	return c.JSON(http.StatusOK, dtos.RegionGetResponse{
		Region:        lookup.Key,
		Chromosome:    lookup.Chromosome,
		Start:         lookup.Start,
		End:           lookup.End,
		TotalVariants: variantService.TotalHits(result),
		Page:          page,
		PageSize:      pageSize,
		Variants:      docs,
	})
}

func GetVariantsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetVariantsOverview hit!\n", time.Now())
	es, cfg := mvc.RetrieveCommonElements(c)

	return c.JSON(http.StatusOK, variantService.GetVariantsOverview(es, cfg))
}

/*
	VariantsIngest queues gzipped annotation documents for ingestion. Files
	are named relative to the configured annotation directory; each one gets
	its own request id and runs through the bounded file ingestion queue.
*/
func VariantsIngest(c echo.Context) error {
	fmt.Printf("[%s] - VariantsIngest hit!\n", time.Now())
	cfg := c.(*contexts.BrowserContext).Config
	annotationPath := cfg.Api.AnnotationPath

	ingestionService := c.(*contexts.BrowserContext).IngestionService

	// retrieve query parameters (comma separated)
	fileNames := strings.Split(c.QueryParam("fileNames"), ",")
	for _, fileName := range fileNames {
		if fileName == "" {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Missing 'fileNames' query parameter!"))
		}
	}

	// verify all requested files exist before queueing any of them
	for _, fileName := range fileNames {
		if _, statErr := os.Stat(path.Join(annotationPath, fileName)); statErr != nil {
			return c.JSON(http.StatusBadRequest,
				errors.CreateSimpleBadRequest(fmt.Sprintf("file %s not found! Aborted --", fileName)))
		}
	}

	startTime := time.Now()
	fmt.Printf("Ingest Start: %s\n", startTime)

	responseDtos := []ingest.IngestResponseDTO{}
	for _, fileName := range fileNames {

		// check if there is an already existing ingestion request state
		if ingestionService.FilenameAlreadyRunning(fileName) {
			responseDtos = append(responseDtos, ingest.IngestResponseDTO{
				Filename: fileName,
				State:    ingest.Error,
				Message:  "File already being ingested..",
			})
			continue
		}

		// if not, execute

		newRequestState := &ingest.AnnotationIngestRequest{
			Id:        uuid.New(),
			Filename:  fileName,
			State:     ingest.Queued,
			CreatedAt: fmt.Sprintf("%v", startTime),
		}
		ingestionService.IngestRequestChan <- newRequestState

		responseDtos = append(responseDtos, ingest.IngestResponseDTO{
			Id:       newRequestState.Id,
			Filename: newRequestState.Filename,
			State:    newRequestState.State,
			Message:  "Successfully queued..",
		})

		go func(_fileName string, _newRequestState *ingest.AnnotationIngestRequest) {

			// take a spot in the queue
			ingestionService.ConcurrentFileIngestionQueue <- true
			// free up a spot in the queue
			defer func() {
				<-ingestionService.ConcurrentFileIngestionQueue
			}()

			fmt.Printf("Begin running %s !\n", _fileName)
			_newRequestState.State = ingest.Running
			ingestionService.IngestRequestChan <- _newRequestState

			annotationFilePath := path.Join(annotationPath, _fileName)
			processErr := ingestionService.ProcessAnnotationJson(annotationFilePath, _newRequestState.Id)
			if processErr != nil {
				msg := fmt.Sprintf("error processing %s: %s", _fileName, processErr)
				fmt.Println(msg)

				_newRequestState.State = ingest.Error
				_newRequestState.Message = msg
				ingestionService.IngestRequestChan <- _newRequestState

				return
			}

			fmt.Printf("Done running %s !\n", _fileName)
			_newRequestState.State = ingest.Done
			ingestionService.IngestRequestChan <- _newRequestState
		}(fileName, newRequestState)
	}

	return c.JSON(http.StatusOK, responseDtos)
}
