package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"varhive/api/models"
	annotationModels "varhive/api/models/annotation"
	"varhive/api/models/ingest"
	"varhive/api/models/ingest/structs"
	"varhive/api/models/schema"
	"varhive/api/services/annotation"
	"varhive/api/services/warehouse"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/google/uuid"
)

type (
	IngestionService struct {
		Initialized                   bool
		IngestRequestChan             chan *ingest.AnnotationIngestRequest
		IngestRequestMap              map[string]*ingest.AnnotationIngestRequest
		IngestRequestMapMux           sync.RWMutex
		IngestionBulkIndexingCapacity int
		IngestionBulkIndexingQueue    chan *structs.IngestionQueueStructure
		IngestionBulkIndexer          esutil.BulkIndexer
		ConcurrentFileIngestionQueue  chan bool
		ElasticsearchClient           *elasticsearch.Client
		Config                        *models.Config

		numAdded   uint64
		numFlushed uint64
		numFailed  uint64
		numSkipped uint64
	}
)

func NewIngestionService(es *elasticsearch.Client, cfg *models.Config) *IngestionService {

	iz := &IngestionService{
		Initialized:                   false,
		IngestRequestChan:             make(chan *ingest.AnnotationIngestRequest),
		IngestRequestMap:              map[string]*ingest.AnnotationIngestRequest{},
		IngestRequestMapMux:           sync.RWMutex{},
		IngestionBulkIndexingCapacity: cfg.Api.BulkIndexingCap,
		IngestionBulkIndexingQueue:    make(chan *structs.IngestionQueueStructure, cfg.Api.BulkIndexingCap),
		ConcurrentFileIngestionQueue:  make(chan bool, cfg.Api.FileProcessingConcurrencyLevel),
		ElasticsearchClient:           es,
		Config:                        cfg,
	}

	//see: https://www.elastic.co/blog/why-am-i-seeing-bulk-rejections-in-my-elasticsearch-cluster
	var numWorkers = iz.IngestionBulkIndexingCapacity / 100
	//the lower the denominator (the number of documents per bulk upload). the higher
	//the chances of 100% successful upload, though the longer it may take (negligible)

	bi, _ := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      cfg.Elasticsearch.Index,
		Client:     iz.ElasticsearchClient,
		NumWorkers: numWorkers,
	})
	iz.IngestionBulkIndexer = bi

	iz.Init()

	return iz
}

func (i *IngestionService) Init() {
	// safeguard to prevent multiple initilizations
	if !i.Initialized {
		// spin up a go routine acting as a listener for ingest request
		// updates and document bulk indexing
		go func() {
			for {
				select {
				case ingestionRequest := <-i.IngestRequestChan:
					if ingestionRequest.State == ingest.Queued {
						fmt.Printf("Queueing a new ingestion request for %s\n", ingestionRequest.Filename)
					}

					ingestionRequest.UpdatedAt = time.Now().String()
					i.IngestRequestMapMux.Lock()
					i.IngestRequestMap[ingestionRequest.Id.String()] = ingestionRequest
					i.IngestRequestMapMux.Unlock()

				case queuedItem := <-i.IngestionBulkIndexingQueue:

					queuedDocument := queuedItem.Document
					wg := queuedItem.WaitGroup

					docData, marshallErr := json.Marshal(queuedDocument)
					if marshallErr != nil {
						log.Fatalf("Cannot encode document %s: %s\n", queuedDocument.Vid, marshallErr)
					}

					// Add an item to the BulkIndexer
					marshallErr = i.IngestionBulkIndexer.Add(
						context.Background(),
						esutil.BulkIndexerItem{
							Action:     "index",
							DocumentID: queuedDocument.LocusKey(),

							// Body is an `io.Reader` with the payload
							Body: bytes.NewReader(docData),

							OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
								defer wg.Done()
								atomic.AddUint64(&i.numFlushed, 1)
							},

							OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
								defer wg.Done()
								atomic.AddUint64(&i.numFailed, 1)
								if err != nil {
									fmt.Printf("ERROR: %s", err)
								} else {
									fmt.Printf("ERROR: %s: %s", res.Error.Type, res.Error.Reason)
								}
							},
						},
					)
					if marshallErr != nil {
						fmt.Printf("Unexpected error: %s", marshallErr)
						wg.Done()
					}
				}
			}
		}()

		i.Initialized = true
	}
}

/*
	ProcessAnnotationJson runs the whole pipeline for one gzipped annotation
	document: stream positions, flatten each (position, variant) pair into a
	flat record, derive the summary fields, batch the records to disk, merge
	the batches into one keyed table, and bulk-index the table.

	Incomplete variants (missing an identity field) are skipped and counted;
	any other failure aborts the run and preserves the partial batches for
	inspection.
*/
func (i *IngestionService) ProcessAnnotationJson(annotationFilePath string, requestId uuid.UUID) error {

	reader := annotation.NewAnnotationReader(annotationFilePath)

	// surface malformed documents before any position is processed
	header, headerErr := reader.Header()
	if headerErr != nil {
		return headerErr
	}
	fmt.Printf("Processing %s (annotator: %s, assembly: %s, schema version: %d)\n",
		annotationFilePath, header.Annotator, header.GenomeAssembly, header.SchemaVersion)

	stream, streamErr := reader.Positions()
	if streamErr != nil {
		return streamErr
	}
	defer stream.Close()

	batchDirectory := path.Join(i.Config.Api.BatchDirectory, requestId.String())
	writer, writerErr := warehouse.NewBatchWriter(batchDirectory, i.Config.Api.BatchSize)
	if writerErr != nil {
		return writerErr
	}

	// "position ingestion queue"
	// - manage # of positions being concurrently processed at any given time
	positionProcessingQueue := make(chan bool, i.Config.Api.PositionProcessingConcurrencyLevel)

	// the batch writer is single-owner; flattened records funnel through
	// one channel to one writing goroutine
	documentChan := make(chan *schema.VariantDocument, i.Config.Api.BatchSize)

	var writeWG sync.WaitGroup
	var writeErr error
	writeWG.Add(1)
	go func() {
		defer writeWG.Done()
		for doc := range documentChan {
			if writeErr != nil {
				continue // drain the channel after a failed flush
			}
			if addErr := writer.Add(doc); addErr != nil {
				writeErr = addErr
				continue
			}
			atomic.AddUint64(&i.numAdded, 1)
		}
	}()

	var positionWG sync.WaitGroup
	var streamReadErr error
	for {
		position, nextErr := stream.Next()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			streamReadErr = nextErr
			break
		}

		// take a spot in the queue
		positionProcessingQueue <- true
		positionWG.Add(1)
		go func(position *annotationModels.Position) {
			// free up a spot in the queue
			defer func() { <-positionProcessingQueue }()
			defer positionWG.Done()

			for index := range position.Variants {
				doc, flattenErr := annotation.FlattenVariant(position, &position.Variants[index])
				if flattenErr != nil {
					var incompleteErr *annotation.IncompleteVariantError
					if errors.As(flattenErr, &incompleteErr) {
						atomic.AddUint64(&i.numSkipped, 1)
						continue
					}
					// malformed beyond the identity check; count and move on
					atomic.AddUint64(&i.numSkipped, 1)
					fmt.Printf("Failed to flatten variant: %s\n", flattenErr)
					continue
				}

				annotation.Annotate(doc)
				documentChan <- doc
			}
		}(position)
	}

	positionWG.Wait()
	close(documentChan)
	writeWG.Wait()

	if streamReadErr != nil {
		writer.Abort()
		return streamReadErr
	}
	if writeErr != nil {
		return writeErr
	}

	table, finalizeErr := writer.Finalize()
	if finalizeErr != nil {
		return finalizeErr
	}

	fmt.Printf("Merged %d records from %s, indexing...\n", table.Count(), annotationFilePath)

	// ---	 push the merged table to the bulk indexing queue
	var indexWG sync.WaitGroup
	indexWG.Add(table.Count())
	for _, record := range table.Records {
		i.IngestionBulkIndexingQueue <- &structs.IngestionQueueStructure{
			Document:  record,
			WaitGroup: &indexWG,
		}
	}
	indexWG.Wait()

	fmt.Printf("File %s waited for and complete!\n\t- Number of skipped incomplete variants: %d\n",
		annotationFilePath, atomic.LoadUint64(&i.numSkipped))

	return nil
}

func (i *IngestionService) FilenameAlreadyRunning(filename string) bool {
	i.IngestRequestMapMux.Lock()
	defer i.IngestRequestMapMux.Unlock()

	for _, v := range i.IngestRequestMap {
		if v.Filename == filename && (v.State == ingest.Queued || v.State == ingest.Running) {
			return true
		}
	}
	return false
}

// Stats snapshots the running ingestion counters.
func (i *IngestionService) Stats() ingest.IngestStatsDto {
	return ingest.IngestStatsDto{
		NumAdded:   atomic.LoadUint64(&i.numAdded),
		NumFlushed: atomic.LoadUint64(&i.numFlushed),
		NumFailed:  atomic.LoadUint64(&i.numFailed),
		NumSkipped: atomic.LoadUint64(&i.numSkipped),
	}
}
