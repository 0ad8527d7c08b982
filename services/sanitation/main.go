package sanitation

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-co-op/gocron"

	"varhive/api/models"
	"varhive/api/models/ingest"
	"varhive/api/services"
)

// finished ingest requests are kept visible this long before being pruned
const ingestRequestRetention = 7 * 24 * time.Hour

type (
	SanitationService struct {
		Initialized      bool
		Config           *models.Config
		IngestionService *services.IngestionService
	}
)

func NewSanitationService(iz *services.IngestionService, cfg *models.Config) *SanitationService {
	ss := &SanitationService{
		Initialized:      false,
		Config:           cfg,
		IngestionService: iz,
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if !ss.Initialized {
		// - spin up a go routine that will periodically
		//   run through a series of steps to ensure
		//   the system is "sanitary" ; i.e.
		//   - pruning long-finished ingestion requests
		//   - removing batch segment directories orphaned by
		//     crashed or aborted ingestion runs
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			s.Every(1).Days().At("04:00:00").Do(func() { // 12am EST
				fmt.Printf("[%s] - Running ingestion requests cleanup..\n", time.Now())
				ss.PruneFinishedIngestRequests()

				fmt.Printf("[%s] - Running orphaned batch directories cleanup..\n", time.Now())
				ss.RemoveOrphanedBatchDirectories()
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		ss.Initialized = true
		fmt.Println("Sanitation Service Initialized ..")
	}
}

// PruneFinishedIngestRequests drops Done/Error requests older than the
// retention window from the in-memory request map.
func (ss *SanitationService) PruneFinishedIngestRequests() {
	iz := ss.IngestionService

	iz.IngestRequestMapMux.Lock()
	defer iz.IngestRequestMapMux.Unlock()

	for id, request := range iz.IngestRequestMap {
		if request.State != ingest.Done && request.State != ingest.Error {
			continue
		}

		updatedAt, parseErr := time.Parse("2006-01-02 15:04:05.999999999 -0700 MST", request.UpdatedAt)
		if parseErr != nil {
			// unparseable timestamp; leave the request alone
			continue
		}

		if time.Since(updatedAt) > ingestRequestRetention {
			fmt.Printf("[%s] - Pruning finished ingestion request %s (%s)..\n", time.Now(), id, request.Filename)
			delete(iz.IngestRequestMap, id)
		}
	}
}

// RemoveOrphanedBatchDirectories deletes per-request batch segment
// directories whose request is no longer queued or running. A successful
// run removes its own directory; anything left behind belongs to a run
// that died mid-flight.
func (ss *SanitationService) RemoveOrphanedBatchDirectories() {
	iz := ss.IngestionService
	batchDirectory := ss.Config.Api.BatchDirectory

	entries, readErr := os.ReadDir(batchDirectory)
	if readErr != nil {
		fmt.Printf("[%s] - Error reading batch directory : %v..\n", time.Now(), readErr)
		return
	}

	iz.IngestRequestMapMux.RLock()
	defer iz.IngestRequestMapMux.RUnlock()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if request, found := iz.IngestRequestMap[entry.Name()]; found {
			if request.State == ingest.Queued || request.State == ingest.Running {
				continue
			}
		}

		orphanPath := path.Join(batchDirectory, entry.Name())
		fmt.Printf("[%s] - Removing orphaned batch directory %s..\n", time.Now(), orphanPath)
		if removeErr := os.RemoveAll(orphanPath); removeErr != nil {
			fmt.Printf("[%s] - Error removing %s : %v..\n", time.Now(), orphanPath, removeErr)
		}
	}
}
