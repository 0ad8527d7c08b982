package structs

import (
	"sync"

	"varhive/api/models/schema"
)

type IngestionQueueStructure struct {
	Document  *schema.VariantDocument
	WaitGroup *sync.WaitGroup
}
