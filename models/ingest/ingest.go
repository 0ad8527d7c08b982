package ingest

import (
	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

type AnnotationIngestRequest struct {
	Id        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type IngestResponseDTO struct {
	Id       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	State    State     `json:"state"`
	Message  string    `json:"message"`
}

type IngestStatsDto struct {
	NumAdded   uint64 `json:"numAdded"`
	NumFlushed uint64 `json:"numFlushed"`
	NumFailed  uint64 `json:"numFailed"`
	NumSkipped uint64 `json:"numSkipped"`
}
