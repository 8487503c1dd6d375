package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingRequested is published when a document enters processing
type ProcessingRequested struct {
	DocumentID  uuid.UUID `json:"document_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// ExtractionResult is what the extractor returns for one batch of pages
type ExtractionResult struct {
	Chunks int
}

// PageRange is an inclusive range of PDF pages
type PageRange struct {
	From int
	To   int
}
