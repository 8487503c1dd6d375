package document

import (
	"budget-monitor/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// V1DocumentResponse is the representation of a document
type V1DocumentResponse struct {
	ID               uuid.UUID             `json:"id"`
	MunicipalityID   uuid.UUID             `json:"municipality_id"`
	Type             domain.DocumentType   `json:"type"`
	Filename         string                `json:"filename"`
	FileSizeBytes    int64                 `json:"file_size_bytes"`
	Year             int                   `json:"year"`
	Version          int                   `json:"version"`
	Status           domain.DocumentStatus `json:"status"`
	UploadDate       time.Time             `json:"upload_date"`
	ProcessedDate    *time.Time            `json:"processed_date"`
	TotalChunks      int                   `json:"total_chunks"`
	ProcessedBatches *int                  `json:"processed_batches"`
	TotalBatches     *int                  `json:"total_batches"`
	ErrorMessage     *string               `json:"error_message"`
}

// NewV1DocumentResponse maps a domain document
func NewV1DocumentResponse(doc *domain.Document) V1DocumentResponse {
	resp := V1DocumentResponse{
		ID:             doc.ID,
		MunicipalityID: doc.MunicipalityID,
		Type:           doc.Type,
		Filename:       doc.Filename,
		FileSizeBytes:  doc.SizeBytes,
		Year:           doc.Year,
		Version:        doc.Version,
		Status:         doc.Status,
		UploadDate:     doc.UploadDate,
		ProcessedDate:  doc.ProcessedDate,
		TotalChunks:    doc.TotalChunks,
		ErrorMessage:   doc.ErrorMessage,
	}
	if doc.Progress != nil {
		processed, total := doc.Progress.Processed, doc.Progress.Total
		resp.ProcessedBatches = &processed
		resp.TotalBatches = &total
	}
	return resp
}

// V1ProgressResponse is the progress of a document
type V1ProgressResponse struct {
	DocumentID   uuid.UUID             `json:"document_id"`
	Status       domain.DocumentStatus `json:"status"`
	CurrentBatch int                   `json:"current_batch"`
	TotalBatches int                   `json:"total_batches"`
	Percentage   float64               `json:"percentage"`
}

func newV1ProgressResponse(p domain.Progress) V1ProgressResponse {
	return V1ProgressResponse{
		DocumentID:   p.DocumentID,
		Status:       p.Status,
		CurrentBatch: p.CurrentBatch,
		TotalBatches: p.TotalBatches,
		Percentage:   p.Percentage,
	}
}
