package port

import (
	"context"
	"io"
	"time"

	"budget-monitor/internal/core/domain"

	"github.com/google/uuid"
)

// DocumentRepository is an interface to define document repository interactions
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)
	FindLatestByMunicipalityAndType(ctx context.Context, municipalityID uuid.UUID, docType domain.DocumentType) (*domain.Document, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	SetTotalBatches(ctx context.Context, id uuid.UUID, total int) error
	UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error
	MarkCompleted(ctx context.Context, id uuid.UUID, totalChunks int, processedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string, processedAt time.Time) error
	ResetToPending(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindStaleProcessing(ctx context.Context, olderThan time.Time) ([]domain.Document, error)
}

// UploadRequest carries an uploaded budget document
type UploadRequest struct {
	MunicipalityID uuid.UUID
	Type           string
	Filename       string
	Year           int // budget year, the municipality year when zero
	Size           int64
	Content        io.Reader
}

// UploadResult is returned once a document is stored
type UploadResult struct {
	Document                       *domain.Document
	EstimatedProcessingTimeMinutes int
}

// DocumentService is an interface to define document service
type DocumentService interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)
	GetProgress(ctx context.Context, id uuid.UUID) (*domain.Progress, error)
	GetStats(ctx context.Context, id uuid.UUID) (*domain.DocumentStats, error)
	StartProcessing(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Reprocess(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
