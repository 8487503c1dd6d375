package document

import (
	"budget-monitor/internal/config"
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// defaultListLimit and maxListLimit bound document listing
const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type documentService struct {
	uow       port.UnitOfWork
	storage   port.DocumentStorage
	publisher port.EventPublisher
	progress  port.ProgressCache
	uploadCfg config.UploadConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(uow port.UnitOfWork, storage port.DocumentStorage, publisher port.EventPublisher, progress port.ProgressCache, cfg config.UploadConfig, logger *slog.Logger) port.DocumentService {
	return &documentService{
		uow:       uow,
		storage:   storage,
		publisher: publisher,
		progress:  progress,
		uploadCfg: cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// StorageKey is the object key of a document in the bucket
func StorageKey(municipalityID uuid.UUID, docType domain.DocumentType, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s.pdf", municipalityID, docType, id)
}

// EstimateProcessingMinutes gives a rough processing duration from the file size
func EstimateProcessingMinutes(sizeBytes int64) int {
	sizeMB := float64(sizeBytes) / (1024 * 1024)
	return max(2, min(30, int(sizeMB*1.5)))
}

// mirrorProgress keeps the cache in line with a status change, the database stays the source of truth
func (d *documentService) mirrorProgress(ctx context.Context, doc *domain.Document) {
	if d.progress == nil {
		return
	}
	if err := d.progress.Set(ctx, doc.ProgressView()); err != nil {
		d.logger.Warn("failed to mirror progress", "document_id", doc.ID, "error", err)
	}
}
