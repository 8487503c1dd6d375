package document

import (
	"budget-monitor/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// GetProgress returns the last known progress of a document whatever its status.
// While processing, the cached counters win when they are ahead of the database.
func (d *documentService) GetProgress(ctx context.Context, id uuid.UUID) (*domain.Progress, error) {
	doc, err := d.uow.DocumentRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	progress := doc.ProgressView()
	if doc.Status != domain.DocumentStatusProcessing || d.progress == nil {
		return &progress, nil
	}

	cached, err := d.progress.Get(ctx, id)
	if err != nil {
		d.logger.Warn("progress cache unavailable", "document_id", id, "error", err)
		return &progress, nil
	}
	if cached != nil &&
		cached.Status == domain.DocumentStatusProcessing &&
		cached.TotalBatches == progress.TotalBatches &&
		cached.CurrentBatch > progress.CurrentBatch {
		return cached, nil
	}
	return &progress, nil
}

func (d *documentService) GetStats(ctx context.Context, id uuid.UUID) (*domain.DocumentStats, error) {
	progress, err := d.GetProgress(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := d.uow.DocumentRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &domain.DocumentStats{
		DocumentID:    doc.ID,
		Status:        doc.Status,
		TotalChunks:   doc.TotalChunks,
		UploadDate:    doc.UploadDate,
		ProcessedDate: doc.ProcessedDate,
		Progress:      *progress,
	}
	if doc.ProcessedDate != nil {
		duration := doc.ProcessedDate.Sub(doc.UploadDate)
		stats.Duration = &duration
	}
	return stats, nil
}
