package document

import (
	"budget-monitor/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// Reprocess puts a completed or failed document back to pending, in place
func (d *documentService) Reprocess(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	previous, err := d.uow.DocumentRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousStatus, previousError := previous.Status, previous.ErrorMessage
	if err := previous.ResetForReprocess(d.now()); err != nil {
		return nil, err
	}

	doc, err := d.uow.DocumentRepo().ResetToPending(ctx, id)
	if err != nil {
		return nil, err
	}

	attrs := []any{
		"audit", "reprocess",
		"document_id", id,
		"previous_status", previousStatus,
		"version", doc.Version,
	}
	if previousError != nil {
		attrs = append(attrs, "previous_error", *previousError)
	}
	d.logger.Info("document reset to pending", attrs...)

	d.mirrorProgress(ctx, doc)
	return doc, nil
}
