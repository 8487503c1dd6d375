package document

import (
	"budget-monitor/internal/core/domain"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StartProcessing moves the document to processing and hands it to the workers.
// A document whose request cannot be published ends failed rather than stuck.
func (d *documentService) StartProcessing(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	doc, err := d.uow.DocumentRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := d.now()
	if err := doc.StartProcessing(now); err != nil {
		return nil, err
	}

	if err := d.uow.DocumentRepo().MarkProcessing(ctx, id); err != nil {
		return nil, err
	}
	d.mirrorProgress(ctx, doc)

	event := domain.ProcessingRequested{DocumentID: id, RequestedAt: now}
	if pubErr := d.publisher.PublishProcessingRequested(ctx, event); pubErr != nil {
		d.logger.Error("failed to publish processing request", "document_id", id, "error", pubErr)

		message := fmt.Sprintf("could not queue processing: %v", pubErr)
		if err := d.uow.DocumentRepo().MarkFailed(ctx, id, message, now); err != nil {
			return nil, fmt.Errorf("%w: %w", pubErr, err)
		}
		_ = doc.Fail(now, message)
		d.mirrorProgress(ctx, doc)
		return nil, fmt.Errorf("%w: %w", domain.ErrProcessingFailed, pubErr)
	}

	d.logger.Info("processing started", "document_id", id, "type", doc.Type)
	return doc, nil
}
