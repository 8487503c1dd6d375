package document

import (
	"budget-monitor/internal/core/domain"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Delete removes a document and its stored file, never while it is processed
func (d *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := d.uow.DocumentRepo().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status == domain.DocumentStatusProcessing {
		return fmt.Errorf("%w: document is processing", domain.ErrInvalidTransition)
	}

	if err := d.uow.DocumentRepo().Delete(ctx, id); err != nil {
		return err
	}

	if err := d.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
		d.logger.Error("failed to delete stored file", "document_id", id, "key", doc.StorageKey, "error", err)
	}
	if d.progress != nil {
		if err := d.progress.Delete(ctx, id); err != nil {
			d.logger.Warn("failed to drop cached progress", "document_id", id, "error", err)
		}
	}

	d.logger.Info("document deleted", "audit", "delete", "document_id", id, "status", doc.Status)
	return nil
}
