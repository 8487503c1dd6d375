package cleanup

import (
	"budget-monitor/internal/core/domain"
	"context"
	"errors"
	"time"
)

// staleMessage is the error_message of documents swept by FailStaleProcessing
const staleMessage = "processing timed out"

// FailStaleProcessing marks failed the documents stuck in processing with no update since staleAfter
func (c *cleanupService) FailStaleProcessing(ctx context.Context, now time.Time) (int, error) {

	docs, err := c.uow.DocumentRepo().FindStaleProcessing(ctx, now.Add(-c.staleAfter))
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, doc := range docs {
		markErr := c.uow.DocumentRepo().MarkFailed(ctx, doc.ID, staleMessage, now)
		if markErr != nil {
			// the worker may have finished in between
			if !errors.Is(markErr, domain.ErrInvalidTransition) {
				c.logger.Error("Failed to fail stale document", "document_id", doc.ID, "err", markErr)
			}
			continue
		}
		failed++

		c.logger.Warn("stale document marked failed", "document_id", doc.ID, "last_update", doc.UpdatedAt)
		if c.progress != nil {
			_ = doc.Fail(now, staleMessage)
			if err := c.progress.Set(ctx, doc.ProgressView()); err != nil {
				c.logger.Warn("failed to mirror progress", "document_id", doc.ID, "error", err)
			}
		}
	}

	c.logger.Info("stale processing sweep completed", "failed", failed)
	return failed, nil
}
