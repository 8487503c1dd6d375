package processing

import (
	"budget-monitor/internal/core/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HandleMessage runs one processing request to a terminal status.
// Returning nil acks the message: failures are recorded on the document, not retried.
func (p *processingService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.ProcessingRequested
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: could not unmarshal processing request: %v", domain.ErrInvalidMessage, err)
	}
	if event.DocumentID == uuid.Nil {
		return fmt.Errorf("%w: processing request without document id", domain.ErrInvalidMessage)
	}
	id := event.DocumentID

	lock, err := p.locker.Acquire(ctx, id, p.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockNotAcquired) {
			p.logger.Info("document owned by another worker, skipping", "document_id", id)
			return nil
		}
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			p.logger.Warn("failed to release document lock", "document_id", id, "error", err)
		}
	}()

	doc, err := p.uow.DocumentRepo().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			p.logger.Warn("processing request for unknown document", "document_id", id)
			return nil
		}
		return err
	}
	if doc.Status != domain.DocumentStatusProcessing {
		p.logger.Info("document not processing, skipping", "document_id", id, "status", doc.Status)
		return nil
	}

	p.logger.Info("processing document", "document_id", id, "type", doc.Type, "version", doc.Version)
	start := p.now()

	chunks, procErr := p.process(ctx, doc, lock)
	if procErr != nil && ctx.Err() != nil {
		// shutting down: the document stays processing and the message comes back
		return procErr
	}

	now := p.now()
	if procErr != nil {
		return p.fail(ctx, doc, procErr, now)
	}

	if err := p.uow.DocumentRepo().MarkCompleted(ctx, id, chunks, now); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			p.logger.Warn("document left processing before completion", "document_id", id, "error", err)
			return nil
		}
		return fmt.Errorf("could not complete document %s: %w", id, err)
	}
	if doc.Progress != nil {
		doc.Progress.Processed = doc.Progress.Total
	}
	_ = doc.Complete(now, chunks)
	p.mirrorProgress(ctx, doc)

	p.logger.Info("document processed", "document_id", id, "chunks", chunks, "duration", now.Sub(start))
	return nil
}

func (p *processingService) fail(ctx context.Context, doc *domain.Document, cause error, now time.Time) error {
	message := domain.FailureMessage(cause.Error())
	p.logger.Error("document processing failed", "document_id", doc.ID, "error", cause)

	if err := p.uow.DocumentRepo().MarkFailed(ctx, doc.ID, message, now); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			p.logger.Warn("document left processing before failure was recorded", "document_id", doc.ID, "error", err)
			return nil
		}
		return fmt.Errorf("could not record failure of document %s: %w", doc.ID, err)
	}
	_ = doc.Fail(now, message)
	p.mirrorProgress(ctx, doc)
	return nil
}
