package document

import (
	"budget-monitor/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

func (d *documentService) GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return d.uow.DocumentRepo().FindByID(ctx, id)
}

func (d *documentService) ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return d.uow.DocumentRepo().List(ctx, filter)
}
