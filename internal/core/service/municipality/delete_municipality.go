package municipality

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DeleteMunicipality removes a municipality and, by cascade, its documents.
// It is refused while a worker still owns one of them.
func (m *municipalityService) DeleteMunicipality(ctx context.Context, id uuid.UUID) error {
	return m.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if _, err := uow.MunicipalityRepo().FindByID(ctx, id); err != nil {
			return err
		}

		status := domain.DocumentStatusProcessing
		processing, err := uow.DocumentRepo().List(ctx, domain.DocumentFilter{MunicipalityID: &id, Status: &status, Limit: 1})
		if err != nil {
			return err
		}
		if len(processing) > 0 {
			return fmt.Errorf("%w: document %s is processing", domain.ErrInvalidTransition, processing[0].ID)
		}

		if err := uow.MunicipalityRepo().Delete(ctx, id); err != nil {
			return err
		}

		m.logger.Info("municipality deleted", "audit", "delete", "municipality_id", id)
		return nil
	})
}
