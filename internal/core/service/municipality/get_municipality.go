package municipality

import (
	"budget-monitor/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

func (m *municipalityService) GetMunicipality(ctx context.Context, id uuid.UUID) (*domain.Municipality, error) {
	return m.uow.MunicipalityRepo().FindByID(ctx, id)
}

func (m *municipalityService) ListMunicipalities(ctx context.Context, limit int, marker *string) ([]domain.Municipality, *string, error) {

	list, nextMarker, err := m.uow.MunicipalityRepo().List(ctx, limit, marker)
	if err != nil {
		return nil, nil, err
	}

	return list, nextMarker, nil
}
