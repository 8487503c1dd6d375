package municipality

import (
	"budget-monitor/internal/core/domain"
	"context"
)

func (m *municipalityService) CreateMunicipality(ctx context.Context, name, state string, year int) (*domain.Municipality, error) {

	municipality, err := domain.NewMunicipality(name, state, year)
	if err != nil {
		return nil, err
	}

	if err := m.uow.MunicipalityRepo().Create(ctx, municipality); err != nil {
		return nil, err
	}

	m.logger.Info("municipality created", "municipality_id", municipality.ID, "name", municipality.Name, "state", municipality.State)
	return municipality, nil
}
