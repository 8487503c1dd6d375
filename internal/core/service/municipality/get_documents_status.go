package municipality

import (
	"budget-monitor/internal/core/domain"
	"context"
	"errors"

	"github.com/google/uuid"
)

func (m *municipalityService) GetDocumentsStatus(ctx context.Context, id uuid.UUID) (*domain.MunicipalityDocuments, error) {
	municipality, err := m.uow.MunicipalityRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := &domain.MunicipalityDocuments{Municipality: *municipality}
	for _, docType := range []domain.DocumentType{domain.DocumentTypeLOA, domain.DocumentTypeLDO} {
		doc, err := m.uow.DocumentRepo().FindLatestByMunicipalityAndType(ctx, id, docType)
		if err != nil {
			if errors.Is(err, domain.ErrDocumentNotFound) {
				continue
			}
			return nil, err
		}
		if docType == domain.DocumentTypeLOA {
			status.LOA = doc
		} else {
			status.LDO = doc
		}
	}

	return status, nil
}
