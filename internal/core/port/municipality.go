package port

import (
	"context"

	"budget-monitor/internal/core/domain"

	"github.com/google/uuid"
)

// MunicipalityRepository represents a municipality repository implementation
type MunicipalityRepository interface {
	Create(ctx context.Context, m *domain.Municipality) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Municipality, error)
	List(ctx context.Context, limit int, marker *string) ([]domain.Municipality, *string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MunicipalityService represents a municipality service implementation
type MunicipalityService interface {
	CreateMunicipality(ctx context.Context, name, state string, year int) (*domain.Municipality, error)
	GetMunicipality(ctx context.Context, id uuid.UUID) (*domain.Municipality, error)
	ListMunicipalities(ctx context.Context, limit int, marker *string) ([]domain.Municipality, *string, error)
	DeleteMunicipality(ctx context.Context, id uuid.UUID) error
	GetDocumentsStatus(ctx context.Context, id uuid.UUID) (*domain.MunicipalityDocuments, error)
}
