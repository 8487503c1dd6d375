package municipality

import (
	"budget-monitor/internal/core/domain"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMunicipalityService is a mock implementation of MunicipalityService
type MockMunicipalityService struct {
	mock.Mock
}

func (m *MockMunicipalityService) CreateMunicipality(ctx context.Context, name, state string, year int) (*domain.Municipality, error) {
	args := m.Called(ctx, name, state, year)
	return args.Get(0).(*domain.Municipality), args.Error(1)
}

func (m *MockMunicipalityService) GetMunicipality(ctx context.Context, id uuid.UUID) (*domain.Municipality, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Municipality), args.Error(1)
}

func (m *MockMunicipalityService) ListMunicipalities(ctx context.Context, limit int, marker *string) ([]domain.Municipality, *string, error) {
	args := m.Called(ctx, limit, marker)
	return args.Get(0).([]domain.Municipality), args.Get(1).(*string), args.Error(2)
}

func (m *MockMunicipalityService) DeleteMunicipality(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMunicipalityService) GetDocumentsStatus(ctx context.Context, id uuid.UUID) (*domain.MunicipalityDocuments, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.MunicipalityDocuments), args.Error(1)
}
