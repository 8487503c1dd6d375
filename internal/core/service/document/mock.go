package document

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDocumentService is a mock implementation of DocumentService
type MockDocumentService struct {
	mock.Mock
}

// NewMockDocumentService creates a new MockDocumentService
func NewMockDocumentService() *MockDocumentService {
	return &MockDocumentService{}
}

func (m *MockDocumentService) Upload(ctx context.Context, req port.UploadRequest) (*port.UploadResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*port.UploadResult), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetProgress(ctx context.Context, id uuid.UUID) (*domain.Progress, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockDocumentService) GetStats(ctx context.Context, id uuid.UUID) (*domain.DocumentStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.DocumentStats), args.Error(1)
}

func (m *MockDocumentService) StartProcessing(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Reprocess(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
