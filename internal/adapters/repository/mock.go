package repository

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{}
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindLatestByMunicipalityAndType(ctx context.Context, municipalityID uuid.UUID, docType domain.DocumentType) (*domain.Document, error) {
	args := m.Called(ctx, municipalityID, docType)
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) SetTotalBatches(ctx context.Context, id uuid.UUID, total int) error {
	args := m.Called(ctx, id, total)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error {
	args := m.Called(ctx, id, processed)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, totalChunks int, processedAt time.Time) error {
	args := m.Called(ctx, id, totalChunks, processedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string, processedAt time.Time) error {
	args := m.Called(ctx, id, message, processedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) ResetToPending(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindStaleProcessing(ctx context.Context, olderThan time.Time) ([]domain.Document, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.Document), args.Error(1)
}

type MockMunicipalityRepository struct {
	mock.Mock
}

func NewMockMunicipalityRepository() *MockMunicipalityRepository {
	return &MockMunicipalityRepository{}
}

func (m *MockMunicipalityRepository) Create(ctx context.Context, municipality *domain.Municipality) error {
	args := m.Called(ctx, municipality)
	return args.Error(0)
}

func (m *MockMunicipalityRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Municipality, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Municipality), args.Error(1)
}

func (m *MockMunicipalityRepository) List(ctx context.Context, limit int, marker *string) ([]domain.Municipality, *string, error) {
	args := m.Called(ctx, limit, marker)
	return args.Get(0).([]domain.Municipality), args.Get(1).(*string), args.Error(2)
}

func (m *MockMunicipalityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	documentRepo     *MockDocumentRepository
	municipalityRepo *MockMunicipalityRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		documentRepo:     &MockDocumentRepository{},
		municipalityRepo: &MockMunicipalityRepository{},
	}
}

func (m *MockUnitOfWork) DocumentRepo() port.DocumentRepository {
	return m.documentRepo
}

func (m *MockUnitOfWork) MunicipalityRepo() port.MunicipalityRepository {
	return m.municipalityRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetDocumentRepoMock() *MockDocumentRepository {
	return m.documentRepo
}

func (m *MockUnitOfWork) GetMunicipalityRepoMock() *MockMunicipalityRepository {
	return m.municipalityRepo
}
