package extractor

import (
	"budget-monitor/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

func (m *MockExtractor) Extract(ctx context.Context, docType domain.DocumentType, batch []byte) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, docType, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}
