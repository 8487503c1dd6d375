package pdf

import (
	"github.com/stretchr/testify/mock"
)

type MockSplitter struct {
	mock.Mock
}

func NewMockSplitter() *MockSplitter {
	return &MockSplitter{}
}

func (m *MockSplitter) PageCount(path string) (int, error) {
	args := m.Called(path)
	return args.Int(0), args.Error(1)
}

func (m *MockSplitter) Split(path string, pagesPerBatch int, outDir string) ([]string, error) {
	args := m.Called(path, pagesPerBatch, outDir)
	return args.Get(0).([]string), args.Error(1)
}
