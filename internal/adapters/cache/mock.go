package cache

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProgressCache struct {
	mock.Mock
}

func NewMockProgressCache() *MockProgressCache {
	return &MockProgressCache{}
}

func (m *MockProgressCache) Set(ctx context.Context, progress domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressCache) Get(ctx context.Context, id uuid.UUID) (*domain.Progress, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressCache) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func NewMockLocker() *MockLocker {
	return &MockLocker{}
}

func (m *MockLocker) Acquire(ctx context.Context, id uuid.UUID, ttl time.Duration) (port.Lock, error) {
	args := m.Called(ctx, id, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.Lock), args.Error(1)
}

type MockLock struct {
	mock.Mock
}

func NewMockLock() *MockLock {
	return &MockLock{}
}

func (m *MockLock) Extend(ctx context.Context, ttl time.Duration) error {
	args := m.Called(ctx, ttl)
	return args.Error(0)
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
