package handler

import (
	"context"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/sync"
	"github.com/stretchr/testify/mock"
)

// MockSyncService implements sync.Service for testing
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Run(ctx context.Context, configID int64, kind string) (*domain.SyncRun, error) {
	args := m.Called(ctx, configID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncRun), args.Error(1)
}

func (m *MockSyncService) Status(ctx context.Context, configID int64) (*sync.SyncStatus, error) {
	args := m.Called(ctx, configID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sync.SyncStatus), args.Error(1)
}

func (m *MockSyncService) Runs(ctx context.Context, configID int64, limit int) ([]domain.SyncRun, error) {
	args := m.Called(ctx, configID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncRun), args.Error(1)
}

func (m *MockSyncService) SetEnabled(ctx context.Context, configID int64, enabled bool) error {
	args := m.Called(ctx, configID, enabled)
	return args.Error(0)
}

// MockTrigger implements SyncTrigger for testing
type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) TriggerSync(ctx context.Context, configID int64, kind string) error {
	args := m.Called(ctx, configID, kind)
	return args.Error(0)
}

// stubChecker implements RunChecker with a fixed answer
type stubChecker struct {
	running bool
}

func (s *stubChecker) Running(configID int64) bool {
	return s.running
}
