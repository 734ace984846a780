package timers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"remindbot/models"
)

// MockTimersService is a mock implementation of the TimersService interface
type MockTimersService struct {
	mock.Mock
}

func (m *MockTimersService) StartTimer(ctx context.Context, owner, name string) (*models.Timer, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Timer), args.Error(1)
}

func (m *MockTimersService) ListTimers(ctx context.Context, owner string) ([]*models.Timer, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Timer), args.Error(1)
}

func (m *MockTimersService) DeleteTimer(ctx context.Context, owner, name string) (bool, error) {
	args := m.Called(ctx, owner, name)
	return args.Bool(0), args.Error(1)
}
