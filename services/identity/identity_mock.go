package identity

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"remindbot/models"
)

// MockIdentityService is a mock implementation of the IdentityService interface
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) LoadUser(ctx context.Context, author models.Author) (*models.User, error) {
	args := m.Called(ctx, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockIdentityService) LoadChannel(ctx context.Context, channel models.ChannelRef) (*models.Channel, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockIdentityService) SetTimezone(ctx context.Context, userID, timezone string) error {
	args := m.Called(ctx, userID, timezone)
	return args.Error(0)
}

func (m *MockIdentityService) SetLanguage(ctx context.Context, userID, language string) error {
	args := m.Called(ctx, userID, language)
	return args.Error(0)
}

func (m *MockIdentityService) SetMeridian(ctx context.Context, userID string, meridian bool) error {
	args := m.Called(ctx, userID, meridian)
	return args.Error(0)
}

func (m *MockIdentityService) SetPaused(
	ctx context.Context,
	channel models.ChannelRef,
	paused bool,
	until *time.Time,
) error {
	args := m.Called(ctx, channel, paused, until)
	return args.Error(0)
}
