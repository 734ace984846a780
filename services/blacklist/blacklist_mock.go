package blacklist

import (
	"context"

	"github.com/stretchr/testify/mock"

	"remindbot/commands"
	"remindbot/models"
)

// MockBlacklistService is a mock implementation of the blacklist guard
type MockBlacklistService struct {
	mock.Mock
}

func (m *MockBlacklistService) IsPermitted(
	ctx context.Context,
	channelID string,
	spec *commands.CommandSpec,
) (bool, error) {
	args := m.Called(ctx, channelID, spec)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlacklistService) SetBlacklisted(
	ctx context.Context,
	channel models.ChannelRef,
	blacklisted bool,
) error {
	args := m.Called(ctx, channel, blacklisted)
	return args.Error(0)
}
