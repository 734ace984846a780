package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"remindbot/models"
)

// MockDiscordClient implements the clients.Gateway interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) SendText(ctx context.Context, channelID, text string) error {
	args := m.Called(ctx, channelID, text)
	return args.Error(0)
}

func (m *MockDiscordClient) SendEmbed(ctx context.Context, channelID string, embed models.Embed) error {
	args := m.Called(ctx, channelID, embed)
	return args.Error(0)
}

func (m *MockDiscordClient) OpenDMChannel(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockDiscordClient) MemberCanManageGuild(ctx context.Context, channelID, userID string) (bool, error) {
	args := m.Called(ctx, channelID, userID)
	return args.Bool(0), args.Error(1)
}
