package db

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"remindbot/models"
)

// MockGuildsRepository is a mock implementation of the GuildsRepository interface
type MockGuildsRepository struct {
	mock.Mock
}

func (m *MockGuildsRepository) GetGuildByExternalID(
	ctx context.Context,
	externalID string,
) (mo.Option[*models.Guild], error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(mo.Option[*models.Guild]), args.Error(1)
}

func (m *MockGuildsRepository) CreateGuildIfNotExists(ctx context.Context, guild *models.Guild) (bool, error) {
	args := m.Called(ctx, guild)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildsRepository) UpdateGuildPrefix(ctx context.Context, externalID, prefix string) (bool, error) {
	args := m.Called(ctx, externalID, prefix)
	return args.Bool(0), args.Error(1)
}

// MockChannelsRepository is a mock implementation of the ChannelsRepository interface
type MockChannelsRepository struct {
	mock.Mock
}

func (m *MockChannelsRepository) GetChannelByExternalID(
	ctx context.Context,
	externalID string,
) (mo.Option[*models.Channel], error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(mo.Option[*models.Channel]), args.Error(1)
}

func (m *MockChannelsRepository) CreateChannelIfNotExists(
	ctx context.Context,
	channel *models.Channel,
	guildExternalID string,
) (bool, error) {
	args := m.Called(ctx, channel, guildExternalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChannelsRepository) UpdateChannelBlacklisted(
	ctx context.Context,
	externalID string,
	blacklisted bool,
) (bool, error) {
	args := m.Called(ctx, externalID, blacklisted)
	return args.Bool(0), args.Error(1)
}

func (m *MockChannelsRepository) UpdateChannelPause(
	ctx context.Context,
	externalID string,
	paused bool,
	pausedUntil *time.Time,
) (bool, error) {
	args := m.Called(ctx, externalID, paused, pausedUntil)
	return args.Bool(0), args.Error(1)
}

// MockUsersRepository is a mock implementation of the UsersRepository interface
type MockUsersRepository struct {
	mock.Mock
}

func (m *MockUsersRepository) GetUserByExternalID(
	ctx context.Context,
	externalID, defaultLanguage, defaultTimezone string,
) (mo.Option[*models.User], error) {
	args := m.Called(ctx, externalID, defaultLanguage, defaultTimezone)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersRepository) CreateUserIfNotExists(ctx context.Context, user *models.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsersRepository) UpdateUserLanguage(ctx context.Context, externalID, language string) (bool, error) {
	args := m.Called(ctx, externalID, language)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsersRepository) UpdateUserTimezone(ctx context.Context, externalID, timezone string) (bool, error) {
	args := m.Called(ctx, externalID, timezone)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsersRepository) UpdateUserMeridian(ctx context.Context, externalID string, meridian bool) (bool, error) {
	args := m.Called(ctx, externalID, meridian)
	return args.Bool(0), args.Error(1)
}

// MockTimersRepository is a mock implementation of the TimersRepository interface
type MockTimersRepository struct {
	mock.Mock
}

func (m *MockTimersRepository) GetTimersByOwner(ctx context.Context, owner string) ([]*models.Timer, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Timer), args.Error(1)
}

func (m *MockTimersRepository) LockTimersOwner(ctx context.Context, owner string) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockTimersRepository) CountTimersByOwner(ctx context.Context, owner string) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

func (m *MockTimersRepository) CreateTimer(ctx context.Context, timer *models.Timer) error {
	args := m.Called(ctx, timer)
	return args.Error(0)
}

func (m *MockTimersRepository) DeleteTimerByName(ctx context.Context, owner, name string) (bool, error) {
	args := m.Called(ctx, owner, name)
	return args.Bool(0), args.Error(1)
}
