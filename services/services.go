package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"remindbot/models"
)

// GuildsRepository persists per-guild settings
type GuildsRepository interface {
	GetGuildByExternalID(ctx context.Context, externalID string) (mo.Option[*models.Guild], error)
	CreateGuildIfNotExists(ctx context.Context, guild *models.Guild) (bool, error)
	UpdateGuildPrefix(ctx context.Context, externalID, prefix string) (bool, error)
}

// ChannelsRepository persists per-channel settings
type ChannelsRepository interface {
	GetChannelByExternalID(ctx context.Context, externalID string) (mo.Option[*models.Channel], error)
	CreateChannelIfNotExists(ctx context.Context, channel *models.Channel, guildExternalID string) (bool, error)
	UpdateChannelBlacklisted(ctx context.Context, externalID string, blacklisted bool) (bool, error)
	UpdateChannelPause(ctx context.Context, externalID string, paused bool, pausedUntil *time.Time) (bool, error)
}

// UsersRepository persists users and their display preferences
type UsersRepository interface {
	GetUserByExternalID(
		ctx context.Context,
		externalID, defaultLanguage, defaultTimezone string,
	) (mo.Option[*models.User], error)
	CreateUserIfNotExists(ctx context.Context, user *models.User) (bool, error)
	UpdateUserLanguage(ctx context.Context, externalID, language string) (bool, error)
	UpdateUserTimezone(ctx context.Context, externalID, timezone string) (bool, error)
	UpdateUserMeridian(ctx context.Context, externalID string, meridian bool) (bool, error)
}

// TimersRepository persists stopwatch timers
type TimersRepository interface {
	GetTimersByOwner(ctx context.Context, owner string) ([]*models.Timer, error)
	LockTimersOwner(ctx context.Context, owner string) error
	CountTimersByOwner(ctx context.Context, owner string) (int, error)
	CreateTimer(ctx context.Context, timer *models.Timer) error
	DeleteTimerByName(ctx context.Context, owner, name string) (bool, error)
}

// PrefixesService resolves and updates the command prefix of a guild
type PrefixesService interface {
	Resolve(ctx context.Context, guildID string) (string, error)
	SetPrefix(ctx context.Context, guildID, guildName, prefix string) error
	DefaultPrefix() string
}

// BlacklistService toggles whether commands are accepted in a channel
type BlacklistService interface {
	SetBlacklisted(ctx context.Context, channel models.ChannelRef, blacklisted bool) error
}

// IdentityService finds or creates the records an inbound message acts on and mutates
// their preferences
type IdentityService interface {
	LoadUser(ctx context.Context, author models.Author) (*models.User, error)
	LoadChannel(ctx context.Context, channel models.ChannelRef) (*models.Channel, error)
	SetTimezone(ctx context.Context, userID, timezone string) error
	SetLanguage(ctx context.Context, userID, language string) error
	SetMeridian(ctx context.Context, userID string, meridian bool) error
	SetPaused(ctx context.Context, channel models.ChannelRef, paused bool, until *time.Time) error
}

// TimersService manages per-owner stopwatch timers
type TimersService interface {
	StartTimer(ctx context.Context, owner, name string) (*models.Timer, error)
	ListTimers(ctx context.Context, owner string) ([]*models.Timer, error)
	DeleteTimer(ctx context.Context, owner, name string) (bool, error)
}

// TransactionManager handles database transactions via context
type TransactionManager interface {
	// Execute function within a transaction (recommended approach)
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
