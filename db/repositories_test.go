package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/core"
	dbtx "remindbot/db/tx"
	"remindbot/models"
)

const (
	testSchema          = "main"
	testDefaultLanguage = "en"
	testDefaultTimezone = "UTC"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := NewConnection(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, Migrate(context.Background(), conn, testSchema))
	return conn
}

func externalID() string {
	return uuid.New().String()[:18]
}

func TestMigrate_IsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, Migrate(context.Background(), conn, testSchema))
}

func TestGuildsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLGuildsRepository(newTestDB(t), testSchema)

	t.Run("missing guild returns none", func(t *testing.T) {
		guild, err := repo.GetGuildByExternalID(ctx, externalID())
		require.NoError(t, err)
		assert.True(t, guild.IsAbsent())
	})

	t.Run("create is idempotent on external id", func(t *testing.T) {
		id := externalID()
		inserted, err := repo.CreateGuildIfNotExists(ctx, &models.Guild{
			ID: core.NewID("g"), ExternalID: id, Prefix: "$",
		})
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = repo.CreateGuildIfNotExists(ctx, &models.Guild{
			ID: core.NewID("g"), ExternalID: id, Prefix: "!",
		})
		require.NoError(t, err)
		assert.False(t, inserted)

		guild, err := repo.GetGuildByExternalID(ctx, id)
		require.NoError(t, err)
		require.True(t, guild.IsPresent())
		assert.Equal(t, "$", guild.MustGet().Prefix)
	})

	t.Run("update prefix", func(t *testing.T) {
		id := externalID()
		_, err := repo.CreateGuildIfNotExists(ctx, &models.Guild{ID: core.NewID("g"), ExternalID: id, Prefix: "$"})
		require.NoError(t, err)

		updated, err := repo.UpdateGuildPrefix(ctx, id, "!")
		require.NoError(t, err)
		assert.True(t, updated)

		guild, err := repo.GetGuildByExternalID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "!", guild.MustGet().Prefix)

		updated, err = repo.UpdateGuildPrefix(ctx, externalID(), "!")
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestChannelsRepository(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	guilds := NewSQLGuildsRepository(conn, testSchema)
	repo := NewSQLChannelsRepository(conn, testSchema)

	t.Run("channel links to existing guild", func(t *testing.T) {
		guildExternalID := externalID()
		guild := &models.Guild{ID: core.NewID("g"), ExternalID: guildExternalID, Prefix: "$"}
		_, err := guilds.CreateGuildIfNotExists(ctx, guild)
		require.NoError(t, err)

		channelID := externalID()
		inserted, err := repo.CreateChannelIfNotExists(ctx, &models.Channel{
			ID: core.NewID("ch"), ExternalID: channelID,
		}, guildExternalID)
		require.NoError(t, err)
		assert.True(t, inserted)

		channel, err := repo.GetChannelByExternalID(ctx, channelID)
		require.NoError(t, err)
		require.True(t, channel.IsPresent())
		require.NotNil(t, channel.MustGet().GuildID)
		assert.Equal(t, guild.ID, *channel.MustGet().GuildID)
		assert.False(t, channel.MustGet().Blacklisted)
	})

	t.Run("channel without guild row has no guild reference", func(t *testing.T) {
		channelID := externalID()
		_, err := repo.CreateChannelIfNotExists(ctx, &models.Channel{ID: core.NewID("ch"), ExternalID: channelID}, "")
		require.NoError(t, err)

		channel, err := repo.GetChannelByExternalID(ctx, channelID)
		require.NoError(t, err)
		assert.Nil(t, channel.MustGet().GuildID)
	})

	t.Run("duplicate create is ignored", func(t *testing.T) {
		channelID := externalID()
		first, err := repo.CreateChannelIfNotExists(ctx, &models.Channel{ID: core.NewID("ch"), ExternalID: channelID}, "")
		require.NoError(t, err)
		second, err := repo.CreateChannelIfNotExists(ctx, &models.Channel{ID: core.NewID("ch"), ExternalID: channelID}, "")
		require.NoError(t, err)
		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("blacklist and pause updates", func(t *testing.T) {
		channelID := externalID()
		_, err := repo.CreateChannelIfNotExists(ctx, &models.Channel{ID: core.NewID("ch"), ExternalID: channelID}, "")
		require.NoError(t, err)

		updated, err := repo.UpdateChannelBlacklisted(ctx, channelID, true)
		require.NoError(t, err)
		assert.True(t, updated)

		until := time.Date(2030, time.March, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
		updated, err = repo.UpdateChannelPause(ctx, channelID, true, &until)
		require.NoError(t, err)
		assert.True(t, updated)

		channel, err := repo.GetChannelByExternalID(ctx, channelID)
		require.NoError(t, err)
		assert.True(t, channel.MustGet().Blacklisted)
		assert.True(t, channel.MustGet().Paused)
		require.NotNil(t, channel.MustGet().PausedUntil)
		assert.True(t, until.Equal(*channel.MustGet().PausedUntil))
	})
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLUsersRepository(newTestDB(t), testSchema)

	createUser := func(t *testing.T) string {
		id := externalID()
		inserted, err := repo.CreateUserIfNotExists(ctx, &models.User{
			ID:         core.NewID("u"),
			ExternalID: id,
			Name:       "tester",
			DMChannel:  core.NewID("ch"),
		})
		require.NoError(t, err)
		require.True(t, inserted)
		return id
	}

	t.Run("unset preferences read as defaults", func(t *testing.T) {
		id := createUser(t)

		user, err := repo.GetUserByExternalID(ctx, id, testDefaultLanguage, testDefaultTimezone)
		require.NoError(t, err)
		require.True(t, user.IsPresent())
		assert.Equal(t, testDefaultLanguage, user.MustGet().Language)
		assert.Equal(t, testDefaultTimezone, user.MustGet().Timezone)
		assert.False(t, user.MustGet().MeridianTime)
	})

	t.Run("stored preferences override defaults", func(t *testing.T) {
		id := createUser(t)

		_, err := repo.UpdateUserLanguage(ctx, id, "de")
		require.NoError(t, err)
		_, err = repo.UpdateUserTimezone(ctx, id, "Europe/London")
		require.NoError(t, err)
		_, err = repo.UpdateUserMeridian(ctx, id, true)
		require.NoError(t, err)

		user, err := repo.GetUserByExternalID(ctx, id, testDefaultLanguage, testDefaultTimezone)
		require.NoError(t, err)
		assert.Equal(t, "de", user.MustGet().Language)
		assert.Equal(t, "Europe/London", user.MustGet().Timezone)
		assert.True(t, user.MustGet().MeridianTime)
	})

	t.Run("duplicate external id is ignored", func(t *testing.T) {
		id := createUser(t)
		inserted, err := repo.CreateUserIfNotExists(ctx, &models.User{
			ID: core.NewID("u"), ExternalID: id, Name: "other", DMChannel: core.NewID("ch"),
		})
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("missing user returns none", func(t *testing.T) {
		user, err := repo.GetUserByExternalID(ctx, externalID(), testDefaultLanguage, testDefaultTimezone)
		require.NoError(t, err)
		assert.True(t, user.IsAbsent())
	})
}

func TestTimersRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLTimersRepository(newTestDB(t), testSchema)
	owner := externalID()
	start := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateTimer(ctx, &models.Timer{ID: core.NewID("tm"), Name: "b", StartTime: start.Add(time.Minute), Owner: owner}))
	require.NoError(t, repo.CreateTimer(ctx, &models.Timer{ID: core.NewID("tm"), Name: "a", StartTime: start, Owner: owner}))
	require.NoError(t, repo.CreateTimer(ctx, &models.Timer{ID: core.NewID("tm"), Name: "a", StartTime: start, Owner: externalID()}))

	count, err := repo.CountTimersByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	timers, err := repo.GetTimersByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, timers, 2)
	assert.Equal(t, "a", timers[0].Name)
	assert.True(t, start.Equal(timers[0].StartTime))

	deleted, err := repo.DeleteTimerByName(ctx, owner, "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteTimerByName(ctx, owner, "a")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepositories_UseTransactionFromContext(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewSQLGuildsRepository(conn, testSchema)
	id := externalID()

	tx, err := conn.BeginTxx(ctx, nil)
	require.NoError(t, err)
	txCtx := dbtx.WithTransaction(ctx, tx)

	_, err = repo.CreateGuildIfNotExists(txCtx, &models.Guild{ID: core.NewID("g"), ExternalID: id, Prefix: "$"})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	guild, err := repo.GetGuildByExternalID(ctx, id)
	require.NoError(t, err)
	assert.True(t, guild.IsAbsent())
}
