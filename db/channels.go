package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "remindbot/db/tx"
	"remindbot/models"
)

type SQLChannelsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for channels table
var channelsColumns = []string{
	"id",
	"external_id",
	"name",
	"guild_id",
	"blacklisted",
	"paused",
	"paused_until",
	"webhook_id",
	"webhook_token",
	"created_at",
	"updated_at",
}

func NewSQLChannelsRepository(db *sqlx.DB, schema string) *SQLChannelsRepository {
	return &SQLChannelsRepository{db: db, schema: schema}
}

func (r *SQLChannelsRepository) GetChannelByExternalID(
	ctx context.Context,
	externalID string,
) (mo.Option[*models.Channel], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.channels
		WHERE external_id = ?`,
		strings.Join(channelsColumns, ", "), r.schema)

	var channel models.Channel
	err := db.GetContext(ctx, &channel, db.Rebind(query), externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Channel](), nil
		}
		return mo.None[*models.Channel](), fmt.Errorf("failed to get channel by external id: %w", err)
	}

	return mo.Some(&channel), nil
}

// CreateChannelIfNotExists inserts the channel unless a row with the same external id exists.
// The guild reference is resolved from guildExternalID and left NULL when that guild has no
// row yet (or for direct message channels).
func (r *SQLChannelsRepository) CreateChannelIfNotExists(
	ctx context.Context,
	channel *models.Channel,
	guildExternalID string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.channels (id, external_id, name, guild_id, created_at, updated_at)
		VALUES (?, ?, ?, (SELECT id FROM %s.guilds WHERE external_id = ?), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (external_id) DO NOTHING`,
		r.schema, r.schema)

	result, err := db.ExecContext(ctx, db.Rebind(query), channel.ID, channel.ExternalID, channel.Name, guildExternalID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create channel: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *SQLChannelsRepository) UpdateChannelBlacklisted(
	ctx context.Context,
	externalID string,
	blacklisted bool,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.channels
		SET blacklisted = ?, updated_at = CURRENT_TIMESTAMP
		WHERE external_id = ?`,
		r.schema)

	result, err := db.ExecContext(ctx, db.Rebind(query), blacklisted, externalID)
	if err != nil {
		return false, fmt.Errorf("failed to update channel blacklist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *SQLChannelsRepository) UpdateChannelPause(
	ctx context.Context,
	externalID string,
	paused bool,
	pausedUntil *time.Time,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	if pausedUntil != nil {
		utc := pausedUntil.UTC()
		pausedUntil = &utc
	}

	query := fmt.Sprintf(`
		UPDATE %s.channels
		SET paused = ?, paused_until = ?, updated_at = CURRENT_TIMESTAMP
		WHERE external_id = ?`,
		r.schema)

	result, err := db.ExecContext(ctx, db.Rebind(query), paused, pausedUntil, externalID)
	if err != nil {
		return false, fmt.Errorf("failed to update channel pause: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
