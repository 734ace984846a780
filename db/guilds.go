package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "remindbot/db/tx"
	"remindbot/models"
)

type SQLGuildsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for guilds table
var guildsColumns = []string{
	"id",
	"external_id",
	"name",
	"prefix",
	"created_at",
	"updated_at",
}

func NewSQLGuildsRepository(db *sqlx.DB, schema string) *SQLGuildsRepository {
	return &SQLGuildsRepository{db: db, schema: schema}
}

func (r *SQLGuildsRepository) GetGuildByExternalID(
	ctx context.Context,
	externalID string,
) (mo.Option[*models.Guild], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.guilds
		WHERE external_id = ?`,
		strings.Join(guildsColumns, ", "), r.schema)

	var guild models.Guild
	err := db.GetContext(ctx, &guild, db.Rebind(query), externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Guild](), nil
		}
		return mo.None[*models.Guild](), fmt.Errorf("failed to get guild by external id: %w", err)
	}

	return mo.Some(&guild), nil
}

// CreateGuildIfNotExists inserts the guild unless a row with the same external id exists.
// It reports whether this call performed the insert.
func (r *SQLGuildsRepository) CreateGuildIfNotExists(ctx context.Context, guild *models.Guild) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.guilds (id, external_id, name, prefix, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (external_id) DO NOTHING`,
		r.schema)

	result, err := db.ExecContext(ctx, db.Rebind(query), guild.ID, guild.ExternalID, guild.Name, guild.Prefix)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create guild: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *SQLGuildsRepository) UpdateGuildPrefix(ctx context.Context, externalID, prefix string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.guilds
		SET prefix = ?, updated_at = CURRENT_TIMESTAMP
		WHERE external_id = ?`,
		r.schema)

	result, err := db.ExecContext(ctx, db.Rebind(query), prefix, externalID)
	if err != nil {
		return false, fmt.Errorf("failed to update guild prefix: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
