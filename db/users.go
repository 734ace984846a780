package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "remindbot/db/tx"
	"remindbot/models"
)

type SQLUsersRepository struct {
	db     *sqlx.DB
	schema string
}

func NewSQLUsersRepository(db *sqlx.DB, schema string) *SQLUsersRepository {
	return &SQLUsersRepository{db: db, schema: schema}
}

// GetUserByExternalID reads a user with its effective preferences. NULL language and timezone
// columns are presented as the given defaults.
func (r *SQLUsersRepository) GetUserByExternalID(
	ctx context.Context,
	externalID string,
	defaultLanguage string,
	defaultTimezone string,
) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id, external_id, name, dm_channel,
			COALESCE(language, ?) AS language,
			COALESCE(timezone, ?) AS timezone,
			meridian_time, created_at, updated_at
		FROM %s.users
		WHERE external_id = ?`,
		r.schema)

	var user models.User
	err := db.GetContext(ctx, &user, db.Rebind(query), defaultLanguage, defaultTimezone, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by external id: %w", err)
	}

	return mo.Some(&user), nil
}

// CreateUserIfNotExists inserts the user unless a row with the same external id exists.
// Language and timezone are left NULL so that they follow the configured defaults until set.
func (r *SQLUsersRepository) CreateUserIfNotExists(ctx context.Context, user *models.User) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.users (id, external_id, name, dm_channel, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (external_id) DO NOTHING`,
		r.schema)

	result, err := db.ExecContext(ctx, db.Rebind(query), user.ID, user.ExternalID, user.Name, user.DMChannel)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *SQLUsersRepository) UpdateUserLanguage(ctx context.Context, externalID, language string) (bool, error) {
	return r.updateColumn(ctx, "language", externalID, language)
}

func (r *SQLUsersRepository) UpdateUserTimezone(ctx context.Context, externalID, timezone string) (bool, error) {
	return r.updateColumn(ctx, "timezone", externalID, timezone)
}

func (r *SQLUsersRepository) UpdateUserMeridian(ctx context.Context, externalID string, meridian bool) (bool, error) {
	return r.updateColumn(ctx, "meridian_time", externalID, meridian)
}

// updateColumn only receives column names from this file, never from callers
func (r *SQLUsersRepository) updateColumn(ctx context.Context, column, externalID string, value any) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.users
		SET %s = ?, updated_at = CURRENT_TIMESTAMP
		WHERE external_id = ?`,
		r.schema, column)

	result, err := db.ExecContext(ctx, db.Rebind(query), value, externalID)
	if err != nil {
		return false, fmt.Errorf("failed to update user %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
