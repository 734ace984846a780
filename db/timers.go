package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbtx "remindbot/db/tx"
	"remindbot/models"
)

type SQLTimersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for timers table
var timersColumns = []string{
	"id",
	"name",
	"start_time",
	"owner",
}

func NewSQLTimersRepository(db *sqlx.DB, schema string) *SQLTimersRepository {
	return &SQLTimersRepository{db: db, schema: schema}
}

func (r *SQLTimersRepository) GetTimersByOwner(ctx context.Context, owner string) ([]*models.Timer, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.timers
		WHERE owner = ?
		ORDER BY start_time ASC, id ASC`,
		strings.Join(timersColumns, ", "), r.schema)

	timers := []*models.Timer{}
	if err := db.SelectContext(ctx, &timers, db.Rebind(query), owner); err != nil {
		return nil, fmt.Errorf("failed to get timers by owner: %w", err)
	}

	return timers, nil
}

// LockTimersOwner serializes timer writes of one owner until the surrounding transaction ends.
// sqlite already admits a single writer, so only Postgres takes a lock.
func (r *SQLTimersRepository) LockTimersOwner(ctx context.Context, owner string) error {
	if r.db.DriverName() != DriverPostgres {
		return nil
	}

	db := dbtx.GetTransactional(ctx, r.db)

	if _, err := db.ExecContext(ctx, db.Rebind(`SELECT pg_advisory_xact_lock(hashtext(?))`), "timers:"+owner); err != nil {
		return fmt.Errorf("failed to lock timers owner: %w", err)
	}

	return nil
}

func (r *SQLTimersRepository) CountTimersByOwner(ctx context.Context, owner string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.timers WHERE owner = ?`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, db.Rebind(query), owner); err != nil {
		return 0, fmt.Errorf("failed to count timers: %w", err)
	}

	return count, nil
}

func (r *SQLTimersRepository) CreateTimer(ctx context.Context, timer *models.Timer) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.timers (id, name, start_time, owner)
		VALUES (?, ?, ?, ?)`,
		r.schema)

	_, err := db.ExecContext(ctx, db.Rebind(query), timer.ID, timer.Name, timer.StartTime.UTC(), timer.Owner)
	if err != nil {
		return fmt.Errorf("failed to create timer: %w", err)
	}

	return nil
}

// DeleteTimerByName removes every timer of the owner with that name and reports whether any existed
func (r *SQLTimersRepository) DeleteTimerByName(ctx context.Context, owner, name string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.timers WHERE owner = ? AND name = ?`, r.schema)

	result, err := db.ExecContext(ctx, db.Rebind(query), owner, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete timer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
