package txmanager

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"remindbot/core/log"
	dbtx "remindbot/db/tx"
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	db *sqlx.DB
}

func NewTransactionManager(db *sqlx.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction executes fn within a database transaction carried by the context.
// Nested calls join the outer transaction.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := dbtx.TransactionFromContext(ctx); ok {
		log.Debug("📋 Already in transaction, executing function directly")
		return fn(ctx)
	}

	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("❌ Transaction panic detected, rolling back", "panic", r)
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error("❌ Failed to rollback after panic", "error", rollbackErr)
			}
			panic(r)
		}
	}()

	txCtx := dbtx.WithTransaction(ctx, tx)

	if err := fn(txCtx); err != nil {
		log.Debug("📋 Transaction function returned error, rolling back", "error", err)
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
