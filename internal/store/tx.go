package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/uranai-api/internal/platform/logger"
)

// DBTX is the query surface the SQL stores need. Both *sql.DB and *sql.Tx
// satisfy it, which is what lets ResultStore.WithTx rebind a store.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InTx runs fn against a transactional view of s when s is backed by a
// database, and against s itself otherwise.
func InTx(ctx context.Context, s ResultStore, fn func(ctx context.Context, s ResultStore) error) error {
	db := s.DB()
	if db == nil {
		return fn(ctx, s)
	}
	return runInTx(ctx, db, func(tx *sql.Tx) error {
		return fn(ctx, s.WithTx(tx))
	})
}

// runInTx commits when fn succeeds. An error from fn rolls back and is
// returned, joined with the rollback failure if there is one. A panic rolls
// back and is raised again.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin result transaction", slog.String("error", err.Error()))
		return fmt.Errorf("begin result transaction: %w", err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback after panic failed", slog.String("error", rbErr.Error()))
		}
		// ALLOW-PANIC: re-raised once the transaction is closed
		panic(p)
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("result transaction rollback failed",
				slog.String("error", rbErr.Error()),
				slog.String("cause", err.Error()))
			return errors.Join(err, fmt.Errorf("rollback result transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit result transaction", slog.String("error", err.Error()))
		return fmt.Errorf("commit result transaction: %w", err)
	}
	return nil
}
