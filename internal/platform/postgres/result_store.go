package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

const resultColumns = `id, type, profile, COALESCE(owner_id, ''), created_at`

// PostgresResultStore implements store.ResultStore
// using a PostgreSQL database as the storage backend.
type PostgresResultStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewPostgresResultStore creates a new PostgreSQL implementation of the ResultStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresResultStore(db store.DBTX, logger *slog.Logger) *PostgresResultStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &PostgresResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "result_store")),
	}
	if sqlDB, ok := db.(*sql.DB); ok {
		s.sqlDB = sqlDB
	}
	return s
}

// Ensure PostgresResultStore implements store.ResultStore interface
var _ store.ResultStore = (*PostgresResultStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresResultStore) WithTx(tx *sql.Tx) store.ResultStore {
	return &PostgresResultStore{
		db:     tx,
		sqlDB:  s.sqlDB,
		logger: s.logger,
	}
}

// DB returns the connection pool the store was created with.
func (s *PostgresResultStore) DB() *sql.DB {
	return s.sqlDB
}

// Create implements store.ResultStore.Create.
func (s *PostgresResultStore) Create(ctx context.Context, result *domain.StoredResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		log.Warn("result validation failed during create",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO results (id, type, profile, owner_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		result.ID,
		string(result.Type),
		[]byte(result.Profile),
		result.OwnerID,
		result.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate result id",
				slog.String("result_id", result.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrResultExists, err)
		}
		log.Error("failed to create result",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return store.NewStoreError("result", "create", "failed to insert result", MapError(err))
	}

	log.Info("result created successfully",
		slog.String("result_id", result.ID.String()),
		slog.String("type", string(result.Type)))
	return nil
}

// GetByID implements store.ResultStore.GetByID.
func (s *PostgresResultStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving result by ID", slog.String("result_id", id.String()))

	query := `SELECT ` + resultColumns + ` FROM results WHERE id = $1`

	result, err := scanResult(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("result not found", slog.String("result_id", id.String()))
			return nil, store.ErrResultNotFound
		}
		log.Error("failed to get result by ID",
			slog.String("error", err.Error()),
			slog.String("result_id", id.String()))
		return nil, store.NewStoreError("result", "get", "failed to query result", MapError(err))
	}

	return result, nil
}

// ListByOwner implements store.ResultStore.ListByOwner.
func (s *PostgresResultStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.StoredResult, error) {
	query := `SELECT ` + resultColumns + ` FROM results WHERE owner_id = $1 ORDER BY created_at DESC, id`
	return s.list(ctx, "list_by_owner", query, ownerID)
}

// List implements store.ResultStore.List.
func (s *PostgresResultStore) List(ctx context.Context) ([]*domain.StoredResult, error) {
	query := `SELECT ` + resultColumns + ` FROM results ORDER BY created_at DESC, id`
	return s.list(ctx, "list", query)
}

func (s *PostgresResultStore) list(ctx context.Context, op, query string, args ...any) ([]*domain.StoredResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query results",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return nil, store.NewStoreError("result", op, "failed to query results", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	results := []*domain.StoredResult{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			log.Error("failed to scan result row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("result", op, "failed to scan result", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("result", op, "failed to iterate results", err)
	}

	log.Debug("listed results",
		slog.String("operation", op),
		slog.Int("count", len(results)))
	return results, nil
}

// Delete implements store.ResultStore.Delete.
func (s *PostgresResultStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete result",
			slog.String("error", err.Error()),
			slog.String("result_id", id.String()))
		return store.NewStoreError("result", "delete", "failed to delete result", MapError(err))
	}

	if err := CheckRowsAffected(res, store.ErrResultNotFound); err != nil {
		if errors.Is(err, store.ErrResultNotFound) {
			log.Debug("result not found for delete", slog.String("result_id", id.String()))
			return err
		}
		return store.NewStoreError("result", "delete", "failed to confirm delete", err)
	}

	log.Info("result deleted successfully", slog.String("result_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*domain.StoredResult, error) {
	var (
		result  domain.StoredResult
		kind    string
		profile []byte
	)
	if err := row.Scan(&result.ID, &kind, &profile, &result.OwnerID, &result.CreatedAt); err != nil {
		return nil, err
	}
	result.Type = domain.SystemType(kind)
	result.Profile = profile
	result.CreatedAt = result.CreatedAt.UTC()
	return &result, nil
}
