package postgres_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/postgres"
	"github.com/phrazzld/uranai-api/internal/store"
)

var resultRowColumns = []string{"id", "type", "profile", "owner_id", "created_at"}

func newMockStore(t *testing.T) (*postgres.PostgresResultStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return postgres.NewPostgresResultStore(db, nil), mock
}

func sampleResult(t *testing.T) *domain.StoredResult {
	t.Helper()

	result, err := domain.NewStoredResult(
		domain.SystemNumerology,
		json.RawMessage(`{"name":"Taro","destinyNumber":3}`),
		"owner-1",
	)
	require.NoError(t, err)
	return result
}

func TestNewPostgresResultStore(t *testing.T) {
	t.Parallel()

	t.Run("nil db panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			postgres.NewPostgresResultStore(nil, nil)
		})
	})

	t.Run("pool is exposed through DB", func(t *testing.T) {
		t.Parallel()
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		s := postgres.NewPostgresResultStore(db, nil)
		assert.Same(t, db, s.DB())
	})
}

func TestPostgresResultStore_WithTx(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	s := postgres.NewPostgresResultStore(db, nil)
	txStore := s.WithTx(tx)

	require.NotNil(t, txStore)
	assert.NotSame(t, s, txStore)
	assert.Same(t, db, txStore.DB())
}

func TestPostgresResultStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("inserts a valid result", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		result := sampleResult(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO results")).
			WithArgs(result.ID, "numerology", []byte(result.Profile), "owner-1", result.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), result))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an invalid result without touching the database", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		result := sampleResult(t)
		result.Profile = json.RawMessage(`[1,2]`)

		err := s.Create(context.Background(), result)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrResultProfileInvalid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps duplicate ids", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		result := sampleResult(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO results")).
			WillReturnError(newPgError("23505"))

		err := s.Create(context.Background(), result)
		assert.ErrorIs(t, err, store.ErrResultExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("wraps other failures in a store error", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		result := sampleResult(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO results")).
			WillReturnError(newPgError("23514"))

		err := s.Create(context.Background(), result)
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "create", storeErr.Operation)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresResultStore_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored result", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		id := uuid.New()
		created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("FROM results WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(resultRowColumns).
				AddRow(id.String(), "mbti", []byte(`{"personalityType":"INTJ"}`), "", created))

		got, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, domain.SystemMBTI, got.Type)
		assert.JSONEq(t, `{"personalityType":"INTJ"}`, string(got.Profile))
		assert.Empty(t, got.OwnerID)
		assert.True(t, created.Equal(got.CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM results WHERE id = $1")).
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrResultNotFound)
	})

	t.Run("wraps query failures", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM results WHERE id = $1")).
			WillReturnError(errors.New("connection refused"))

		_, err := s.GetByID(context.Background(), uuid.New())
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.False(t, store.IsNotFoundError(err))
	})
}

func TestPostgresResultStore_Lists(t *testing.T) {
	t.Parallel()

	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("lists by owner newest first", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		first, second := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_id = $1 ORDER BY created_at DESC")).
			WithArgs("owner-1").
			WillReturnRows(sqlmock.NewRows(resultRowColumns).
				AddRow(first.String(), "sanmei", []byte(`{}`), "owner-1", newer).
				AddRow(second.String(), "numerology", []byte(`{}`), "owner-1", older))

		got, err := s.ListByOwner(context.Background(), "owner-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first, got[0].ID)
		assert.Equal(t, second, got[1].ID)
	})

	t.Run("returns an empty slice for no rows", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
			WillReturnRows(sqlmock.NewRows(resultRowColumns))

		got, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("reports row errors", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
			WillReturnRows(sqlmock.NewRows(resultRowColumns).
				AddRow(uuid.NewString(), "mbti", []byte(`{}`), "", newer).
				RowError(0, errors.New("stream broken")))

		_, err := s.List(context.Background())
		assert.Error(t, err)
	})
}

func TestPostgresResultStore_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deletes an existing result", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		id := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM results WHERE id = $1")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports missing results", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM results WHERE id = $1")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrResultNotFound)
	})
}
