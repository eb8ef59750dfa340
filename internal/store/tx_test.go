package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/domain"
)

func TestRunInTx(t *testing.T) {
	fnErr := errors.New("function failed")
	beginErr := errors.New("begin transaction failed")
	commitErr := errors.New("commit failed")
	rollbackErr := errors.New("rollback failed")

	tests := []struct {
		name     string
		expect   func(mock sqlmock.Sqlmock)
		fnErr    error
		wantIs   error
		contains []string
	}{
		{
			name: "commits on success",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fnErr:  fnErr,
			wantIs: fnErr,
		},
		{
			name: "begin fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(beginErr)
			},
			wantIs:   beginErr,
			contains: []string{"begin result transaction"},
		},
		{
			name: "commit fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(commitErr)
			},
			wantIs:   commitErr,
			contains: []string{"commit result transaction"},
		},
		{
			name: "rollback fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(rollbackErr)
			},
			fnErr:    fnErr,
			wantIs:   rollbackErr,
			contains: []string{"function failed", "rollback result transaction: rollback failed"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tc.expect(mock)

			err = runInTx(context.Background(), db, func(*sql.Tx) error {
				return tc.fnErr
			})

			if tc.wantIs == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantIs)
			}
			for _, s := range tc.contains {
				assert.Contains(t, err.Error(), s)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTxRollsBackOnPanic(t *testing.T) {
	for _, rollbackErr := range []error{nil, errors.New("rollback failed")} {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		assert.Panics(t, func() {
			_ = runInTx(context.Background(), db, func(*sql.Tx) error {
				panic("test panic")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	}
}

// recordingStore is a ResultStore that records which view was used.
type recordingStore struct {
	db     *sql.DB
	tx     *sql.Tx
	called int
}

func (s *recordingStore) Create(context.Context, *domain.StoredResult) error {
	s.called++
	return nil
}

func (s *recordingStore) GetByID(context.Context, uuid.UUID) (*domain.StoredResult, error) {
	return nil, ErrResultNotFound
}

func (s *recordingStore) ListByOwner(context.Context, string) ([]*domain.StoredResult, error) {
	return nil, nil
}

func (s *recordingStore) List(context.Context) ([]*domain.StoredResult, error) { return nil, nil }

func (s *recordingStore) Delete(context.Context, uuid.UUID) error { return nil }

func (s *recordingStore) WithTx(tx *sql.Tx) ResultStore { return &recordingStore{db: s.db, tx: tx} }

func (s *recordingStore) DB() *sql.DB { return s.db }

func TestInTx(t *testing.T) {
	t.Run("without a database runs directly", func(t *testing.T) {
		s := &recordingStore{}
		err := InTx(context.Background(), s, func(ctx context.Context, view ResultStore) error {
			assert.Same(t, s, view)
			return view.Create(ctx, nil)
		})
		require.NoError(t, err)
		assert.Equal(t, 1, s.called)
	})

	t.Run("with a database uses a transactional view", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		mock.ExpectBegin()
		mock.ExpectCommit()

		s := &recordingStore{db: db}
		err = InTx(context.Background(), s, func(ctx context.Context, view ResultStore) error {
			rs, ok := view.(*recordingStore)
			require.True(t, ok)
			assert.NotNil(t, rs.tx)
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
