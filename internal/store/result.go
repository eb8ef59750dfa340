package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
)

// ResultStore defines the interface for stored result persistence.
// Results are written once and never updated.
type ResultStore interface {
	// Create saves a new result. It validates the result first and returns
	// ErrInvalidEntity wrapping the validation error when it is malformed,
	// or ErrResultExists when the ID is taken.
	Create(ctx context.Context, result *domain.StoredResult) error

	// GetByID retrieves a result by its unique ID.
	// Returns ErrResultNotFound if the result does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredResult, error)

	// ListByOwner returns the owner's results, newest first.
	// Returns an empty slice if the owner has none.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.StoredResult, error)

	// List returns every stored result, newest first.
	List(ctx context.Context) ([]*domain.StoredResult, error)

	// Delete removes a result.
	// Returns ErrResultNotFound if the result does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ResultStore bound to tx. Stores that are not backed
	// by a database return themselves.
	WithTx(tx *sql.Tx) ResultStore

	// DB returns the underlying connection, or nil when the store is not
	// backed by a database.
	DB() *sql.DB
}
