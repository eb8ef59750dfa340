// Package memory provides an in-process implementation of store.ResultStore.
// It is used when no database is configured and by service tests.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

// ResultStore keeps results in a map guarded by a RWMutex.
// Stored values are copied on the way in and out.
type ResultStore struct {
	mu      sync.RWMutex
	results map[uuid.UUID]domain.StoredResult
	logger  *slog.Logger
}

// NewResultStore creates an empty store. If logger is nil, a default logger will be used.
func NewResultStore(logger *slog.Logger) *ResultStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultStore{
		results: make(map[uuid.UUID]domain.StoredResult),
		logger:  logger.With(slog.String("component", "memory_result_store")),
	}
}

var _ store.ResultStore = (*ResultStore)(nil)

// Create implements store.ResultStore.Create.
func (s *ResultStore) Create(ctx context.Context, result *domain.StoredResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.ID]; exists {
		return store.ErrResultExists
	}
	s.results[result.ID] = clone(result)

	log.Debug("result stored",
		slog.String("result_id", result.ID.String()),
		slog.Int("count", len(s.results)))
	return nil
}

// GetByID implements store.ResultStore.GetByID.
func (s *ResultStore) GetByID(_ context.Context, id uuid.UUID) (*domain.StoredResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[id]
	if !ok {
		return nil, store.ErrResultNotFound
	}
	out := clone(&result)
	return &out, nil
}

// ListByOwner implements store.ResultStore.ListByOwner.
func (s *ResultStore) ListByOwner(_ context.Context, ownerID string) ([]*domain.StoredResult, error) {
	return s.filter(func(r *domain.StoredResult) bool { return r.OwnerID == ownerID }), nil
}

// List implements store.ResultStore.List.
func (s *ResultStore) List(_ context.Context) ([]*domain.StoredResult, error) {
	return s.filter(func(*domain.StoredResult) bool { return true }), nil
}

// Delete implements store.ResultStore.Delete.
func (s *ResultStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[id]; !ok {
		return store.ErrResultNotFound
	}
	delete(s.results, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("result deleted",
		slog.String("result_id", id.String()))
	return nil
}

// WithTx returns the store itself; there is no transaction to bind.
func (s *ResultStore) WithTx(*sql.Tx) store.ResultStore {
	return s
}

// DB returns nil.
func (s *ResultStore) DB() *sql.DB {
	return nil
}

// filter returns matching results ordered newest first, ties broken by ID.
func (s *ResultStore) filter(keep func(*domain.StoredResult) bool) []*domain.StoredResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.StoredResult{}
	for _, result := range s.results {
		if !keep(&result) {
			continue
		}
		c := clone(&result)
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func clone(r *domain.StoredResult) domain.StoredResult {
	c := *r
	c.Profile = append([]byte(nil), r.Profile...)
	return c
}
