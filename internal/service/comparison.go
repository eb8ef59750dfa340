package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/compare"
	"github.com/phrazzld/uranai-api/internal/observability"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

// maxConcurrentLoads bounds the parallel store reads of one comparison.
const maxConcurrentLoads = 8

// ResultNotFoundError names the result ID that a comparison could not load.
type ResultNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *ResultNotFoundError) Error() string {
	return fmt.Sprintf("result %s not found", e.ID)
}

// Unwrap lets errors.Is match ErrResultNotFound.
func (e *ResultNotFoundError) Unwrap() error {
	return ErrResultNotFound
}

// ComparisonService compares stored results of one system.
type ComparisonService interface {
	// Compare loads the results by ID and runs the comparison engine.
	Compare(ctx context.Context, resultIDs []string) (compare.Result, error)

	// CompareResults runs the comparison engine on already loaded results.
	CompareResults(ctx context.Context, results []domain.StoredResult) (compare.Result, error)
}

type comparisonServiceImpl struct {
	store  store.ResultStore
	engine *compare.Engine
	logger *slog.Logger
}

var _ ComparisonService = (*comparisonServiceImpl)(nil)

// NewComparisonService creates a ComparisonService.
// It returns an error if the store or engine is nil.
func NewComparisonService(
	resultStore store.ResultStore,
	engine *compare.Engine,
	logger *slog.Logger,
) (ComparisonService, error) {
	if resultStore == nil {
		return nil, dependencyError("comparison", "resultStore")
	}
	if engine == nil {
		return nil, dependencyError("comparison", "engine")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &comparisonServiceImpl{
		store:  resultStore,
		engine: engine,
		logger: logger.With(slog.String("component", "comparison_service")),
	}, nil
}

// Compare implements ComparisonService.
func (s *comparisonServiceImpl) Compare(ctx context.Context, resultIDs []string) (compare.Result, error) {
	ids, err := parseResultIDs(resultIDs)
	if err != nil {
		return compare.Result{}, err
	}

	results, err := s.load(ctx, ids)
	if err != nil {
		return compare.Result{}, err
	}

	return s.CompareResults(ctx, results)
}

// CompareResults implements ComparisonService.
func (s *comparisonServiceImpl) CompareResults(ctx context.Context, results []domain.StoredResult) (compare.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(results) < compare.MinResults {
		return compare.Result{}, domain.NewValidationError("resultIds",
			fmt.Sprintf("at least %d results are required", compare.MinResults),
			domain.ErrInsufficientResults)
	}

	system := results[0].Type
	comparison, err := s.engine.Compare(results)
	observability.RecordComparison(system.String(), err)
	if err != nil {
		if isInputError(err) {
			log.Debug("comparison rejected", slog.String("error", err.Error()))
			return compare.Result{}, err
		}
		log.Error("comparison failed",
			slog.Any("error", err),
			slog.String("type", system.String()))
		return compare.Result{}, NewServiceError("comparison", "compare", "comparison failed", err)
	}

	log.Debug("comparison completed",
		slog.String("type", system.String()),
		slog.Int("results", len(results)))
	return comparison, nil
}

// load fetches every result concurrently and keeps the request order.
func (s *comparisonServiceImpl) load(ctx context.Context, ids []uuid.UUID) ([]domain.StoredResult, error) {
	results := make([]domain.StoredResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, id := range ids {
		g.Go(func() error {
			r, err := s.store.GetByID(gctx, id)
			if err != nil {
				if store.IsNotFoundError(err) {
					return &ResultNotFoundError{ID: id.String()}
				}
				return NewServiceError("comparison", "load_result", "failed to load result "+id.String(), err)
			}
			results[i] = *r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var notFound *ResultNotFoundError
		if !errors.As(err, &notFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load results for comparison",
				slog.Any("error", err))
		}
		return nil, err
	}
	return results, nil
}

// parseResultIDs requires at least compare.MinResults well-formed UUIDs.
func parseResultIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) < compare.MinResults {
		return nil, domain.NewValidationError("resultIds",
			fmt.Sprintf("at least %d result IDs are required", compare.MinResults),
			domain.ErrInsufficientResults)
	}

	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, domain.NewValidationError("resultIds",
				fmt.Sprintf("contains malformed ID %q", s), domain.ErrInvalidID)
		}
		ids[i] = id
	}
	return ids, nil
}
