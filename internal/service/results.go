package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/events"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

// SaveResultInput is a request to persist a profile.
type SaveResultInput struct {
	Type    string
	Result  json.RawMessage
	OwnerID string
}

// ResultService stores and retrieves divination results.
type ResultService interface {
	// Save persists a profile and emits a result.saved event.
	Save(ctx context.Context, in SaveResultInput) (*domain.StoredResult, error)

	// Get returns a stored result or ErrResultNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.StoredResult, error)

	// ListByOwner returns an owner's results, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.StoredResult, error)

	// Delete removes a result and emits a result.deleted event.
	Delete(ctx context.Context, id uuid.UUID) error
}

type resultServiceImpl struct {
	store        store.ResultStore
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

var _ ResultService = (*resultServiceImpl)(nil)

// NewResultService creates a ResultService.
// It returns an error if any of the required dependencies are nil.
func NewResultService(
	resultStore store.ResultStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (ResultService, error) {
	if resultStore == nil {
		return nil, dependencyError("results", "resultStore")
	}
	if eventEmitter == nil {
		return nil, dependencyError("results", "eventEmitter")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &resultServiceImpl{
		store:        resultStore,
		eventEmitter: eventEmitter,
		logger:       logger.With(slog.String("component", "result_service")),
	}, nil
}

// Save implements ResultService.
func (s *resultServiceImpl) Save(ctx context.Context, in SaveResultInput) (*domain.StoredResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(in.Type) == "" {
		return nil, domain.NewValidationError("type", "is required", domain.ErrValidation)
	}
	systemType, err := domain.ParseSystemType(in.Type)
	if err != nil {
		return nil, domain.NewValidationError("type", "is not a supported system", domain.ErrUnsupportedSystem)
	}
	if isNullJSON(in.Result) {
		return nil, domain.NewValidationError("result", "is required", domain.ErrValidation)
	}

	result, err := domain.NewStoredResult(systemType, unwrapResponse(in.Result), in.OwnerID)
	if err != nil {
		return nil, domain.NewValidationError("result", "must be a JSON object", err)
	}

	if err := s.store.Create(ctx, result); err != nil {
		log.Error("failed to save result",
			slog.Any("error", err),
			slog.String("result_id", result.ID.String()),
			slog.String("type", result.Type.String()))
		return nil, NewServiceError("results", "save_result", "failed to save result", err)
	}

	log.Info("result saved",
		slog.String("result_id", result.ID.String()),
		slog.String("type", result.Type.String()))

	s.emit(ctx, events.TypeResultSaved, result)
	return result, nil
}

// Get implements ResultService.
func (s *resultServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.StoredResult, error) {
	result, err := s.store.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve result",
				slog.Any("error", err),
				slog.String("result_id", id.String()))
		}
		return nil, NewServiceError("results", "get_result", "failed to retrieve result", err)
	}
	return result, nil
}

// ListByOwner implements ResultService.
func (s *resultServiceImpl) ListByOwner(ctx context.Context, ownerID string) ([]*domain.StoredResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	results, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list results",
			slog.Any("error", err),
			slog.String("owner_id", ownerID))
		return nil, NewServiceError("results", "list_results", "failed to list results", err)
	}
	return results, nil
}

// Delete implements ResultService. The lookup and the delete run in one
// transaction so the emitted event describes the row that was removed.
func (s *resultServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deleted *domain.StoredResult
	err := store.InTx(ctx, s.store, func(ctx context.Context, txStore store.ResultStore) error {
		result, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txStore.Delete(ctx, id); err != nil {
			return err
		}
		deleted = result
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to delete result",
				slog.Any("error", err),
				slog.String("result_id", id.String()))
		}
		return NewServiceError("results", "delete_result", "failed to delete result", err)
	}

	log.Info("result deleted", slog.String("result_id", id.String()))
	s.emit(ctx, events.TypeResultDeleted, deleted)
	return nil
}

// emit publishes a lifecycle event. The store write has already happened,
// so a failed emit is logged rather than returned.
func (s *resultServiceImpl) emit(ctx context.Context, eventType string, result *domain.StoredResult) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewResultEvent(eventType, result)
	if err != nil {
		log.Error("failed to create result event",
			slog.Any("error", err),
			slog.String("event_type", eventType),
			slog.String("result_id", result.ID.String()))
		return
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit result event",
			slog.Any("error", err),
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("result_id", result.ID.String()))
	}
}

// unwrapResponse accepts a calculator response ({"success":..,"result":{..}})
// in place of the bare profile and returns the profile.
func unwrapResponse(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Success *bool           `json:"success"`
		Result  json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Success == nil {
		return raw
	}
	inner := bytes.TrimSpace(envelope.Result)
	if len(inner) == 0 || inner[0] != '{' {
		return raw
	}
	return inner
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
