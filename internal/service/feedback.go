package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain/feedback"
	"github.com/phrazzld/uranai-api/internal/generation"
	"github.com/phrazzld/uranai-api/internal/observability"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/redact"
	"github.com/phrazzld/uranai-api/internal/store"
)

// FeedbackService produces AI coaching feedback for stored results.
type FeedbackService interface {
	// Generate returns feedback for the result. Generation failures yield
	// fallback feedback, not an error; only a missing result or a store
	// failure is returned as an error.
	Generate(ctx context.Context, resultID uuid.UUID) (feedback.Feedback, error)
}

type feedbackServiceImpl struct {
	store     store.ResultStore
	generator generation.Generator
	now       func() time.Time
	logger    *slog.Logger
}

var _ FeedbackService = (*feedbackServiceImpl)(nil)

// NewFeedbackService creates a FeedbackService. generator may be nil, in
// which case every request receives fallback feedback.
func NewFeedbackService(
	resultStore store.ResultStore,
	generator generation.Generator,
	now func() time.Time,
	logger *slog.Logger,
) (FeedbackService, error) {
	if resultStore == nil {
		return nil, dependencyError("feedback", "resultStore")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &feedbackServiceImpl{
		store:     resultStore,
		generator: generator,
		now:       now,
		logger:    logger.With(slog.String("component", "feedback_service")),
	}, nil
}

// Generate implements FeedbackService.
func (s *feedbackServiceImpl) Generate(ctx context.Context, resultID uuid.UUID) (feedback.Feedback, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("result_id", resultID.String()))

	result, err := s.store.GetByID(ctx, resultID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to load result for feedback", slog.Any("error", err))
		}
		return feedback.Feedback{}, NewServiceError("feedback", "generate", "failed to load result", err)
	}

	if s.generator == nil {
		log.Debug("feedback generator not configured, returning fallback")
		observability.RecordFeedback(true)
		return feedback.Fallback(result, s.now()), nil
	}

	text, err := s.generator.Generate(ctx, feedback.SystemInstruction(), feedback.Prompt(result))
	if err != nil {
		log.Warn("feedback generation failed, returning fallback",
			slog.String("error", redact.Error(err)),
			slog.Bool("permanent", generation.IsPermanent(err)))
		observability.RecordFeedback(true)
		return feedback.Fallback(result, s.now()), nil
	}

	observability.RecordFeedback(false)
	log.Info("feedback generated", slog.String("type", result.Type.String()))
	return feedback.New(result, text, s.now()), nil
}
