package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/service"
)

var feedbackMessages = errorMessages{
	invalid:  "結果IDが指定されていません",
	notFound: msgResultNotFound,
	internal: "AIフィードバックの生成中にエラーが発生しました",
}

// FeedbackHandler serves AI feedback for stored results.
type FeedbackHandler struct {
	feedback service.FeedbackService
	logger   *slog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedback service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FeedbackHandler")
	}
	return &FeedbackHandler{
		feedback: feedback,
		logger:   logger.With(slog.String("component", "feedback_handler")),
	}
}

// Generate handles POST /api/results/{id}/feedback. Generator failures are
// answered with fallback feedback, not an error status.
func (h *FeedbackHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		msgs := feedbackMessages
		if errors.Is(err, domain.ErrInvalidID) {
			msgs.invalid = ""
		}
		handleError(w, r, err, msgs)
		return
	}

	fb, err := h.feedback.Generate(r.Context(), id)
	if err != nil {
		handleError(w, r, err, feedbackMessages)
		return
	}

	log.Debug("feedback generated",
		slog.String("result_id", id.String()),
		slog.Bool("fallback", fb.Error))
	shared.RespondWithJSON(w, r, http.StatusOK, FeedbackResponse{Success: true, Feedback: fb})
}
