package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/service"
)

var compareMessages = errorMessages{
	invalid:  "比較するには2つ以上の結果IDが必要です",
	internal: "結果の比較中にエラーが発生しました",
}

// CompareHandler serves POST /api/compare.
type CompareHandler struct {
	comparison service.ComparisonService
	logger     *slog.Logger
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(comparison service.ComparisonService, logger *slog.Logger) *CompareHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CompareHandler")
	}
	return &CompareHandler{
		comparison: comparison,
		logger:     logger.With(slog.String("component", "compare_handler")),
	}
}

// Compare handles POST /api/compare.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CompareRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err, compareMessages)
		return
	}

	result, err := h.comparison.Compare(r.Context(), req.ResultIDs)
	if err != nil {
		handleError(w, r, err, compareMessages)
		return
	}

	log.Debug("results compared",
		slog.String("type", result.Type.String()),
		slog.Int("count", len(req.ResultIDs)))
	shared.RespondWithJSON(w, r, http.StatusOK, CompareResponse{Success: true, Comparison: result})
}
