package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/service"
)

var analyticsMessages = errorMessages{
	internal: "分析データの取得中にエラーが発生しました",
}

// AnalyticsHandler serves GET /api/analytics.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	logger    *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AnalyticsHandler")
	}
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger.With(slog.String("component", "analytics_handler")),
	}
}

// Summary handles GET /api/analytics.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	summary, err := h.analytics.Summarize(r.Context())
	if err != nil {
		handleError(w, r, err, analyticsMessages)
		return
	}

	log.Debug("analytics summarized", slog.Int("total_tests", summary.TotalTests))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
