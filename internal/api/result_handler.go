package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/service"
)

var (
	saveMessages = errorMessages{
		invalid:  "保存に必要なデータが不足しています",
		internal: "結果の保存中にエラーが発生しました",
	}
	getMessages = errorMessages{
		internal: "結果の取得中にエラーが発生しました",
	}
	deleteMessages = errorMessages{
		internal: "結果の削除中にエラーが発生しました",
	}
)

// ResultHandler serves stored results.
type ResultHandler struct {
	results service.ResultService
	logger  *slog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(results service.ResultService, logger *slog.Logger) *ResultHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ResultHandler")
	}
	return &ResultHandler{
		results: results,
		logger:  logger.With(slog.String("component", "result_handler")),
	}
}

// Save handles POST /api/results.
func (h *ResultHandler) Save(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SaveResultRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err, saveMessages)
		return
	}

	owner, err := resolveOwner(r.Context(), req.OwnerID)
	if err != nil {
		handleError(w, r, err, saveMessages)
		return
	}

	saved, err := h.results.Save(r.Context(), service.SaveResultInput{
		Type:    req.Type,
		Result:  req.Result,
		OwnerID: owner,
	})
	if err != nil {
		handleError(w, r, err, saveMessages)
		return
	}

	log.Debug("result saved",
		slog.String("result_id", saved.ID.String()),
		slog.String("type", saved.Type.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, SaveResultResponse{
		Success: true,
		Message: "結果が正常に保存されました",
		ID:      saved.ID,
	})
}

// Get handles GET /api/results/{id}.
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		handleError(w, r, err, getMessages)
		return
	}

	result, err := h.results.Get(r.Context(), id)
	if err == nil {
		err = authorizeResult(r.Context(), result)
	}
	if err != nil {
		handleError(w, r, err, getMessages)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ResultResponse{Success: true, Result: result})
}

// List handles GET /api/results?ownerId=. The owner defaults to the
// authenticated one.
func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, err := resolveOwner(r.Context(), r.URL.Query().Get("ownerId"))
	if err != nil {
		handleError(w, r, err, getMessages)
		return
	}

	results, err := h.results.ListByOwner(r.Context(), owner)
	if err != nil {
		handleError(w, r, err, getMessages)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ResultListResponse{Results: summarize(results)})
}

// Delete handles DELETE /api/results/{id}.
func (h *ResultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		handleError(w, r, err, deleteMessages)
		return
	}

	if _, ok := shared.OwnerIDFromContext(r.Context()); ok {
		result, err := h.results.Get(r.Context(), id)
		if err == nil {
			err = authorizeResult(r.Context(), result)
		}
		if err != nil {
			handleError(w, r, err, deleteMessages)
			return
		}
	}

	if err := h.results.Delete(r.Context(), id); err != nil {
		handleError(w, r, err, deleteMessages)
		return
	}

	log.Debug("result deleted", slog.String("result_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
