package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/service"
)

const msgDivinationInvalid = "診断に必要なデータが不足しています"

// internal error messages per system
var divinationFailures = map[domain.SystemType]string{
	domain.SystemNumerology:    "数秘術診断の処理中にエラーが発生しました",
	domain.SystemFourPillars:   "四柱推命診断の処理中にエラーが発生しました",
	domain.SystemSanmei:        "算命学診断の処理中にエラーが発生しました",
	domain.SystemMBTI:          "MBTI診断の処理中にエラーが発生しました",
	domain.SystemAnimalFortune: "動物占い診断の処理中にエラーが発生しました",
}

// divinationRequest is implemented by every calculator request body.
type divinationRequest interface {
	input() service.DivinationInput
}

// DivinationHandler serves the calculator endpoints.
type DivinationHandler struct {
	divination service.DivinationService
	logger     *slog.Logger
}

// NewDivinationHandler creates a new DivinationHandler.
func NewDivinationHandler(divination service.DivinationService, logger *slog.Logger) *DivinationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DivinationHandler")
	}
	return &DivinationHandler{
		divination: divination,
		logger:     logger.With(slog.String("component", "divination_handler")),
	}
}

// Numerology handles POST /api/divination/numerology.
func (h *DivinationHandler) Numerology(w http.ResponseWriter, r *http.Request) {
	serveDivination[NumerologyRequest](h, w, r, domain.SystemNumerology)
}

// FourPillars handles POST /api/divination/fourPillars.
func (h *DivinationHandler) FourPillars(w http.ResponseWriter, r *http.Request) {
	serveDivination[FourPillarsRequest](h, w, r, domain.SystemFourPillars)
}

// Sanmei handles POST /api/divination/sanmei.
func (h *DivinationHandler) Sanmei(w http.ResponseWriter, r *http.Request) {
	serveDivination[SanmeiRequest](h, w, r, domain.SystemSanmei)
}

// MBTI handles POST /api/divination/mbti.
func (h *DivinationHandler) MBTI(w http.ResponseWriter, r *http.Request) {
	serveDivination[MBTIRequest](h, w, r, domain.SystemMBTI)
}

// AnimalFortune handles POST /api/divination/animalFortune.
func (h *DivinationHandler) AnimalFortune(w http.ResponseWriter, r *http.Request) {
	serveDivination[AnimalFortuneRequest](h, w, r, domain.SystemAnimalFortune)
}

func serveDivination[T any, PT interface {
	*T
	divinationRequest
}](h *DivinationHandler, w http.ResponseWriter, r *http.Request, system domain.SystemType) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	msgs := errorMessages{
		invalid:  msgDivinationInvalid,
		internal: divinationFailures[system],
	}

	req := PT(new(T))
	if err := decodeAndValidate(w, r, req); err != nil {
		handleError(w, r, err, msgs)
		return
	}

	profile, err := h.divination.Calculate(r.Context(), system, req.input())
	if err != nil {
		handleError(w, r, err, msgs)
		return
	}

	log.Debug("divination calculated", slog.String("system", system.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, DivinationResponse{Success: true, Result: profile})
}
