package enter_step

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingFlow/internal/api/handlers"
	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

const (
	msgUnknownStep = "неизвестный шаг бронирования"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/steps/{step}
// Всегда отвечает 200 с решением; переход на другой шаг выполняет клиент
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["sessionId"]
	step := domain.Step(vars["step"])

	if !step.IsValid() {
		h.logger.Warn("GET /sessions/{id}/steps/{step} - Unknown step: session_id=%s, step=%s", sessionID, step)
		handlers.RespondBadRequest(w, msgUnknownStep)
		return
	}

	decision, err := h.service.EnterStep(r.Context(), sessionID, step)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /sessions/{id}/steps/{step}", err)
		return
	}

	if !decision.Allowed {
		h.logger.Info("GET /sessions/{id}/steps/{step} - Redirect: session_id=%s, step=%s, redirect_to=%s",
			sessionID, step, decision.RedirectTo)
	}
	handlers.RespondJSON(w, http.StatusOK, decision)
}
