package finish_session

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingFlow/internal/api/handlers"
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

// HandleAcknowledge POST /api/v1/sessions/{sessionId}/acknowledge
func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.service.Acknowledge(r.Context(), sessionID)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /sessions/{id}/acknowledge", err)
		return
	}

	h.logger.Info("POST /sessions/{id}/acknowledge - Session reset after confirmation: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, session)
}

// HandleReset POST /api/v1/sessions/{sessionId}/reset
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.service.Reset(r.Context(), sessionID)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /sessions/{id}/reset", err)
		return
	}

	h.logger.Info("POST /sessions/{id}/reset - Session reset: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, session)
}
