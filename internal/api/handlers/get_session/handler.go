package get_session

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

// Handle GET /api/v1/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /sessions/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}
