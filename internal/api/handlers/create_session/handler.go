package create_session

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingFlow/internal/api/handlers"
)

const (
	msgMissingSlug = "не указан slug бизнеса"
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

// Handle POST /api/v1/businesses/{slug}/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(mux.Vars(r)["slug"])
	if slug == "" {
		h.logger.Warn("POST /businesses/{slug}/sessions - Missing slug")
		handlers.RespondBadRequest(w, msgMissingSlug)
		return
	}

	session, err := h.service.Create(r.Context(), slug)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /businesses/{slug}/sessions", err)
		return
	}

	h.logger.Info("POST /businesses/{slug}/sessions - Session created: session_id=%s, slug=%s, mode=%s",
		session.ID, slug, session.Mode)
	handlers.RespondJSON(w, http.StatusCreated, session)
}
