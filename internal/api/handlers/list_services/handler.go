package list_services

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

// Handle GET /api/v1/businesses/{slug}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	services, err := h.service.ListServices(r.Context(), slug)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /businesses/{slug}/services", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainServices(services))
}
