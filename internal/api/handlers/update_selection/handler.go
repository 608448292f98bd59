package update_selection

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingFlow/internal/api/handlers"
	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingServiceID   = "не указан ID услуги"
)

// Handler изменяет выбор пользователя на шагах до подтверждения
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

// HandleService PUT /api/v1/sessions/{sessionId}/service
func (h *Handler) HandleService(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /sessions/{id}/service"
	sessionID := mux.Vars(r)["sessionId"]

	var req SelectServiceRequest
	if !h.decode(w, r, route, &req) {
		return
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		h.logger.Warn("%s - Missing service ID: session_id=%s", route, sessionID)
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	session, err := h.service.SelectService(r.Context(), sessionID, req.ServiceID)
	h.respond(w, route, session, err)
}

// HandlePartySize PUT /api/v1/sessions/{sessionId}/party-size
func (h *Handler) HandlePartySize(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /sessions/{id}/party-size"
	sessionID := mux.Vars(r)["sessionId"]

	var req PartySizeRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	session, err := h.service.SetPartySize(r.Context(), sessionID, req.PartySize)
	h.respond(w, route, session, err)
}

// HandleAddAddOn POST /api/v1/sessions/{sessionId}/add-ons
func (h *Handler) HandleAddAddOn(w http.ResponseWriter, r *http.Request) {
	const route = "POST /sessions/{id}/add-ons"
	sessionID := mux.Vars(r)["sessionId"]

	var req AddOnRequest
	if !h.decode(w, r, route, &req) {
		return
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		h.logger.Warn("%s - Missing service ID: session_id=%s", route, sessionID)
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	session, err := h.service.AddAddOn(r.Context(), sessionID, req.ServiceID)
	h.respond(w, route, session, err)
}

// HandleRemoveAddOn DELETE /api/v1/sessions/{sessionId}/add-ons/{serviceId}
func (h *Handler) HandleRemoveAddOn(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /sessions/{id}/add-ons/{serviceId}"
	vars := mux.Vars(r)

	session, err := h.service.RemoveAddOn(r.Context(), vars["sessionId"], vars["serviceId"])
	h.respond(w, route, session, err)
}

// HandleAddOnCandidates GET /api/v1/sessions/{sessionId}/add-ons
func (h *Handler) HandleAddOnCandidates(w http.ResponseWriter, r *http.Request) {
	const route = "GET /sessions/{id}/add-ons"
	sessionID := mux.Vars(r)["sessionId"]

	services, err := h.service.AddOnCandidates(r.Context(), sessionID)
	if err != nil {
		handlers.Fail(w, h.logger, route, err)
		return
	}
	if services == nil {
		services = []domain.Service{}
	}
	handlers.RespondJSON(w, http.StatusOK, CandidatesResponse{Services: services})
}

// HandleNotes PUT /api/v1/sessions/{sessionId}/notes
func (h *Handler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /sessions/{id}/notes"
	sessionID := mux.Vars(r)["sessionId"]

	var req NotesRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	session, err := h.service.SetNotes(r.Context(), sessionID, req.Notes)
	h.respond(w, route, session, err)
}

// HandleClient PUT /api/v1/sessions/{sessionId}/client
// Данные сохраняются как есть; ошибки по полям приходят в client.errors
func (h *Handler) HandleClient(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /sessions/{id}/client"
	sessionID := mux.Vars(r)["sessionId"]

	var req ClientRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	session, err := h.service.SetClientDetails(r.Context(), sessionID, req.Name, req.Phone, req.Email)
	h.respond(w, route, session, err)
}

// HandleConsent PUT /api/v1/sessions/{sessionId}/consent
func (h *Handler) HandleConsent(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /sessions/{id}/consent"
	sessionID := mux.Vars(r)["sessionId"]

	var req ConsentRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	session, err := h.service.SetConsent(r.Context(), sessionID, req.Policy, req.Reminders)
	h.respond(w, route, session, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string, dst interface{}) bool {
	if err := handlers.DecodeJSON(r, dst); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, route string, session *models.SessionView, err error) {
	if err != nil {
		handlers.Fail(w, h.logger, route, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, session)
}
