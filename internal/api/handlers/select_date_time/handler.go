package select_date_time

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingFlow/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "не указано время слота"
)

// Handler выбор даты и времени
// Ошибка загрузки слотов не является ошибкой запроса: она приходит в availability.state
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

// HandleDate PUT /api/v1/sessions/{sessionId}/date
func (h *Handler) HandleDate(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /sessions/{id}/date"
	sessionID := mux.Vars(r)["sessionId"]

	var req DateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	date, err := req.ParseDate()
	if err != nil {
		h.logger.Warn("%s - Invalid date: session_id=%s, date=%q", route, sessionID, req.Date)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	session, err := h.service.SelectDate(r.Context(), sessionID, date)
	if err != nil {
		handlers.Fail(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - Date selected: session_id=%s, date=%s, availability=%s",
		route, sessionID, date, session.Availability.State)
	handlers.RespondJSON(w, http.StatusOK, session)
}

// HandleRetry POST /api/v1/sessions/{sessionId}/availability/retry
func (h *Handler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	const route = "POST /sessions/{id}/availability/retry"
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.service.RetryAvailability(r.Context(), sessionID)
	if err != nil {
		handlers.Fail(w, h.logger, route, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, session)
}

// HandleTime PUT /api/v1/sessions/{sessionId}/time
func (h *Handler) HandleTime(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /sessions/{id}/time"
	sessionID := mux.Vars(r)["sessionId"]

	var req TimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	label, err := req.ParseTime()
	if err != nil {
		h.logger.Warn("%s - Invalid time: session_id=%s, time=%q", route, sessionID, req.Time)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	session, err := h.service.SelectTime(r.Context(), sessionID, label)
	if err != nil {
		handlers.Fail(w, h.logger, route, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, session)
}
