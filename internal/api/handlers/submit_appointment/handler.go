package submit_appointment

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

// Handle POST /api/v1/sessions/{sessionId}/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.service.Submit(r.Context(), sessionID)
	if err != nil {
		status, body := handlers.ErrorStatus(err)
		// сообщение о неудачной отправке берется из сессии: там уже учтен ответ сервера
		if session != nil && session.LastFailure != nil {
			body.Error = session.LastFailure.Message
		}
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /sessions/{id}/submit - Failed to submit: session_id=%s, status=%d, error=%v",
				sessionID, status, err)
		} else {
			h.logger.Warn("POST /sessions/{id}/submit - Submission rejected: session_id=%s, status=%d, error=%v",
				sessionID, status, err)
		}
		handlers.RespondJSON(w, status, NewSubmitErrorResponse(body, session))
		return
	}

	appointmentID := ""
	if session.Confirmation != nil {
		appointmentID = session.Confirmation.AppointmentID
	}
	h.logger.Info("POST /sessions/{id}/submit - Appointment created: session_id=%s, appointment_id=%s",
		sessionID, appointmentID)
	handlers.RespondJSON(w, http.StatusCreated, session)
}
