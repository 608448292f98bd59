package submit_appointment

import (
	"github.com/m04kA/SMC-BookingFlow/internal/api/handlers"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
)

// SubmitErrorResponse ошибка отправки вместе с актуальным состоянием сессии
// После конфликта слота клиент сразу показывает обновленный список времени
type SubmitErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code,omitempty"`
	Fields  map[string]string   `json:"fields,omitempty"`
	Session *models.SessionView `json:"session,omitempty"`
}

// NewSubmitErrorResponse собирает ответ из тела ошибки и представления сессии
func NewSubmitErrorResponse(body handlers.ErrorResponse, session *models.SessionView) *SubmitErrorResponse {
	return &SubmitErrorResponse{
		Error:   body.Error,
		Code:    body.Code,
		Fields:  body.Fields,
		Session: session,
	}
}
