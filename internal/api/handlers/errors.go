package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/internal/service/catalog"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions"
	"github.com/m04kA/SMC-BookingFlow/internal/validation"
)

const (
	msgValidation       = "некорректные данные бронирования"
	msgClientDetails    = "проверьте контактные данные"
	msgState            = "действие недоступно в текущем состоянии бронирования"
	msgSessionNotFound  = "сессия бронирования не найдена"
	msgBusinessNotFound = "бизнес не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgUnavailable      = "сервис бронирования временно недоступен, попробуйте позже"
	msgSlotConflict     = "выбранное время уже занято, пожалуйста, выберите другое время"
	msgSubmission       = "не удалось создать запись, попробуйте еще раз"
)

// ErrorStatus возвращает HTTP статус, код и сообщение для ошибки сервиса сессий
func ErrorStatus(err error) (int, ErrorResponse) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, ErrorResponse{Error: msgClientDetails, Code: CodeValidation, Fields: fieldErrs.Fields()}

	case errors.Is(err, sessions.ErrSessionNotFound):
		return http.StatusNotFound, ErrorResponse{Error: msgSessionNotFound, Code: CodeNotFound}

	case errors.Is(err, catalog.ErrBusinessNotFound):
		return http.StatusNotFound, ErrorResponse{Error: msgBusinessNotFound, Code: CodeNotFound}

	case errors.Is(err, catalog.ErrServiceNotFound):
		return http.StatusBadRequest, ErrorResponse{Error: msgServiceNotFound, Code: CodeValidation}

	case errors.Is(err, domain.ErrSlotConflict):
		return http.StatusConflict, ErrorResponse{Error: msgSlotConflict, Code: CodeSlotConflict}

	case errors.Is(err, domain.ErrSubmission):
		message := bookingapi.UserMessage(err)
		if message == "" {
			message = msgSubmission
		}
		return http.StatusBadGateway, ErrorResponse{Error: message, Code: CodeSubmission}

	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: msgValidation, Code: CodeValidation}

	case errors.Is(err, domain.ErrState):
		return http.StatusConflict, ErrorResponse{Error: msgState, Code: CodeState}

	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, domain.ErrNetwork):
		return http.StatusServiceUnavailable, ErrorResponse{Error: msgUnavailable, Code: CodeUnavailable}

	default:
		return http.StatusInternalServerError, ErrorResponse{Error: msgInternalError, Code: CodeInternal}
	}
}

// RespondServiceError отправляет ошибку сервиса сессий
func RespondServiceError(w http.ResponseWriter, err error) int {
	status, body := ErrorStatus(err)
	RespondJSON(w, status, body)
	return status
}

// Logger интерфейс для логирования ошибок обработчиков
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Fail логирует ошибку и отправляет ответ; 5xx логируются как ошибки
func Fail(w http.ResponseWriter, logger Logger, route string, err error) {
	status := RespondServiceError(w, err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s - status=%d: %v", route, status, err)
		return
	}
	logger.Warn("%s - status=%d: %v", route, status, err)
}
