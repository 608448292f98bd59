package bookingapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, когда бизнес или ресурс не найден (404)
	ErrNotFound = errors.New("bookingapi client: not found")

	// ErrConflict возвращается, когда выбранный слот уже занят (409)
	ErrConflict = errors.New("bookingapi client: slot conflict")

	// ErrRejected возвращается при прочих ответах 4xx
	ErrRejected = errors.New("bookingapi client: request rejected")

	// ErrUnavailable возвращается при ответах 5xx
	ErrUnavailable = errors.New("bookingapi client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента (сборка запроса, транспорт)
	ErrInternal = errors.New("bookingapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном теле ответа
	ErrInvalidResponse = errors.New("bookingapi client: invalid response")
)

// ResponseError ошибка с разобранным телом ответа
type ResponseError struct {
	Kind       error
	StatusCode int
	Code       string
	Message    string // сообщение из JSON-тела ошибки, может быть пустым
	Body       string // тело ответа как есть, только для логов
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.Kind, e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("%v: status %d, code %s: %s", e.Kind, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Kind, e.StatusCode, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Kind
}

// UserMessage извлекает читаемое сообщение сервера из ошибки, если оно есть
func UserMessage(err error) string {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Message
	}
	return ""
}
