package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("sessions: session not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessions: internal error")
)

// msgSubmissionInterrupted сообщение для отправки, результат которой не был сохранен
const msgSubmissionInterrupted = "отправка записи была прервана, попробуйте еще раз"
