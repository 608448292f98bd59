package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgEmptyBody     = "пустое тело запроса"
)

// Коды ошибок, по которым клиент отличает конфликт состояния от конфликта слота
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeState        = "STATE_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeSlotConflict = "SLOT_CONFLICT"
	CodeSubmission   = "SUBMISSION_ERROR"
	CodeUnavailable  = "UPSTREAM_UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondErrorCode отправляет ошибку с машинно-читаемым кодом
func RespondErrorCode(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// RespondBadRequest отправляет 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondErrorCode(w, http.StatusBadRequest, CodeValidation, message)
}

// RespondInternalError отправляет 500
func RespondInternalError(w http.ResponseWriter) {
	RespondErrorCode(w, http.StatusInternalServerError, CodeInternal, msgInternalError)
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New(msgEmptyBody)
		}
		return err
	}
	return nil
}
