package validation

import (
	"strings"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

// Поля контактных данных клиента
const (
	FieldName  = "name"
	FieldPhone = "phone"
	FieldEmail = "email"
)

const (
	msgNameRequired  = "имя обязательно"
	msgNameTooShort  = "имя должно содержать минимум 2 символа"
	msgPhoneRequired = "телефон обязателен"
	msgPhoneInvalid  = "некорректный формат телефона"
	msgEmailRequired = "email обязателен"
	msgEmailInvalid  = "некорректный формат email"
)

// FieldError ошибка валидации одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors набор ошибок валидации по полям
// Сопоставляется с domain.ErrValidation через errors.Is
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return domain.ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error {
	return domain.ErrValidation
}

// Fields возвращает сообщения, сгруппированные по полю
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}
