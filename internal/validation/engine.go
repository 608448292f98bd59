package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	tagPhone = "booking_phone"
	tagEmail = "booking_email"
)

var (
	phonePattern = regexp.MustCompile(`^[+]?[\d\s()-]{9,}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Engine проверяет контактные данные клиента
// Чистая функция от входа, без состояния между вызовами
type Engine struct {
	validate *validator.Validate
}

// NewEngine создает движок валидации с зарегистрированными правилами телефона и email
func NewEngine() *Engine {
	v := validator.New()
	// ошибки регистрации возможны только при пустом теге или nil функции
	_ = v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagEmail, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &Engine{validate: v}
}

// ValidateName возвращает сообщение об ошибке или пустую строку
func (e *Engine) ValidateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if e.validate.Var(trimmed, "required") != nil {
		return msgNameRequired
	}
	if e.validate.Var(trimmed, "min=2") != nil {
		return msgNameTooShort
	}
	return ""
}

// ValidatePhone возвращает сообщение об ошибке или пустую строку
func (e *Engine) ValidatePhone(phone string) string {
	if e.validate.Var(strings.TrimSpace(phone), "required") != nil {
		return msgPhoneRequired
	}
	if e.validate.Var(phone, tagPhone) != nil {
		return msgPhoneInvalid
	}
	return ""
}

// ValidateEmail возвращает сообщение об ошибке или пустую строку
func (e *Engine) ValidateEmail(email string) string {
	if e.validate.Var(strings.TrimSpace(email), "required") != nil {
		return msgEmailRequired
	}
	if e.validate.Var(email, tagEmail) != nil {
		return msgEmailInvalid
	}
	return ""
}

// ValidateClient проверяет все три поля и возвращает Errors, если хотя бы одно некорректно
func (e *Engine) ValidateClient(name, phone, email string) error {
	var errs Errors
	if msg := e.ValidateName(name); msg != "" {
		errs = append(errs, FieldError{Field: FieldName, Message: msg})
	}
	if msg := e.ValidatePhone(phone); msg != "" {
		errs = append(errs, FieldError{Field: FieldPhone, Message: msg})
	}
	if msg := e.ValidateEmail(email); msg != "" {
		errs = append(errs, FieldError{Field: FieldEmail, Message: msg})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
