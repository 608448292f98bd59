package bookingapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// codeSlotUnavailable код ошибки API при занятом слоте
const codeSlotUnavailable = "SLOT_UNAVAILABLE"

// FlexString идентификатор, который API отдает то строкой, то числом
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// FlexFloat цена, которую API отдает то числом, то строкой ("35.00")
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("price %q is not a number: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// BusinessResponse ответ GET /public/{slug}/info
type BusinessResponse struct {
	Business Business `json:"business"`
}

// Business метаданные бизнеса
type Business struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	MaxPartySize *int    `json:"maxPartySize,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
}

// ServicesResponse ответ GET /public/{slug}/services
type ServicesResponse struct {
	Services []Service `json:"services"`
}

// Service услуга каталога
// Длительность приходит как duration_minutes или durationMinutes
type Service struct {
	ID              FlexString `json:"id"`
	Name            string     `json:"name"`
	DurationMinutes int        `json:"durationMinutes"`
	Price           FlexFloat  `json:"price"`
	Description     *string    `json:"description,omitempty"`
	Emoji           *string    `json:"emoji,omitempty"`
}

func (s *Service) UnmarshalJSON(data []byte) error {
	type plain Service
	var raw struct {
		plain
		DurationSnake *int `json:"duration_minutes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Service(raw.plain)
	if s.DurationMinutes == 0 && raw.DurationSnake != nil {
		s.DurationMinutes = *raw.DurationSnake
	}
	return nil
}

// ServiceAvailabilityRequest запрос слотов для бизнеса по услугам
// Ключ partySize в этом запросе отсутствует
type ServiceAvailabilityRequest struct {
	Date            string `json:"date"`
	ServiceID       string `json:"serviceId"`
	DurationMinutes int    `json:"durationMinutes"`
}

// TableAvailabilityRequest запрос слотов для бронирования столика
type TableAvailabilityRequest struct {
	Date            string  `json:"date"`
	ServiceID       *string `json:"serviceId"`
	DurationMinutes int     `json:"durationMinutes"`
	PartySize       int     `json:"partySize"`
}

// AvailabilityResponse ответ POST /public/{slug}/check-availability
type AvailabilityResponse struct {
	AvailableSlots []string `json:"availableSlots"`
}

// AppointmentService услуга в составе записи
type AppointmentService struct {
	ID              FlexString `json:"id"`
	Name            string     `json:"name"`
	DurationMinutes int        `json:"durationMinutes"`
	Price           FlexFloat  `json:"price"`
}

// AppointmentRequest тело POST /public/{slug}/appointments
type AppointmentRequest struct {
	ClientName       string               `json:"clientName"`
	ClientPhone      string               `json:"clientPhone"`
	ClientEmail      string               `json:"clientEmail"`
	ServiceID        string               `json:"serviceId"`
	ServiceName      string               `json:"serviceName"`
	DurationMinutes  int                  `json:"durationMinutes"`
	ScheduledDate    string               `json:"scheduledDate"`
	AppointmentTime  string               `json:"appointmentTime"`
	Services         []AppointmentService `json:"services"`
	Notes            string               `json:"notes"`
	PartySize        *int                 `json:"partySize,omitempty"`
	AcceptsReminders bool                 `json:"acceptsReminders"`
}

// AppointmentResponse ответ на создание записи
type AppointmentResponse struct {
	Appointment Appointment `json:"appointment"`
}

// Appointment каноническая запись, возвращенная API
type Appointment struct {
	ID              FlexString           `json:"id"`
	ClientName      string               `json:"clientName"`
	ClientPhone     string               `json:"clientPhone"`
	ClientEmail     string               `json:"clientEmail"`
	ScheduledDate   string               `json:"scheduledDate"`
	AppointmentTime string               `json:"appointmentTime"`
	DurationMinutes int                  `json:"durationMinutes"`
	Status          string               `json:"status"`
	Services        []AppointmentService `json:"services"`
	Notes           string               `json:"notes"`
	PartySize       *int                 `json:"partySize,omitempty"`
}

// ErrorResponse тело ошибки API: {error|message, code?}
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Text возвращает человекочитаемое сообщение
func (e ErrorResponse) Text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
