package models

import (
	"time"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/pkg/ptr"
	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

// Сообщения о пустом списке слотов и ошибке загрузки зависят от режима
const (
	msgNoSlotsService     = "на выбранную дату нет свободного времени, выберите другую дату"
	msgNoSlotsTable       = "на выбранную дату нет свободных столиков, выберите другую дату"
	msgSlotsErrorService  = "не удалось загрузить доступное время, попробуйте еще раз"
	msgSlotsErrorTable    = "не удалось проверить наличие столиков, попробуйте еще раз"
	msgSlotsLoading       = "загружаем доступное время"
	msgSlotsLoadingTables = "проверяем наличие столиков"
)

// SessionView представление сессии для клиента
type SessionView struct {
	ID                 string                    `json:"id"`
	BusinessSlug       string                    `json:"businessSlug"`
	Mode               domain.BusinessMode       `json:"mode"`
	Status             domain.SessionStatus      `json:"status"`
	Steps              []domain.Step             `json:"steps"`
	MaxPartySize       int                       `json:"maxPartySize"`
	PrimaryService     *domain.Service           `json:"primaryService"`
	PartySize          *int                      `json:"partySize"`
	AdditionalServices []domain.Service          `json:"additionalServices"`
	Notes              string                    `json:"notes"`
	Date               *string                   `json:"date"`
	Time               *string                   `json:"time"`
	Client             ClientView                `json:"client"`
	Consent            ConsentView               `json:"consent"`
	Availability       AvailabilityView          `json:"availability"`
	Totals             TotalsView                `json:"totals"`
	Confirmation       *ConfirmationView         `json:"confirmation,omitempty"`
	LastFailure        *domain.SubmissionFailure `json:"lastFailure,omitempty"`
}

// ClientView контактные данные и ошибки валидации по полям
type ClientView struct {
	Name   string            `json:"name"`
	Phone  string            `json:"phone"`
	Email  string            `json:"email"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ConsentView согласия клиента
type ConsentView struct {
	Policy    bool `json:"policy"`
	Reminders bool `json:"reminders"`
}

// AvailabilityView состояние списка слотов
type AvailabilityView struct {
	State   domain.AvailabilityState `json:"state"`
	Date    *string                  `json:"date"`
	Slots   []string                 `json:"slots"`
	Message string                   `json:"message,omitempty"`
}

// TotalsView итоги бронирования
type TotalsView struct {
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// ConfirmationView подтвержденная запись
type ConfirmationView struct {
	AppointmentID string             `json:"appointmentId"`
	Appointment   domain.Appointment `json:"appointment"`
	ConfirmedAt   string             `json:"confirmedAt"`
}

// FromDomainSession собирает представление сессии
// clientErrors передаются отдельно: валидация не хранится в сессии
func FromDomainSession(s *domain.Session, steps []domain.Step, clientErrors map[string]string) *SessionView {
	view := &SessionView{
		ID:                 s.ID(),
		BusinessSlug:       s.BusinessSlug(),
		Mode:               s.Mode(),
		Status:             s.Status(),
		Steps:              steps,
		MaxPartySize:       s.MaxPartySize(),
		PrimaryService:     s.PrimaryService(),
		AdditionalServices: s.AdditionalServices(),
		Notes:              s.Notes(),
		Date:               dateOrNil(s.Date()),
		Client: ClientView{
			Name:   s.ClientName(),
			Phone:  s.ClientPhone(),
			Email:  s.ClientEmail(),
			Errors: clientErrors,
		},
		Consent: ConsentView{
			Policy:    s.ConsentPolicy(),
			Reminders: s.ConsentReminders(),
		},
		Availability: fromDomainAvailability(s.Mode(), s.Availability()),
		Totals: TotalsView{
			DurationMinutes: s.TotalDurationMinutes(),
			Price:           s.TotalPrice(),
		},
		LastFailure: s.LastFailure(),
	}

	if s.PartySize() > 0 {
		view.PartySize = ptr.Ptr(s.PartySize())
	}
	if !s.Time().IsZero() {
		view.Time = ptr.Ptr(s.Time().String())
	}
	if c := s.Confirmation(); c != nil {
		view.Confirmation = &ConfirmationView{
			AppointmentID: c.AppointmentID,
			Appointment:   c.Appointment,
			ConfirmedAt:   c.ConfirmedAt.Format(time.RFC3339),
		}
	}
	return view
}

func fromDomainAvailability(mode domain.BusinessMode, a domain.Availability) AvailabilityView {
	slots := make([]string, 0, len(a.Slots))
	for _, slot := range a.Slots {
		slots = append(slots, slot.String())
	}

	view := AvailabilityView{
		State: a.State,
		Date:  dateOrNil(a.Date),
		Slots: slots,
	}

	table := mode == domain.ModeCapacityBased
	switch a.State {
	case domain.AvailabilityLoading:
		view.Message = pick(table, msgSlotsLoadingTables, msgSlotsLoading)
	case domain.AvailabilityEmpty:
		view.Message = pick(table, msgNoSlotsTable, msgNoSlotsService)
	case domain.AvailabilityError:
		view.Message = pick(table, msgSlotsErrorTable, msgSlotsErrorService)
	}
	return view
}

func pick(table bool, tableMsg, serviceMsg string) string {
	if table {
		return tableMsg
	}
	return serviceMsg
}

func dateOrNil(d types.Date) *string {
	if d.IsZero() {
		return nil
	}
	return ptr.Ptr(d.String())
}
