package submit_appointment

import (
	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/pkg/ptr"
)

// buildPayload собирает тело запроса: основная услуга первой, длительность как сумма
func buildPayload(s *domain.Session) bookingapi.AppointmentRequest {
	services := s.Services()
	items := make([]bookingapi.AppointmentService, 0, len(services))
	for _, svc := range services {
		items = append(items, bookingapi.AppointmentService{
			ID:              bookingapi.FlexString(svc.ID),
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           bookingapi.FlexFloat(svc.Price),
		})
	}

	primary := s.PrimaryService()
	req := bookingapi.AppointmentRequest{
		ClientName:       s.ClientName(),
		ClientPhone:      s.ClientPhone(),
		ClientEmail:      s.ClientEmail(),
		ServiceID:        primary.ID,
		ServiceName:      primary.Name,
		DurationMinutes:  s.TotalDurationMinutes(),
		ScheduledDate:    s.Date().String(),
		AppointmentTime:  s.Time().String(),
		Services:         items,
		Notes:            s.Notes(),
		AcceptsReminders: s.ConsentReminders(),
	}
	if s.Mode() == domain.ModeCapacityBased {
		req.PartySize = ptr.Ptr(s.PartySize())
	}
	return req
}

func toDomainAppointment(a *bookingapi.Appointment) domain.Appointment {
	services := make([]domain.Service, 0, len(a.Services))
	for _, svc := range a.Services {
		services = append(services, domain.Service{
			ID:              string(svc.ID),
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           float64(svc.Price),
		})
	}
	return domain.Appointment{
		ID:              string(a.ID),
		ClientName:      a.ClientName,
		ClientPhone:     a.ClientPhone,
		ClientEmail:     a.ClientEmail,
		ScheduledDate:   a.ScheduledDate,
		AppointmentTime: a.AppointmentTime,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Services:        services,
		Notes:           a.Notes,
		PartySize:       a.PartySize,
	}
}
