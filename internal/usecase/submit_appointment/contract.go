package submit_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/internal/service/flow"
)

// BookingAPIClient интерфейс клиента API бронирований
type BookingAPIClient interface {
	CreateAppointment(ctx context.Context, slug string, req bookingapi.AppointmentRequest) (*bookingapi.Appointment, error)
}

// StepGuard проверка готовности сессии к подтверждению
type StepGuard interface {
	CanEnter(step domain.Step, s *domain.Session) flow.Decision
}

// ClientValidator проверка контактных данных
type ClientValidator interface {
	ValidateClient(name, phone, email string) error
}

// Metrics интерфейс метрик отправки
type Metrics interface {
	ObserveSubmission(mode, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
