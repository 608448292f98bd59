package sessions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/flow"
	checkAvailability "github.com/m04kA/SMC-BookingFlow/internal/usecase/check_availability"
	submitAppointment "github.com/m04kA/SMC-BookingFlow/internal/usecase/submit_appointment"
)

// DraftRepository интерфейс хранилища черновиков сессий
type DraftRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// Catalog интерфейс каталога бизнеса и услуг
type Catalog interface {
	Business(ctx context.Context, slug string) (*domain.Business, error)
	Services(ctx context.Context, slug string) ([]domain.Service, error)
	ServiceByID(ctx context.Context, slug, id string) (domain.Service, error)
	AddOnCandidates(ctx context.Context, slug string, exclude ...string) ([]domain.Service, error)
}

// AvailabilityUseCase интерфейс запроса слотов
type AvailabilityUseCase interface {
	Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error)
}

// SubmitUseCase интерфейс отправки записи в три фазы
type SubmitUseCase interface {
	Prepare(s *domain.Session) (*submitAppointment.Prepared, error)
	Send(ctx context.Context, p *submitAppointment.Prepared) submitAppointment.Outcome
	Apply(s *domain.Session, p *submitAppointment.Prepared, outcome submitAppointment.Outcome) (*submitAppointment.Response, error)
}

// StepGuard интерфейс проверки входа на шаг
type StepGuard interface {
	CanEnter(step domain.Step, s *domain.Session) flow.Decision
}

// ClientValidator интерфейс проверки контактных данных
type ClientValidator interface {
	ValidateClient(name, phone, email string) error
}

// Metrics интерфейс метрик запросов доступности
type Metrics interface {
	ObserveAvailability(mode, outcome string)
}

// Scheduler откладывает выполнение функции
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
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

// RealScheduler планировщик на time.AfterFunc
type RealScheduler struct{}

// AfterFunc запускает f через d в отдельной горутине
func (RealScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
