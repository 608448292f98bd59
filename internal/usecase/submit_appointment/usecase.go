package submit_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/pkg/metrics"
	"github.com/m04kA/SMC-BookingFlow/pkg/ptr"
)

// UseCase use case отправки записи
// Отправка разделена на Prepare, Send и Apply, чтобы вызывающий мог не держать блокировку сессии во время сетевого вызова
type UseCase struct {
	client       BookingAPIClient
	guard        StepGuard
	validator    ClientValidator
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	client BookingAPIClient,
	guard StepGuard,
	validator ClientValidator,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		client:       client,
		guard:        guard,
		validator:    validator,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет отправку целиком: Prepare, Send, Apply
func (uc *UseCase) Execute(ctx context.Context, s *domain.Session) (*Response, error) {
	prepared, err := uc.Prepare(s)
	if err != nil {
		return nil, err
	}
	return uc.Apply(s, prepared, uc.Send(ctx, prepared))
}

// Prepare проверяет предусловия и переводит сессию в Submitting
// Ошибки валидации и состояния возвращаются до любого сетевого вызова
func (uc *UseCase) Prepare(s *domain.Session) (*Prepared, error) {
	uc.logger.Info("SubmitAppointment: session=%s, slug=%s, mode=%s", s.ID(), s.BusinessSlug(), s.Mode())

	// 1. Согласие с политикой
	if !s.ConsentPolicy() {
		uc.logger.Warn("SubmitAppointment: session=%s policy not accepted", s.ID())
		uc.observe(s.Mode(), metrics.SubmissionValidation)
		return nil, ErrPolicyNotAccepted
	}

	// 2. Контактные данные
	if err := uc.validator.ValidateClient(s.ClientName(), s.ClientPhone(), s.ClientEmail()); err != nil {
		uc.logger.Warn("SubmitAppointment: session=%s client details invalid: %v", s.ID(), err)
		uc.observe(s.Mode(), metrics.SubmissionValidation)
		return nil, err
	}

	// 3. Шаг подтверждения должен быть доступен
	if decision := uc.guard.CanEnter(domain.StepConfirm, s); !decision.Allowed {
		uc.logger.Warn("SubmitAppointment: session=%s not ready, redirect to %s", s.ID(), decision.RedirectTo)
		return nil, fmt.Errorf("%w: missing data for step %s", ErrNotReady, decision.RedirectTo)
	}

	// 4. Переход в Submitting
	if err := s.BeginSubmission(); err != nil {
		uc.logger.Warn("SubmitAppointment: session=%s cannot begin submission: %v", s.ID(), err)
		return nil, err
	}

	return &Prepared{
		SessionID:    s.ID(),
		BusinessSlug: s.BusinessSlug(),
		Mode:         s.Mode(),
		Payload:      buildPayload(s),
	}, nil
}

// Send выполняет единственный сетевой вызов без повторов
func (uc *UseCase) Send(ctx context.Context, p *Prepared) Outcome {
	appt, err := uc.client.CreateAppointment(ctx, p.BusinessSlug, p.Payload)
	return Outcome{Appointment: appt, Err: err}
}

// Apply фиксирует результат отправки в сессии
// Конфликт слота очищает время и оставляет дату; прочие ошибки оставляют поля без изменений
func (uc *UseCase) Apply(s *domain.Session, p *Prepared, outcome Outcome) (*Response, error) {
	if outcome.Err != nil {
		if errors.Is(outcome.Err, bookingapi.ErrConflict) {
			uc.logger.Warn("SubmitAppointment: session=%s slot %s %s taken: %v",
				p.SessionID, p.Payload.ScheduledDate, p.Payload.AppointmentTime, outcome.Err)
			uc.observe(p.Mode, metrics.SubmissionConflict)
			if err := uc.fail(s, domain.FailureSlotConflict, MsgSlotConflict); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrSlotTaken, outcome.Err)
		}

		uc.logger.Error("SubmitAppointment: session=%s failed to create appointment: %v", p.SessionID, outcome.Err)
		uc.observe(p.Mode, metrics.SubmissionError)
		message := MsgSubmissionFailed
		if serverMsg := bookingapi.UserMessage(outcome.Err); serverMsg != "" {
			message = serverMsg
		}
		if err := uc.fail(s, domain.FailureSubmission, message); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, outcome.Err)
	}

	appointment := toDomainAppointment(outcome.Appointment)
	fillFromPayload(&appointment, p.Payload)

	confirmation := domain.Confirmation{
		AppointmentID: appointment.ID,
		Appointment:   appointment,
		ConfirmedAt:   uc.timeProvider.Now(),
	}
	if err := s.Confirm(confirmation); err != nil {
		uc.logger.Error("SubmitAppointment: session=%s cannot confirm appointment=%s: %v", p.SessionID, appointment.ID, err)
		return nil, err
	}

	uc.observe(p.Mode, metrics.SubmissionConfirmed)
	uc.logger.Info("SubmitAppointment: session=%s confirmed appointment=%s", p.SessionID, appointment.ID)
	return &Response{Confirmation: confirmation}, nil
}

// fail фиксирует ошибку и сразу возвращает сессию в Building для повторной попытки
func (uc *UseCase) fail(s *domain.Session, kind domain.FailureKind, message string) error {
	if err := s.Fail(kind, message); err != nil {
		return err
	}
	return s.ResumeBuilding()
}

func (uc *UseCase) observe(mode domain.BusinessMode, outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveSubmission(string(mode), outcome)
	}
}

// fillFromPayload дополняет запись полями запроса, если сервер их не вернул
func fillFromPayload(a *domain.Appointment, p bookingapi.AppointmentRequest) {
	if a.ClientName == "" {
		a.ClientName = p.ClientName
	}
	if a.ClientPhone == "" {
		a.ClientPhone = p.ClientPhone
	}
	if a.ClientEmail == "" {
		a.ClientEmail = p.ClientEmail
	}
	if a.ScheduledDate == "" {
		a.ScheduledDate = p.ScheduledDate
	}
	if a.AppointmentTime == "" {
		a.AppointmentTime = p.AppointmentTime
	}
	if a.DurationMinutes == 0 {
		a.DurationMinutes = p.DurationMinutes
	}
	if len(a.Services) == 0 {
		for _, svc := range p.Services {
			a.Services = append(a.Services, domain.Service{
				ID:              string(svc.ID),
				Name:            svc.Name,
				DurationMinutes: svc.DurationMinutes,
				Price:           float64(svc.Price),
			})
		}
	}
	if a.Notes == "" {
		a.Notes = p.Notes
	}
	if a.PartySize == nil && p.PartySize != nil {
		a.PartySize = ptr.Ptr(*p.PartySize)
	}
}
