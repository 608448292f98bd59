package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
	submitAppointment "github.com/m04kA/SMC-BookingFlow/internal/usecase/submit_appointment"
)

// Submit отправляет запись
// Представление возвращается и при ошибках конфликта и отправки, чтобы клиент увидел актуальное состояние
func (s *Service) Submit(ctx context.Context, id string) (*models.SessionView, error) {
	// 1. Предусловия и переход в Submitting под блокировкой
	unlock := s.locks.Lock(id)
	session, err := s.load(ctx, id)
	if err != nil {
		unlock()
		return nil, err
	}
	s.recoverInterrupted(session)
	prepared, err := s.submitter.Prepare(session)
	if err != nil {
		unlock()
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		unlock()
		return nil, err
	}
	s.inflight.add(id)
	defer s.inflight.remove(id)
	unlock()

	// 2. Сетевой вызов без блокировки; Submitting отклоняет все изменения
	callCtx := context.WithoutCancel(ctx)
	outcome := s.submitter.Send(callCtx, prepared)

	// 3. Фиксация результата; ошибки хранилища повторяются, чтобы сессия не осталась в Submitting
	var (
		committed *committedSubmission
		commitErr error
	)
	for attempt := 1; attempt <= commitAttempts; attempt++ {
		committed, commitErr = s.commitSubmission(callCtx, id, prepared, outcome)
		if commitErr == nil || !errors.Is(commitErr, ErrInternal) {
			break
		}
		s.logger.Warn("Submit: session=%s failed to store result, attempt %d/%d: %v", id, attempt, commitAttempts, commitErr)
		if attempt < commitAttempts {
			time.Sleep(commitRetryDelay)
		}
	}
	if commitErr != nil {
		if outcome.Err == nil {
			s.logger.Error("Submit: session=%s appointment created but result not stored: %v", id, commitErr)
		}
		return nil, commitErr
	}

	if committed.resp != nil {
		s.scheduleReset(id, committed.resp.Confirmation.AppointmentID)
	}

	view := s.view(committed.session)
	if committed.query != nil {
		if resolved, err := s.resolve(callCtx, id, *committed.query); err == nil {
			view = resolved
		}
	}
	return view, committed.submitErr
}

const (
	commitAttempts   = 3
	commitRetryDelay = 50 * time.Millisecond
)

type committedSubmission struct {
	session   *domain.Session
	resp      *submitAppointment.Response
	submitErr error
	query     *domain.AvailabilityQuery
}

// commitSubmission применяет результат отправки к свежей копии сессии и сохраняет ее
func (s *Service) commitSubmission(
	ctx context.Context,
	id string,
	prepared *submitAppointment.Prepared,
	outcome submitAppointment.Outcome,
) (*committedSubmission, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, submitErr := s.submitter.Apply(session, prepared, outcome)
	if submitErr != nil && !errors.Is(submitErr, domain.ErrSlotConflict) && !errors.Is(submitErr, domain.ErrSubmission) {
		return nil, submitErr
	}

	// после конфликта дата сохраняется, а слоты запрашиваются заново
	var query *domain.AvailabilityQuery
	if session.NeedsAvailability() {
		q, err := session.BeginAvailability()
		if err == nil {
			query = &q
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return &committedSubmission{session: session, resp: resp, submitErr: submitErr, query: query}, nil
}

// scheduleReset откладывает сброс подтвержденной сессии, чтобы клиент успел показать подтверждение
func (s *Service) scheduleReset(id, appointmentID string) {
	if s.opts.ConfirmationResetDelay <= 0 {
		return
	}
	s.scheduler.AfterFunc(s.opts.ConfirmationResetDelay, func() {
		s.expireConfirmation(context.Background(), id, appointmentID)
	})
}

// expireConfirmation сбрасывает сессию, если она все еще держит ту же подтвержденную запись
func (s *Service) expireConfirmation(ctx context.Context, id, appointmentID string) {
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		s.logger.Warn("expireConfirmation: session=%s: %v", id, err)
		return
	}
	confirmation := session.Confirmation()
	if session.Status() != domain.StatusConfirmed || confirmation == nil || confirmation.AppointmentID != appointmentID {
		return
	}
	if err := session.Acknowledge(); err != nil {
		s.logger.Warn("expireConfirmation: session=%s: %v", id, err)
		return
	}
	if err := s.save(ctx, session); err != nil {
		s.logger.Error("expireConfirmation: session=%s: %v", id, err)
		return
	}
	s.logger.Info("expireConfirmation: session=%s reset after appointment=%s", id, appointmentID)
}
