package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	draftRepo "github.com/m04kA/SMC-BookingFlow/internal/infra/storage/draft"
	"github.com/m04kA/SMC-BookingFlow/internal/service/flow"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
	checkAvailability "github.com/m04kA/SMC-BookingFlow/internal/usecase/check_availability"
	"github.com/m04kA/SMC-BookingFlow/internal/validation"
	"github.com/m04kA/SMC-BookingFlow/pkg/metrics"
	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

// Options настройки сервиса сессий
type Options struct {
	DefaultMaxPartySize    int
	ConfirmationResetDelay time.Duration
	Location               *time.Location // часовой пояс, в котором считается "сегодня"
}

// Service сервис сессий бронирования
// Запросы к одной сессии сериализуются; на время сетевых вызовов блокировка снимается,
// а результат применяется повторно под блокировкой после проверки токена и даты
type Service struct {
	repo         DraftRepository
	catalog      Catalog
	availability AvailabilityUseCase
	submitter    SubmitUseCase
	guard        StepGuard
	validator    ClientValidator
	metrics      Metrics
	scheduler    Scheduler
	timeProvider TimeProvider
	logger       Logger

	opts     Options
	locks    *keyedMutex
	inflight *inflightSet
	newID    func() string
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	repo DraftRepository,
	catalog Catalog,
	availability AvailabilityUseCase,
	submitter SubmitUseCase,
	guard StepGuard,
	validator ClientValidator,
	metrics Metrics,
	logger Logger,
	opts Options,
) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DefaultMaxPartySize < domain.MinPartySize {
		opts.DefaultMaxPartySize = domain.DefaultMaxPartySize
	}
	return &Service{
		repo:         repo,
		catalog:      catalog,
		availability: availability,
		submitter:    submitter,
		guard:        guard,
		validator:    validator,
		metrics:      metrics,
		scheduler:    RealScheduler{},
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		opts:         opts,
		locks:        newKeyedMutex(),
		inflight:     newInflightSet(),
		newID:        uuid.NewString,
	}
}

// WithScheduler подменяет планировщик отложенного сброса
func (s *Service) WithScheduler(scheduler Scheduler) *Service {
	s.scheduler = scheduler
	return s
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Create создает сессию для бизнеса; режим определяется по метаданным
func (s *Service) Create(ctx context.Context, slug string) (*models.SessionView, error) {
	s.logger.Info("Create: slug=%s", slug)

	business, err := s.catalog.Business(ctx, slug)
	if err != nil {
		s.logger.Warn("Create: failed to resolve business slug=%s: %v", slug, err)
		return nil, err
	}

	resolution := flow.ResolveMode(*business, s.opts.DefaultMaxPartySize)
	session, err := domain.NewSession(s.newID(), slug, resolution.Mode, resolution.MaxPartySize)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, session); err != nil {
		s.logger.Error("Create: failed to store session for slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: session=%s slug=%s mode=%s", session.ID(), slug, resolution.Mode)
	return s.view(session), nil
}

// Get возвращает текущее состояние сессии
func (s *Service) Get(ctx context.Context, id string) (*models.SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// EnterStep возвращает решение guard для шага
func (s *Service) EnterStep(ctx context.Context, id string, step domain.Step) (flow.Decision, error) {
	if !step.IsValid() {
		return flow.Decision{}, fmt.Errorf("%w: unknown step %q", domain.ErrValidation, step)
	}
	session, err := s.load(ctx, id)
	if err != nil {
		return flow.Decision{}, err
	}
	return s.guard.CanEnter(step, session), nil
}

// SelectService выбирает основную услугу из каталога
func (s *Service) SelectService(ctx context.Context, id, serviceID string) (*models.SessionView, error) {
	service, err := s.lookupService(ctx, id, serviceID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.SetPrimaryService(service)
	})
}

// SetPartySize задает количество гостей
func (s *Service) SetPartySize(ctx context.Context, id string, partySize int) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.SetPartySize(partySize)
	})
}

// AddAddOn добавляет дополнительную услугу
func (s *Service) AddAddOn(ctx context.Context, id, serviceID string) (*models.SessionView, error) {
	service, err := s.lookupService(ctx, id, serviceID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(session *domain.Session) error {
		_, err := session.AddAdditionalService(service)
		return err
	})
}

// RemoveAddOn удаляет дополнительную услугу; отсутствующий id не меняет сессию
func (s *Service) RemoveAddOn(ctx context.Context, id, serviceID string) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		_, err := session.RemoveAdditionalService(serviceID)
		return err
	})
}

// AddOnCandidates возвращает услуги, которые можно добавить к сессии
func (s *Service) AddOnCandidates(ctx context.Context, id string) ([]domain.Service, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Mode() != domain.ModeServiceBased {
		return []domain.Service{}, nil
	}

	exclude := make([]string, 0, 1+len(session.AdditionalServices()))
	if primary := session.PrimaryService(); primary != nil {
		exclude = append(exclude, primary.ID)
	}
	for _, svc := range session.AdditionalServices() {
		exclude = append(exclude, svc.ID)
	}
	return s.catalog.AddOnCandidates(ctx, session.BusinessSlug(), exclude...)
}

// ListServices возвращает каталог услуг бизнеса
func (s *Service) ListServices(ctx context.Context, slug string) ([]domain.Service, error) {
	return s.catalog.Services(ctx, slug)
}

// SetNotes задает комментарий
func (s *Service) SetNotes(ctx context.Context, id, notes string) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.SetNotes(notes)
	})
}

// SetClientDetails сохраняет контактные данные; ошибки по полям возвращаются в представлении
func (s *Service) SetClientDetails(ctx context.Context, id, name, phone, email string) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.SetClientDetails(name, phone, email)
	})
}

// SetConsent сохраняет согласия
func (s *Service) SetConsent(ctx context.Context, id string, policy, reminders bool) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.SetConsent(policy, reminders)
	})
}

// SelectDate выбирает дату и запрашивает слоты
func (s *Service) SelectDate(ctx context.Context, id string, date types.Date) (*models.SessionView, error) {
	today := types.DateOf(s.timeProvider.Now().In(s.opts.Location))
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.SetDate(date, today)
	})
}

// RetryAvailability повторяет запрос слотов после ошибки
func (s *Service) RetryAvailability(ctx context.Context, id string) (*models.SessionView, error) {
	unlock := s.locks.Lock(id)
	session, err := s.load(ctx, id)
	if err != nil {
		unlock()
		return nil, err
	}
	s.recoverInterrupted(session)
	query, err := session.RetryAvailability()
	if err != nil {
		unlock()
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	return s.resolve(ctx, id, query)
}

// SelectTime выбирает слот из загруженного списка
func (s *Service) SelectTime(ctx context.Context, id string, label types.TimeString) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.SetTime(label)
	})
}

// Acknowledge сбрасывает подтвержденную сессию после показа подтверждения
func (s *Service) Acknowledge(ctx context.Context, id string) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		return session.Acknowledge()
	})
}

// Reset начинает новое бронирование в той же сессии
// Прерванная отправка восстанавливается в mutate, поэтому Submitting здесь означает вызов в процессе
func (s *Service) Reset(ctx context.Context, id string) (*models.SessionView, error) {
	return s.mutate(ctx, id, func(session *domain.Session) error {
		if session.Status() == domain.StatusSubmitting {
			return fmt.Errorf("%w: submission in progress", domain.ErrState)
		}
		session.Reset()
		return nil
	})
}

// PurgeStale удаляет черновики, не обновлявшиеся дольше ttl
func (s *Service) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	removed, err := s.repo.DeleteStale(ctx, s.timeProvider.Now().Add(-ttl))
	if err != nil {
		s.logger.Error("PurgeStale: repository error: %v", err)
		return 0, fmt.Errorf("%w: PurgeStale - repository error: %v", ErrInternal, err)
	}
	if removed > 0 {
		s.logger.Info("PurgeStale: removed %d drafts older than %s", removed, ttl)
	}
	return removed, nil
}

// mutate применяет операцию под блокировкой сессии и сохраняет результат
// Если после операции нужны новые слоты, запрос выполняется без блокировки
func (s *Service) mutate(ctx context.Context, id string, fn func(session *domain.Session) error) (*models.SessionView, error) {
	unlock := s.locks.Lock(id)

	session, err := s.load(ctx, id)
	if err != nil {
		unlock()
		return nil, err
	}
	s.recoverInterrupted(session)
	if err := fn(session); err != nil {
		unlock()
		s.logger.Warn("mutate: session=%s rejected: %v", id, err)
		return nil, err
	}

	var query *domain.AvailabilityQuery
	if session.NeedsAvailability() {
		q, err := session.BeginAvailability()
		if err != nil {
			unlock()
			return nil, err
		}
		query = &q
	}

	if err := s.save(ctx, session); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	if query == nil {
		return s.view(session), nil
	}
	return s.resolve(ctx, id, *query)
}

// resolve выполняет запрос слотов и применяет результат, если он еще актуален
func (s *Service) resolve(ctx context.Context, id string, query domain.AvailabilityQuery) (*models.SessionView, error) {
	// результат должен быть применен даже при разрыве соединения клиента
	callCtx := context.WithoutCancel(ctx)
	resp, callErr := s.availability.Execute(callCtx, &checkAvailability.Request{Query: query})

	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.load(callCtx, id)
	if err != nil {
		return nil, err
	}

	var applied bool
	outcome := metrics.AvailabilityError
	if callErr != nil {
		applied = session.FailAvailability(query.Token, query.Date, callErr.Error())
	} else {
		applied = session.ApplyAvailability(resp.Token, resp.Date, resp.Slots)
		outcome = metrics.AvailabilityReady
		if len(resp.Slots) == 0 {
			outcome = metrics.AvailabilityEmpty
		}
	}

	if !applied {
		s.logger.Info("resolve: session=%s dropped stale availability token=%d date=%s", id, query.Token, query.Date)
		s.observe(query.Mode, metrics.AvailabilityStale)
		return s.view(session), nil
	}
	s.observe(query.Mode, outcome)

	if err := s.save(callCtx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// recoverInterrupted возвращает в Building сессию, оставшуюся в Submitting без вызова в процессе
// Так бывает после ошибки сохранения результата или перезапуска процесса во время отправки
// Вызывается под блокировкой сессии
func (s *Service) recoverInterrupted(session *domain.Session) bool {
	if session.Status() != domain.StatusSubmitting || s.inflight.has(session.ID()) {
		return false
	}
	if err := session.Fail(domain.FailureSubmission, msgSubmissionInterrupted); err != nil {
		return false
	}
	if err := session.ResumeBuilding(); err != nil {
		return false
	}
	s.logger.Warn("recoverInterrupted: session=%s was left in submitting, moved back to building", session.ID())
	return true
}

func (s *Service) lookupService(ctx context.Context, id, serviceID string) (domain.Service, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	service, err := s.catalog.ServiceByID(ctx, session.BusinessSlug(), serviceID)
	if err != nil {
		return domain.Service{}, err
	}
	return service, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, id)
		}
		s.logger.Error("load: repository error for session=%s: %v", id, err)
		return nil, fmt.Errorf("%w: load - repository error: %v", ErrInternal, err)
	}
	return session, nil
}

func (s *Service) save(ctx context.Context, session *domain.Session) error {
	if err := s.repo.Update(ctx, session); err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			return fmt.Errorf("%w: id=%s", ErrSessionNotFound, session.ID())
		}
		s.logger.Error("save: repository error for session=%s: %v", session.ID(), err)
		return fmt.Errorf("%w: save - repository error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) view(session *domain.Session) *models.SessionView {
	return models.FromDomainSession(session, flow.StepsFor(session.Mode()), s.clientErrors(session))
}

// clientErrors возвращает ошибки по заполненным полям контактных данных
func (s *Service) clientErrors(session *domain.Session) map[string]string {
	if session.ClientName() == "" && session.ClientPhone() == "" && session.ClientEmail() == "" {
		return nil
	}
	err := s.validator.ValidateClient(session.ClientName(), session.ClientPhone(), session.ClientEmail())
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	return fieldErrs.Fields()
}

func (s *Service) observe(mode domain.BusinessMode, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveAvailability(string(mode), outcome)
	}
}
