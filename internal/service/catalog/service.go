package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	cacheCatalog "github.com/m04kA/SMC-BookingFlow/internal/infra/cache/catalog"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/pkg/metrics"
)

const (
	kindBusiness = "business"
	kindServices = "services"

	// defaultRefreshInterval минимальный интервал между перечитываниями каталога одного бизнеса
	defaultRefreshInterval = time.Minute
)

// Service каталог бизнеса и услуг с read-through кэшем
// cache может быть nil: тогда каждый запрос идет в API
type Service struct {
	client  BookingAPIClient
	cache   Cache
	metrics Metrics
	logger  Logger

	refreshInterval time.Duration
	refreshMu       sync.Mutex
	refreshedAt     map[string]time.Time
	now             func() time.Time
}

// NewService создает новый экземпляр сервиса каталога
func NewService(client BookingAPIClient, cache Cache, metrics Metrics, logger Logger) *Service {
	return &Service{
		client:          client,
		cache:           cache,
		metrics:         metrics,
		logger:          logger,
		refreshInterval: defaultRefreshInterval,
		refreshedAt:     make(map[string]time.Time),
		now:             time.Now,
	}
}

// WithRefreshInterval задает минимальный интервал перечитывания каталога при неизвестной услуге
func (s *Service) WithRefreshInterval(d time.Duration) *Service {
	if d > 0 {
		s.refreshInterval = d
	}
	return s
}

// Business получает метаданные бизнеса
func (s *Service) Business(ctx context.Context, slug string) (*domain.Business, error) {
	if s.cache != nil {
		business, err := s.cache.GetBusiness(ctx, slug)
		if err == nil {
			s.observe(kindBusiness, metrics.CacheHit)
			return business, nil
		}
		s.logCacheError("Business", slug, err)
		s.observe(kindBusiness, metrics.CacheMiss)
	}

	remote, err := s.client.GetBusiness(ctx, slug)
	if err != nil {
		return nil, s.mapAPIError("Business", slug, err, ErrBusinessNotFound)
	}

	business := toDomainBusiness(slug, remote)
	if s.cache != nil {
		if err := s.cache.SetBusiness(ctx, slug, business); err != nil {
			s.logger.Warn("Business: failed to cache slug=%s: %v", slug, err)
		}
	}
	return business, nil
}

// Services получает каталог услуг бизнеса в порядке сервера
func (s *Service) Services(ctx context.Context, slug string) ([]domain.Service, error) {
	if s.cache != nil {
		services, err := s.cache.GetServices(ctx, slug)
		if err == nil {
			s.observe(kindServices, metrics.CacheHit)
			return services, nil
		}
		s.logCacheError("Services", slug, err)
		s.observe(kindServices, metrics.CacheMiss)
	}

	remote, err := s.client.GetServices(ctx, slug)
	if err != nil {
		return nil, s.mapAPIError("Services", slug, err, ErrBusinessNotFound)
	}

	services := make([]domain.Service, 0, len(remote))
	for _, r := range remote {
		svc := toDomainService(r)
		if svc.ID == "" || svc.DurationMinutes <= 0 {
			s.logger.Warn("Services: skipping malformed service id=%q slug=%s", svc.ID, slug)
			continue
		}
		services = append(services, svc)
	}

	if s.cache != nil {
		if err := s.cache.SetServices(ctx, slug, services); err != nil {
			s.logger.Warn("Services: failed to cache slug=%s: %v", slug, err)
		}
	}
	return services, nil
}

// ServiceByID ищет услугу в каталоге бизнеса
// Если услуги нет в кэшированном каталоге, каталог перечитывается из API,
// но не чаще одного раза за refreshInterval на бизнес
func (s *Service) ServiceByID(ctx context.Context, slug, id string) (domain.Service, error) {
	services, err := s.Services(ctx, slug)
	if err != nil {
		return domain.Service{}, err
	}
	if svc, ok := findService(services, id); ok {
		return svc, nil
	}

	if s.cache != nil && s.allowRefresh(slug) {
		if err := s.cache.Invalidate(ctx, slug); err != nil {
			s.logger.Warn("ServiceByID: failed to invalidate cache for slug=%s: %v", slug, err)
		}
		services, err = s.Services(ctx, slug)
		if err != nil {
			return domain.Service{}, err
		}
		if svc, ok := findService(services, id); ok {
			return svc, nil
		}
	}
	return domain.Service{}, fmt.Errorf("%w: id=%s slug=%s", ErrServiceNotFound, id, slug)
}

// allowRefresh отмечает перечитывание каталога, если с прошлого прошло не меньше refreshInterval
func (s *Service) allowRefresh(slug string) bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	now := s.now()
	if last, ok := s.refreshedAt[slug]; ok && now.Sub(last) < s.refreshInterval {
		return false
	}
	for key, last := range s.refreshedAt {
		if now.Sub(last) >= s.refreshInterval {
			delete(s.refreshedAt, key)
		}
	}
	s.refreshedAt[slug] = now
	return true
}

func findService(services []domain.Service, id string) (domain.Service, bool) {
	for _, svc := range services {
		if svc.ID == id {
			return svc, true
		}
	}
	return domain.Service{}, false
}

// AddOnCandidates возвращает услуги, которые еще можно добавить: без основной и уже выбранных
func (s *Service) AddOnCandidates(ctx context.Context, slug string, exclude ...string) ([]domain.Service, error) {
	services, err := s.Services(ctx, slug)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	out := make([]domain.Service, 0, len(services))
	for _, svc := range services {
		if _, ok := skip[svc.ID]; ok {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (s *Service) mapAPIError(op, slug string, err error, notFound error) error {
	if errors.Is(err, bookingapi.ErrNotFound) {
		s.logger.Warn("%s: slug=%s not found", op, slug)
		return fmt.Errorf("%w: slug=%s", notFound, slug)
	}
	s.logger.Error("%s: booking api error for slug=%s: %v", op, slug, err)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (s *Service) logCacheError(op, slug string, err error) {
	if !errors.Is(err, cacheCatalog.ErrCacheMiss) {
		s.logger.Warn("%s: cache read failed for slug=%s: %v", op, slug, err)
	}
}

func (s *Service) observe(kind, result string) {
	if s.metrics != nil {
		s.metrics.ObserveCache(kind, result)
	}
}

func toDomainBusiness(slug string, b *bookingapi.Business) *domain.Business {
	business := &domain.Business{
		Slug:         b.Slug,
		Name:         b.Name,
		Type:         strings.TrimSpace(b.Type),
		MaxPartySize: b.MaxPartySize,
		Phone:        b.Phone,
		Address:      b.Address,
	}
	if business.Slug == "" {
		business.Slug = slug
	}
	return business
}

func toDomainService(s bookingapi.Service) domain.Service {
	return domain.Service{
		ID:              string(s.ID),
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           float64(s.Price),
		Description:     s.Description,
		Emoji:           s.Emoji,
	}
}
