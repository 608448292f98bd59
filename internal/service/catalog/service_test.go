package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	cacheCatalog "github.com/m04kA/SMC-BookingFlow/internal/infra/cache/catalog"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
)

type fakeAPI struct {
	business      *bookingapi.Business
	services      []bookingapi.Service
	err           error
	businessCalls int
	servicesCalls int
}

func (f *fakeAPI) GetBusiness(ctx context.Context, slug string) (*bookingapi.Business, error) {
	f.businessCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

func (f *fakeAPI) GetServices(ctx context.Context, slug string) ([]bookingapi.Service, error) {
	f.servicesCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.services, nil
}

type fakeCache struct {
	businesses map[string]*domain.Business
	services   map[string][]domain.Service
}

func newFakeCache() *fakeCache {
	return &fakeCache{businesses: map[string]*domain.Business{}, services: map[string][]domain.Service{}}
}

func (f *fakeCache) GetBusiness(ctx context.Context, slug string) (*domain.Business, error) {
	b, ok := f.businesses[slug]
	if !ok {
		return nil, cacheCatalog.ErrCacheMiss
	}
	return b, nil
}

func (f *fakeCache) SetBusiness(ctx context.Context, slug string, business *domain.Business) error {
	f.businesses[slug] = business
	return nil
}

func (f *fakeCache) GetServices(ctx context.Context, slug string) ([]domain.Service, error) {
	s, ok := f.services[slug]
	if !ok {
		return nil, cacheCatalog.ErrCacheMiss
	}
	return s, nil
}

func (f *fakeCache) SetServices(ctx context.Context, slug string, services []domain.Service) error {
	f.services[slug] = services
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, slug string) error {
	delete(f.businesses, slug)
	delete(f.services, slug)
	return nil
}

type countingMetrics struct {
	results map[string]int
}

func (m *countingMetrics) ObserveCache(kind, result string) {
	m.results[kind+":"+result]++
}

func catalogServices() []bookingapi.Service {
	return []bookingapi.Service{
		{ID: "1", Name: "Corte", DurationMinutes: 45, Price: 35},
		{ID: "2", Name: "Color", DurationMinutes: 90, Price: 65},
		{ID: "3", Name: "Manicura", DurationMinutes: 30, Price: 20},
		{ID: "", Name: "broken", DurationMinutes: 10},
	}
}

func TestService_ReadThrough(t *testing.T) {
	api := &fakeAPI{
		business: &bookingapi.Business{Name: "Bella", Type: " restaurant "},
		services: catalogServices(),
	}
	m := &countingMetrics{results: map[string]int{}}
	svc := NewService(api, newFakeCache(), m, logger.NewNop())
	ctx := context.Background()

	b, err := svc.Business(ctx, "bella")
	require.NoError(t, err)
	assert.Equal(t, "bella", b.Slug)
	assert.Equal(t, "restaurant", b.Type)

	_, err = svc.Business(ctx, "bella")
	require.NoError(t, err)
	assert.Equal(t, 1, api.businessCalls)

	services, err := svc.Services(ctx, "bella")
	require.NoError(t, err)
	assert.Len(t, services, 3, "malformed entries are dropped")

	_, err = svc.Services(ctx, "bella")
	require.NoError(t, err)
	assert.Equal(t, 1, api.servicesCalls)

	assert.Equal(t, 1, m.results["business:miss"])
	assert.Equal(t, 1, m.results["business:hit"])
	assert.Equal(t, 1, m.results["services:hit"])
}

func TestService_WithoutCache(t *testing.T) {
	api := &fakeAPI{services: catalogServices()}
	svc := NewService(api, nil, nil, logger.NewNop())

	_, err := svc.Services(context.Background(), "bella")
	require.NoError(t, err)
	_, err = svc.Services(context.Background(), "bella")
	require.NoError(t, err)
	assert.Equal(t, 2, api.servicesCalls)
}

func TestService_ServiceByIDAndAddOns(t *testing.T) {
	svc := NewService(&fakeAPI{services: catalogServices()}, nil, nil, logger.NewNop())
	ctx := context.Background()

	found, err := svc.ServiceByID(ctx, "bella", "2")
	require.NoError(t, err)
	assert.Equal(t, "Color", found.Name)

	_, err = svc.ServiceByID(ctx, "bella", "42")
	assert.ErrorIs(t, err, ErrServiceNotFound)

	candidates, err := svc.AddOnCandidates(ctx, "bella", "1", "3")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "2", candidates[0].ID)
}

func TestService_ServiceByIDRefreshesStaleCache(t *testing.T) {
	api := &fakeAPI{services: catalogServices()}
	cache := newFakeCache()
	cache.services["bella"] = []domain.Service{{ID: "1", Name: "Corte", DurationMinutes: 45}}
	svc := NewService(api, cache, nil, logger.NewNop())
	clock := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	ctx := context.Background()

	found, err := svc.ServiceByID(ctx, "bella", "2")
	require.NoError(t, err)
	assert.Equal(t, "Color", found.Name)
	assert.Equal(t, 1, api.servicesCalls)
	assert.Len(t, cache.services["bella"], 3)

	// неизвестные id не обходят кэш, пока не прошел интервал
	for _, id := range []string{"42", "43", "44"} {
		_, err = svc.ServiceByID(ctx, "bella", id)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	}
	assert.Equal(t, 1, api.servicesCalls)

	clock = clock.Add(defaultRefreshInterval)
	_, err = svc.ServiceByID(ctx, "bella", "42")
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Equal(t, 2, api.servicesCalls)
}

func TestService_BusinessCachedUnderRequestedSlug(t *testing.T) {
	api := &fakeAPI{business: &bookingapi.Business{Slug: "bella-estetica", Name: "Bella"}}
	cache := newFakeCache()
	svc := NewService(api, cache, nil, logger.NewNop())
	ctx := context.Background()

	_, err := svc.Business(ctx, "Bella-Estetica")
	require.NoError(t, err)
	_, err = svc.Business(ctx, "Bella-Estetica")
	require.NoError(t, err)

	assert.Equal(t, 1, api.businessCalls)
	assert.Contains(t, cache.businesses, "Bella-Estetica")
}

func TestService_APIErrors(t *testing.T) {
	notFound := &fakeAPI{err: &bookingapi.ResponseError{Kind: bookingapi.ErrNotFound, StatusCode: 404}}
	svc := NewService(notFound, nil, nil, logger.NewNop())
	_, err := svc.Business(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	down := &fakeAPI{err: errors.New("dial tcp: connection refused")}
	svc = NewService(down, nil, nil, logger.NewNop())
	_, err = svc.Services(context.Background(), "bella")
	assert.ErrorIs(t, err, ErrUnavailable)
}
