package catalog

import (
	"context"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
)

// BookingAPIClient интерфейс клиента публичного API бронирований
type BookingAPIClient interface {
	GetBusiness(ctx context.Context, slug string) (*bookingapi.Business, error)
	GetServices(ctx context.Context, slug string) ([]bookingapi.Service, error)
}

// Cache интерфейс кэша каталога
type Cache interface {
	GetBusiness(ctx context.Context, slug string) (*domain.Business, error)
	SetBusiness(ctx context.Context, slug string, business *domain.Business) error
	GetServices(ctx context.Context, slug string) ([]domain.Service, error)
	SetServices(ctx context.Context, slug string, services []domain.Service) error
	Invalidate(ctx context.Context, slug string) error
}

// Metrics интерфейс метрик кэша
type Metrics interface {
	ObserveCache(kind, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
