package check_availability

import (
	"context"

	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
)

// BookingAPIClient интерфейс клиента API бронирований
type BookingAPIClient interface {
	CheckServiceAvailability(ctx context.Context, slug string, req bookingapi.ServiceAvailabilityRequest) ([]string, error)
	CheckTableAvailability(ctx context.Context, slug string, req bookingapi.TableAvailabilityRequest) ([]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
