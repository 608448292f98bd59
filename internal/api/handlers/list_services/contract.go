package list_services

import (
	"context"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

type SessionService interface {
	ListServices(ctx context.Context, slug string) ([]domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
