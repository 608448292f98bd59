package create_session

import (
	"context"

	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
)

type SessionService interface {
	Create(ctx context.Context, slug string) (*models.SessionView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
