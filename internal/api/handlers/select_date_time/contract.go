package select_date_time

import (
	"context"

	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

type SessionService interface {
	SelectDate(ctx context.Context, id string, date types.Date) (*models.SessionView, error)
	RetryAvailability(ctx context.Context, id string) (*models.SessionView, error)
	SelectTime(ctx context.Context, id string, label types.TimeString) (*models.SessionView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
