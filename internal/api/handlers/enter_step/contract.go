package enter_step

import (
	"context"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/flow"
)

type SessionService interface {
	EnterStep(ctx context.Context, id string, step domain.Step) (flow.Decision, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
