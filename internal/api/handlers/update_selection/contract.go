package update_selection

import (
	"context"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
)

type SessionService interface {
	SelectService(ctx context.Context, id, serviceID string) (*models.SessionView, error)
	SetPartySize(ctx context.Context, id string, partySize int) (*models.SessionView, error)
	AddAddOn(ctx context.Context, id, serviceID string) (*models.SessionView, error)
	RemoveAddOn(ctx context.Context, id, serviceID string) (*models.SessionView, error)
	AddOnCandidates(ctx context.Context, id string) ([]domain.Service, error)
	SetNotes(ctx context.Context, id, notes string) (*models.SessionView, error)
	SetClientDetails(ctx context.Context, id, name, phone, email string) (*models.SessionView, error)
	SetConsent(ctx context.Context, id string, policy, reminders bool) (*models.SessionView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
