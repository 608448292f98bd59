package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/pkg/ptr"
	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	client BookingAPIClient
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(client BookingAPIClient, logger Logger) *UseCase {
	return &UseCase{
		client: client,
		logger: logger,
	}
}

// Execute выполняет один запрос слотов без повторов
// Форма запроса зависит от режима: partySize передается только для бронирования столика
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	q := req.Query
	uc.logger.Info("CheckAvailability: slug=%s, mode=%s, date=%s, duration=%d, token=%d",
		q.BusinessSlug, q.Mode, q.Date, q.DurationMinutes, q.Token)

	// 1. Валидация входных данных
	if err := validateQuery(q); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Запрос к API в форме, соответствующей режиму
	var (
		labels []string
		err    error
	)
	if q.Mode == domain.ModeCapacityBased {
		labels, err = uc.client.CheckTableAvailability(ctx, q.BusinessSlug, bookingapi.TableAvailabilityRequest{
			Date:            q.Date.String(),
			ServiceID:       nil,
			DurationMinutes: q.DurationMinutes,
			PartySize:       ptr.Value(q.PartySize),
		})
	} else {
		labels, err = uc.client.CheckServiceAvailability(ctx, q.BusinessSlug, bookingapi.ServiceAvailabilityRequest{
			Date:            q.Date.String(),
			ServiceID:       ptr.Value(q.ServiceID),
			DurationMinutes: q.DurationMinutes,
		})
	}
	if err != nil {
		if errors.Is(err, bookingapi.ErrNotFound) {
			uc.logger.Warn("CheckAvailability: business slug=%s not found", q.BusinessSlug)
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ErrBusinessNotFound)
		}
		uc.logger.Error("CheckAvailability: query failed for slug=%s date=%s: %v", q.BusinessSlug, q.Date, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// 3. Метки сервера сохраняются как есть и в его порядке; пустые отбрасываются
	slots := make([]types.TimeString, 0, len(labels))
	for _, label := range labels {
		slot, err := types.ParseTimeString(label)
		if err != nil {
			uc.logger.Warn("CheckAvailability: skipping empty slot label for slug=%s", q.BusinessSlug)
			continue
		}
		slots = append(slots, slot)
	}

	uc.logger.Info("CheckAvailability: slug=%s, date=%s, token=%d, slots_count=%d",
		q.BusinessSlug, q.Date, q.Token, len(slots))
	return &Response{
		Token: q.Token,
		Date:  q.Date,
		Slots: slots,
	}, nil
}
