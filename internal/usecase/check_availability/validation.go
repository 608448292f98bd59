package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

// validateQuery проверяет, что запрос собран сессией в форме своего режима
func validateQuery(q domain.AvailabilityQuery) error {
	if q.BusinessSlug == "" {
		return fmt.Errorf("%w: business slug is required", ErrInvalidInput)
	}
	if q.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if q.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	switch q.Mode {
	case domain.ModeCapacityBased:
		if q.PartySize == nil || *q.PartySize < domain.MinPartySize {
			return fmt.Errorf("%w: party size is required for table reservation", ErrInvalidInput)
		}
	case domain.ModeServiceBased:
		if q.ServiceID == nil || *q.ServiceID == "" {
			return fmt.Errorf("%w: service id is required", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, q.Mode)
	}
	return nil
}
