package check_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректном запросе доступности
	ErrInvalidInput = fmt.Errorf("%w: check_availability: invalid query", domain.ErrValidation)

	// ErrUnavailable возвращается, когда запрос слотов не удался; запрос можно повторить
	ErrUnavailable = fmt.Errorf("%w: check_availability: slots query failed", domain.ErrNetwork)

	// ErrBusinessNotFound возвращается, когда API не знает бизнес
	ErrBusinessNotFound = errors.New("check_availability: business not found")
)
