package flow

import (
	"strings"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

// Resolution результат определения режима бизнеса
type Resolution struct {
	Mode         domain.BusinessMode
	Steps        []domain.Step
	MaxPartySize int
}

// ResolveMode определяет режим и последовательность шагов по метаданным бизнеса
// Зависит только от метаданных, поэтому повторный вызов после перезагрузки дает тот же результат
func ResolveMode(business domain.Business, defaultMaxPartySize int) Resolution {
	mode := domain.ModeServiceBased
	if strings.EqualFold(strings.TrimSpace(business.Type), domain.BusinessTypeRestaurant) {
		mode = domain.ModeCapacityBased
	}

	maxPartySize := defaultMaxPartySize
	if business.MaxPartySize != nil && *business.MaxPartySize >= domain.MinPartySize {
		maxPartySize = *business.MaxPartySize
	}
	if maxPartySize < domain.MinPartySize {
		maxPartySize = domain.DefaultMaxPartySize
	}

	return Resolution{
		Mode:         mode,
		Steps:        StepsFor(mode),
		MaxPartySize: maxPartySize,
	}
}

// StepsFor возвращает упорядоченный список шагов режима
func StepsFor(mode domain.BusinessMode) []domain.Step {
	if mode == domain.ModeCapacityBased {
		return []domain.Step{
			domain.StepSelectPartySize,
			domain.StepSelectDateTime,
			domain.StepClientDetails,
			domain.StepConfirm,
		}
	}
	return []domain.Step{
		domain.StepSelectService,
		domain.StepAddOns,
		domain.StepSelectDateTime,
		domain.StepClientDetails,
		domain.StepConfirm,
	}
}

// FirstStep возвращает стартовый шаг режима
func FirstStep(mode domain.BusinessMode) domain.Step {
	return StepsFor(mode)[0]
}
