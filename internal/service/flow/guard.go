package flow

import (
	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

// ClientValidator проверка контактных данных перед подтверждением
type ClientValidator interface {
	ValidateClient(name, phone, email string) error
}

// Decision решение о входе на шаг
type Decision struct {
	Allowed    bool        `json:"allowed"`
	Step       domain.Step `json:"step"`
	RedirectTo domain.Step `json:"redirectTo,omitempty"`
}

// Guard вычисляет доступность шагов только по данным сессии
// Результат не кэшируется: каждый вызов пересчитывается заново
type Guard struct {
	validator ClientValidator
}

// NewGuard создает guard
func NewGuard(validator ClientValidator) *Guard {
	return &Guard{validator: validator}
}

// CanEnter возвращает Allowed или шаг, на который нужно перенаправить
// Цепочка перенаправлений раскрывается до первого доступного шага
func (g *Guard) CanEnter(step domain.Step, s *domain.Session) Decision {
	target := step
	// длина цепочки ограничена числом шагов
	for i := 0; i <= len(StepsFor(s.Mode())); i++ {
		next, ok := g.check(target, s)
		if ok {
			break
		}
		target = next
	}

	if target == step {
		return Decision{Allowed: true, Step: step}
	}
	return Decision{Allowed: false, Step: step, RedirectTo: target}
}

// check возвращает true, если шаг доступен, иначе шаг с недостающими данными
func (g *Guard) check(step domain.Step, s *domain.Session) (domain.Step, bool) {
	first := FirstStep(s.Mode())

	switch step {
	case domain.StepSelectService:
		if s.Mode() != domain.ModeServiceBased {
			return first, false
		}
		return step, true

	case domain.StepSelectPartySize:
		if s.Mode() != domain.ModeCapacityBased {
			return first, false
		}
		return step, true

	case domain.StepAddOns:
		if s.Mode() == domain.ModeCapacityBased {
			// шаг пропускается целиком
			return domain.StepSelectDateTime, false
		}
		if !s.HasPrimarySelection() {
			return first, false
		}
		return step, true

	case domain.StepSelectDateTime:
		if !s.HasPrimarySelection() {
			return first, false
		}
		return step, true

	case domain.StepClientDetails:
		if !s.HasPrimarySelection() {
			return first, false
		}
		if !s.HasDateTime() {
			return domain.StepSelectDateTime, false
		}
		return step, true

	case domain.StepConfirm:
		if prev, ok := g.check(domain.StepClientDetails, s); !ok {
			return prev, false
		}
		if g.validator.ValidateClient(s.ClientName(), s.ClientPhone(), s.ClientEmail()) != nil {
			return domain.StepClientDetails, false
		}
		return step, true

	default:
		return first, false
	}
}
