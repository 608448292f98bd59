package check_availability

import (
	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

// Request модель запроса слотов
type Request struct {
	Query domain.AvailabilityQuery // Запрос, выданный сессией (с токеном)
}

// Response модель ответа со слотами
type Response struct {
	Token uint64             // Токен запроса, по которому сессия отбрасывает устаревшие ответы
	Date  types.Date         // Дата, на которую запрашивались слоты
	Slots []types.TimeString // Слоты в порядке сервера
}
