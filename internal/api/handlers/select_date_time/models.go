package select_date_time

import "github.com/m04kA/SMC-BookingFlow/pkg/types"

// DateRequest HTTP request model
type DateRequest struct {
	Date string `json:"date"` // "2025-03-01"
}

// TimeRequest HTTP request model
type TimeRequest struct {
	Time string `json:"time"` // "10:30"
}

// ParseDate разбирает дату запроса
func (r *DateRequest) ParseDate() (types.Date, error) {
	return types.ParseDate(r.Date)
}

// ParseTime возвращает метку времени; формат сверяется со слотами сессии
func (r *TimeRequest) ParseTime() (types.TimeString, error) {
	return types.ParseTimeString(r.Time)
}
