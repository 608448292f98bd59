package domain

// Service represents a bookable service of a business
// Immutable once fetched; identity is ID
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Description     *string `json:"description,omitempty"`
	Emoji           *string `json:"emoji,omitempty"`
}

// IsPlaceholder returns true for the synthetic table reservation service
func (s Service) IsPlaceholder() bool {
	return s.ID == TableReservationServiceID
}

// TableReservationService returns the placeholder service used by CapacityBased businesses
func TableReservationService() Service {
	return Service{
		ID:              TableReservationServiceID,
		Name:            TableReservationServiceName,
		DurationMinutes: TableReservationDurationMinutes,
		Price:           0,
	}
}
