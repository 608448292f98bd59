package domain

// Table reservations (CapacityBased businesses)
const (
	// TableReservationServiceID is the id of the synthetic placeholder service
	TableReservationServiceID = "table-reservation"
	// TableReservationServiceName is the display name of the placeholder service
	TableReservationServiceName = "Бронирование столика"
	// TableReservationDurationMinutes is the fixed duration of a table reservation
	TableReservationDurationMinutes = 90
	// DefaultMaxPartySize applies when business metadata carries no limit
	DefaultMaxPartySize = 20
	// MinPartySize is the smallest party that can be booked
	MinPartySize = 1
)

// Business validation constants
const (
	MaxNotesLength = 500
)

// Business type discriminator values
const (
	BusinessTypeRestaurant = "restaurant"
)
