package domain

// BusinessMode tells how a business schedules bookings
type BusinessMode string

const (
	// ModeServiceBased requires a named service, then optional add-ons
	ModeServiceBased BusinessMode = "service_based"
	// ModeCapacityBased requires only a party size
	ModeCapacityBased BusinessMode = "capacity_based"
)

// IsValid returns true for known modes
func (m BusinessMode) IsValid() bool {
	return m == ModeServiceBased || m == ModeCapacityBased
}

// Business is the public metadata of a tenant
type Business struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	MaxPartySize *int    `json:"maxPartySize,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
}

// Step is one screen of the booking flow
type Step string

const (
	StepSelectService   Step = "select-service"
	StepSelectPartySize Step = "select-party-size"
	StepAddOns          Step = "add-ons"
	StepSelectDateTime  Step = "date-time"
	StepClientDetails   Step = "client-details"
	StepConfirm         Step = "confirm"
)

// IsValid returns true for known steps
func (s Step) IsValid() bool {
	switch s {
	case StepSelectService, StepSelectPartySize, StepAddOns, StepSelectDateTime, StepClientDetails, StepConfirm:
		return true
	default:
		return false
	}
}
