package domain

import (
	"fmt"

	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

// AvailabilityState is the loading state of the slot list
type AvailabilityState string

const (
	AvailabilityIdle    AvailabilityState = "idle"
	AvailabilityLoading AvailabilityState = "loading"
	AvailabilityReady   AvailabilityState = "ready"
	AvailabilityEmpty   AvailabilityState = "empty"
	AvailabilityError   AvailabilityState = "error"
)

// Availability is the resolved slot list of the session
// Date, DurationMinutes and PartySize are the key the slots were resolved against
type Availability struct {
	State           AvailabilityState  `json:"state"`
	Token           uint64             `json:"token"`
	Date            types.Date         `json:"date"`
	DurationMinutes int                `json:"durationMinutes"`
	PartySize       int                `json:"partySize,omitempty"`
	Slots           []types.TimeString `json:"slots,omitempty"`
	ErrorMessage    string             `json:"errorMessage,omitempty"`
}

// AvailabilityQuery is one slot query issued for the session
type AvailabilityQuery struct {
	Token           uint64
	BusinessSlug    string
	Mode            BusinessMode
	Date            types.Date
	ServiceID       *string
	DurationMinutes int
	PartySize       *int
}

// Availability returns a copy of the availability state
func (s *Session) Availability() Availability {
	a := s.availability
	if a.State == "" {
		a.State = AvailabilityIdle
	}
	a.Slots = make([]types.TimeString, len(s.availability.Slots))
	copy(a.Slots, s.availability.Slots)
	return a
}

// NeedsAvailability returns true when a date is chosen but the slot list
// was never resolved or was resolved for another date, duration or party size
func (s *Session) NeedsAvailability() bool {
	if s.date.IsZero() || !s.HasPrimarySelection() {
		return false
	}
	if s.status == StatusSubmitting || s.status == StatusConfirmed {
		return false
	}
	if s.availability.State == "" || s.availability.State == AvailabilityIdle {
		return true
	}
	return !s.availabilityCurrent()
}

// BeginAvailability starts a new slot query for the current selection
// Any previous query becomes stale; the chosen time is cleared
func (s *Session) BeginAvailability() (AvailabilityQuery, error) {
	if err := s.checkMutable(); err != nil {
		return AvailabilityQuery{}, err
	}
	if s.date.IsZero() {
		return AvailabilityQuery{}, fmt.Errorf("%w: date is not selected", ErrState)
	}
	if !s.HasPrimarySelection() {
		return AvailabilityQuery{}, fmt.Errorf("%w: service or party size is not selected", ErrState)
	}

	token := s.availability.Token + 1
	s.availability = Availability{
		State:           AvailabilityLoading,
		Token:           token,
		Date:            s.date,
		DurationMinutes: s.TotalDurationMinutes(),
		PartySize:       s.queryPartySize(),
	}
	s.time = ""

	query := AvailabilityQuery{
		Token:           token,
		BusinessSlug:    s.businessSlug,
		Mode:            s.mode,
		Date:            s.date,
		DurationMinutes: s.availability.DurationMinutes,
	}
	if s.mode == ModeCapacityBased {
		partySize := s.partySize
		query.PartySize = &partySize
	} else {
		serviceID := s.primaryService.ID
		query.ServiceID = &serviceID
	}
	return query, nil
}

// RetryAvailability re-issues the query that ended in the Error state
func (s *Session) RetryAvailability() (AvailabilityQuery, error) {
	if s.availability.State != AvailabilityError {
		return AvailabilityQuery{}, fmt.Errorf("%w: nothing to retry, availability is %s", ErrState, s.availability.State)
	}
	return s.BeginAvailability()
}

// ApplyAvailability commits slots of a finished query
// Returns false when the query is stale (superseded token or another date); the result is dropped
func (s *Session) ApplyAvailability(token uint64, date types.Date, slots []types.TimeString) bool {
	if !s.isPending(token, date) {
		return false
	}

	s.availability.Slots = make([]types.TimeString, len(slots))
	copy(s.availability.Slots, slots)
	s.availability.ErrorMessage = ""
	if len(slots) == 0 {
		s.availability.State = AvailabilityEmpty
	} else {
		s.availability.State = AvailabilityReady
	}
	return true
}

// FailAvailability records a failed query
// Returns false when the query is stale; the failure is dropped
func (s *Session) FailAvailability(token uint64, date types.Date, message string) bool {
	if !s.isPending(token, date) {
		return false
	}

	s.availability.Slots = nil
	s.availability.State = AvailabilityError
	s.availability.ErrorMessage = message
	return true
}

func (s *Session) isPending(token uint64, date types.Date) bool {
	return s.availability.State == AvailabilityLoading &&
		s.availability.Token == token &&
		s.availability.Date.Equal(date) &&
		s.date.Equal(date)
}

// availabilityCurrent returns true when the stored slots were resolved for the current key
func (s *Session) availabilityCurrent() bool {
	return s.availability.Date.Equal(s.date) &&
		s.availability.DurationMinutes == s.TotalDurationMinutes() &&
		s.availability.PartySize == s.queryPartySize()
}

func (s *Session) queryPartySize() int {
	if s.mode == ModeCapacityBased {
		return s.partySize
	}
	return 0
}
