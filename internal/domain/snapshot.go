package domain

import (
	"fmt"

	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

// Snapshot is the persistable form of a Session
type Snapshot struct {
	ID                 string             `json:"id"`
	BusinessSlug       string             `json:"businessSlug"`
	Mode               BusinessMode       `json:"mode"`
	MaxPartySize       int                `json:"maxPartySize"`
	PrimaryService     *Service           `json:"primaryService,omitempty"`
	PartySize          int                `json:"partySize,omitempty"`
	AdditionalServices []Service          `json:"additionalServices,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	Date               types.Date         `json:"date"`
	Time               types.TimeString   `json:"time,omitempty"`
	ClientName         string             `json:"clientName,omitempty"`
	ClientPhone        string             `json:"clientPhone,omitempty"`
	ClientEmail        string             `json:"clientEmail,omitempty"`
	ConsentPolicy      bool               `json:"consentPolicy"`
	ConsentReminders   bool               `json:"consentReminders"`
	Status             SessionStatus      `json:"status"`
	Availability       Availability       `json:"availability"`
	Confirmation       *Confirmation      `json:"confirmation,omitempty"`
	LastFailure        *SubmissionFailure `json:"lastFailure,omitempty"`
}

// Snapshot returns a deep copy of the session state
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:                 s.id,
		BusinessSlug:       s.businessSlug,
		Mode:               s.mode,
		MaxPartySize:       s.maxPartySize,
		PrimaryService:     s.PrimaryService(),
		PartySize:          s.partySize,
		AdditionalServices: s.AdditionalServices(),
		Notes:              s.notes,
		Date:               s.date,
		Time:               s.time,
		ClientName:         s.clientName,
		ClientPhone:        s.clientPhone,
		ClientEmail:        s.clientEmail,
		ConsentPolicy:      s.consentPolicy,
		ConsentReminders:   s.consentReminders,
		Status:             s.status,
		Availability:       s.Availability(),
		Confirmation:       s.Confirmation(),
		LastFailure:        s.LastFailure(),
	}
}

// RestoreSession rebuilds a session from a snapshot and checks its invariants
func RestoreSession(snap Snapshot) (*Session, error) {
	s, err := NewSession(snap.ID, snap.BusinessSlug, snap.Mode, snap.MaxPartySize)
	if err != nil {
		return nil, err
	}

	switch snap.Status {
	case StatusBuilding, StatusSubmitting, StatusConfirmed, StatusFailed:
	default:
		return nil, fmt.Errorf("%w: unknown status %q in snapshot", ErrState, snap.Status)
	}

	if snap.PrimaryService != nil {
		primary := *snap.PrimaryService
		s.primaryService = &primary
	} else if snap.Mode == ModeCapacityBased {
		return nil, fmt.Errorf("%w: capacity session without placeholder service", ErrState)
	}

	seen := make(map[string]struct{}, len(snap.AdditionalServices))
	for _, svc := range snap.AdditionalServices {
		if s.primaryService != nil && svc.ID == s.primaryService.ID {
			return nil, fmt.Errorf("%w: add-on %s duplicates primary service", ErrState, svc.ID)
		}
		if _, dup := seen[svc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate add-on %s", ErrState, svc.ID)
		}
		seen[svc.ID] = struct{}{}
	}
	if len(snap.AdditionalServices) > 0 {
		s.additionalServices = append([]Service(nil), snap.AdditionalServices...)
	}

	if !snap.Time.IsZero() && snap.Date.IsZero() {
		return nil, fmt.Errorf("%w: time without date in snapshot", ErrState)
	}

	s.partySize = snap.PartySize
	s.notes = snap.Notes
	s.date = snap.Date
	s.time = snap.Time
	s.clientName = snap.ClientName
	s.clientPhone = snap.ClientPhone
	s.clientEmail = snap.ClientEmail
	s.consentPolicy = snap.ConsentPolicy
	s.consentReminders = snap.ConsentReminders
	s.status = snap.Status
	s.availability = snap.Availability
	if len(snap.Availability.Slots) > 0 {
		s.availability.Slots = append([]types.TimeString(nil), snap.Availability.Slots...)
	}
	if snap.Confirmation != nil {
		c := *snap.Confirmation
		s.confirmation = &c
	}
	if snap.LastFailure != nil {
		f := *snap.LastFailure
		s.lastFailure = &f
	}
	return s, nil
}
