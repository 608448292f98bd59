package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

// SessionStatus represents the lifecycle state of a booking session
type SessionStatus string

const (
	StatusBuilding   SessionStatus = "building"
	StatusSubmitting SessionStatus = "submitting"
	StatusConfirmed  SessionStatus = "confirmed"
	StatusFailed     SessionStatus = "failed"
)

// FailureKind classifies a failed submission
type FailureKind string

const (
	FailureSlotConflict FailureKind = "slot_conflict"
	FailureSubmission   FailureKind = "submission_error"
)

// SubmissionFailure is the user-visible outcome of the last failed submit
type SubmissionFailure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// Appointment is the canonical record returned by the booking API
type Appointment struct {
	ID              string    `json:"id"`
	ClientName      string    `json:"clientName"`
	ClientPhone     string    `json:"clientPhone"`
	ClientEmail     string    `json:"clientEmail"`
	ScheduledDate   string    `json:"scheduledDate"`
	AppointmentTime string    `json:"appointmentTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status,omitempty"`
	Services        []Service `json:"services,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	PartySize       *int      `json:"partySize,omitempty"`
}

// Confirmation holds the result of a successful submission
type Confirmation struct {
	AppointmentID string      `json:"appointmentId"`
	Appointment   Appointment `json:"appointment"`
	ConfirmedAt   time.Time   `json:"confirmedAt"`
}

// Session is the booking aggregate root
// It is mutated exclusively through its methods; every method either fully applies or returns an error
type Session struct {
	id           string
	businessSlug string
	mode         BusinessMode
	maxPartySize int

	primaryService     *Service
	partySize          int
	additionalServices []Service
	notes              string
	date               types.Date
	time               types.TimeString

	clientName  string
	clientPhone string
	clientEmail string

	consentPolicy    bool
	consentReminders bool

	status       SessionStatus
	availability Availability
	confirmation *Confirmation
	lastFailure  *SubmissionFailure
}

// NewSession creates an empty session for a resolved business
// CapacityBased sessions start with the table reservation placeholder as primary service
func NewSession(id, businessSlug string, mode BusinessMode, maxPartySize int) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	if strings.TrimSpace(businessSlug) == "" {
		return nil, fmt.Errorf("%w: business slug is required", ErrValidation)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown business mode %q", ErrValidation, mode)
	}
	if maxPartySize < MinPartySize {
		maxPartySize = DefaultMaxPartySize
	}

	s := &Session{
		id:           id,
		businessSlug: businessSlug,
		mode:         mode,
		maxPartySize: maxPartySize,
	}
	s.Reset()
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// BusinessSlug returns the tenant slug
func (s *Session) BusinessSlug() string { return s.businessSlug }

// Mode returns the business mode the session was created for
func (s *Session) Mode() BusinessMode { return s.mode }

// MaxPartySize returns the upper bound for party size
func (s *Session) MaxPartySize() int { return s.maxPartySize }

// PrimaryService returns a copy of the primary service or nil
func (s *Session) PrimaryService() *Service {
	if s.primaryService == nil {
		return nil
	}
	primary := *s.primaryService
	return &primary
}

// PartySize returns the party size (0 when not chosen)
func (s *Session) PartySize() int { return s.partySize }

// AdditionalServices returns a copy of the add-ons in selection order
func (s *Session) AdditionalServices() []Service {
	out := make([]Service, len(s.additionalServices))
	copy(out, s.additionalServices)
	return out
}

// Notes returns the free-form notes
func (s *Session) Notes() string { return s.notes }

// Date returns the chosen date (zero when not chosen)
func (s *Session) Date() types.Date { return s.date }

// Time returns the chosen slot label (zero when not chosen)
func (s *Session) Time() types.TimeString { return s.time }

// ClientName returns the raw client name
func (s *Session) ClientName() string { return s.clientName }

// ClientPhone returns the raw client phone
func (s *Session) ClientPhone() string { return s.clientPhone }

// ClientEmail returns the raw client email
func (s *Session) ClientEmail() string { return s.clientEmail }

// ConsentPolicy returns true when the data policy was accepted
func (s *Session) ConsentPolicy() bool { return s.consentPolicy }

// ConsentReminders returns true when the client accepted reminders
func (s *Session) ConsentReminders() bool { return s.consentReminders }

// Status returns the lifecycle status
func (s *Session) Status() SessionStatus { return s.status }

// Confirmation returns the confirmation of a Confirmed session or nil
func (s *Session) Confirmation() *Confirmation {
	if s.confirmation == nil {
		return nil
	}
	c := *s.confirmation
	return &c
}

// LastFailure returns the last submission failure or nil
func (s *Session) LastFailure() *SubmissionFailure {
	if s.lastFailure == nil {
		return nil
	}
	f := *s.lastFailure
	return &f
}

// HasPrimarySelection returns true when step 1 data is complete:
// a named service for ServiceBased, a party size for CapacityBased
func (s *Session) HasPrimarySelection() bool {
	if s.mode == ModeCapacityBased {
		return s.partySize >= MinPartySize && s.primaryService != nil
	}
	return s.primaryService != nil
}

// HasDateTime returns true when both date and time are chosen
func (s *Session) HasDateTime() bool {
	return !s.date.IsZero() && !s.time.IsZero()
}

// Services returns the ordered services list (primary first)
func (s *Session) Services() []Service {
	if s.primaryService == nil {
		return nil
	}
	out := make([]Service, 0, 1+len(s.additionalServices))
	out = append(out, *s.primaryService)
	out = append(out, s.additionalServices...)
	return out
}

// TotalDurationMinutes returns the duration the booking requires
func (s *Session) TotalDurationMinutes() int {
	if s.mode == ModeCapacityBased {
		return TableReservationDurationMinutes
	}
	total := 0
	for _, svc := range s.Services() {
		total += svc.DurationMinutes
	}
	return total
}

// TotalPrice returns the summed price of all selected services
func (s *Session) TotalPrice() float64 {
	total := 0.0
	for _, svc := range s.Services() {
		total += svc.Price
	}
	return total
}

// SetPrimaryService selects the primary service
// Clears add-ons, date and time
func (s *Session) SetPrimaryService(service Service) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if s.mode != ModeServiceBased {
		return fmt.Errorf("%w: primary service is derived from party size in %s mode", ErrState, s.mode)
	}
	if err := validateService(service); err != nil {
		return err
	}

	primary := service
	s.primaryService = &primary
	s.additionalServices = nil
	s.date = types.Date{}
	s.time = ""
	s.availability = Availability{Token: s.availability.Token}
	s.touch()
	return nil
}

// SetPartySize sets the party size clamped to [MinPartySize, MaxPartySize]
// The primary service becomes the table reservation placeholder
func (s *Session) SetPartySize(n int) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if s.mode != ModeCapacityBased {
		return fmt.Errorf("%w: party size applies only to %s mode", ErrState, ModeCapacityBased)
	}

	if n < MinPartySize {
		n = MinPartySize
	}
	if n > s.maxPartySize {
		n = s.maxPartySize
	}

	placeholder := TableReservationService()
	s.primaryService = &placeholder
	if n != s.partySize {
		s.time = ""
	}
	s.partySize = n
	s.touch()
	return nil
}

// AddAdditionalService appends an add-on
// Returns false without changes when the service is already selected or is the primary
func (s *Session) AddAdditionalService(service Service) (bool, error) {
	if err := s.checkMutable(); err != nil {
		return false, err
	}
	if s.mode != ModeServiceBased {
		return false, fmt.Errorf("%w: add-ons are not available in %s mode", ErrState, s.mode)
	}
	if s.primaryService == nil {
		return false, fmt.Errorf("%w: primary service is not selected", ErrState)
	}
	if err := validateService(service); err != nil {
		return false, err
	}

	if service.ID == s.primaryService.ID || s.hasAdditional(service.ID) {
		return false, nil
	}

	s.additionalServices = append(s.additionalServices, service)
	s.time = ""
	s.touch()
	return true, nil
}

// RemoveAdditionalService removes an add-on by id
// Returns false without changes when the id is not selected
func (s *Session) RemoveAdditionalService(id string) (bool, error) {
	if err := s.checkMutable(); err != nil {
		return false, err
	}

	idx := -1
	for i, svc := range s.additionalServices {
		if svc.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	remaining := make([]Service, 0, len(s.additionalServices)-1)
	remaining = append(remaining, s.additionalServices[:idx]...)
	remaining = append(remaining, s.additionalServices[idx+1:]...)
	s.additionalServices = remaining
	s.time = ""
	s.touch()
	return true, nil
}

// SetNotes replaces the notes
func (s *Session) SetNotes(text string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if utf8.RuneCountInString(text) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrValidation, MaxNotesLength)
	}

	s.notes = text
	s.touch()
	return nil
}

// SetDate selects the booking date and clears the chosen time
// today is the current calendar date of the business
func (s *Session) SetDate(date types.Date, today types.Date) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if date.Before(today) {
		return fmt.Errorf("%w: date %s is in the past", ErrValidation, date)
	}
	if !s.HasPrimarySelection() {
		return fmt.Errorf("%w: service or party size is not selected", ErrState)
	}

	s.date = date
	s.time = ""
	s.touch()
	return nil
}

// SetTime selects a slot from the availability resolved for the current date
func (s *Session) SetTime(label types.TimeString) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if s.date.IsZero() {
		return fmt.Errorf("%w: date is not selected", ErrState)
	}

	requested, err := types.ParseTimeString(label.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if !s.availabilityCurrent() || s.availability.State != AvailabilityReady {
		return fmt.Errorf("%w: availability for %s is not resolved", ErrState, s.date)
	}
	slot, ok := findSlot(s.availability.Slots, requested)
	if !ok {
		if _, err := requested.Minutes(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return fmt.Errorf("%w: slot %s is not available on %s", ErrState, requested, s.date)
	}

	// хранится метка сервера, она же уходит в запрос создания записи
	s.time = slot
	s.touch()
	return nil
}

// SetClientDetails stores raw contact details; validation is the caller's job
func (s *Session) SetClientDetails(name, phone, email string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}

	s.clientName = name
	s.clientPhone = phone
	s.clientEmail = email
	s.touch()
	return nil
}

// SetConsent stores the consent checkboxes
func (s *Session) SetConsent(policy, reminders bool) error {
	if err := s.checkMutable(); err != nil {
		return err
	}

	s.consentPolicy = policy
	s.consentReminders = reminders
	s.touch()
	return nil
}

// Reset returns every field to its initial value and status to Building
// Tenant context (slug, mode, party size limit) and the availability token survive
func (s *Session) Reset() {
	s.primaryService = nil
	if s.mode == ModeCapacityBased {
		placeholder := TableReservationService()
		s.primaryService = &placeholder
	}
	s.partySize = 0
	s.additionalServices = nil
	s.notes = ""
	s.date = types.Date{}
	s.time = ""
	s.clientName = ""
	s.clientPhone = ""
	s.clientEmail = ""
	s.consentPolicy = false
	s.consentReminders = false
	s.status = StatusBuilding
	s.availability = Availability{Token: s.availability.Token}
	s.confirmation = nil
	s.lastFailure = nil
}

// Acknowledge resets a Confirmed session after its confirmation was shown
func (s *Session) Acknowledge() error {
	if s.status != StatusConfirmed {
		return fmt.Errorf("%w: session is %s, not confirmed", ErrState, s.status)
	}
	s.Reset()
	return nil
}

// BeginSubmission moves Building (or Failed) to Submitting
func (s *Session) BeginSubmission() error {
	if s.status != StatusBuilding && s.status != StatusFailed {
		return fmt.Errorf("%w: cannot submit from %s", ErrState, s.status)
	}
	s.status = StatusSubmitting
	s.lastFailure = nil
	return nil
}

// Confirm moves Submitting to Confirmed
func (s *Session) Confirm(confirmation Confirmation) error {
	if s.status != StatusSubmitting {
		return fmt.Errorf("%w: cannot confirm from %s", ErrState, s.status)
	}
	s.status = StatusConfirmed
	s.confirmation = &confirmation
	return nil
}

// Fail moves Submitting to Failed
// A slot conflict clears the time and marks availability for re-query; the date is kept
func (s *Session) Fail(kind FailureKind, message string) error {
	if s.status != StatusSubmitting {
		return fmt.Errorf("%w: cannot fail from %s", ErrState, s.status)
	}
	s.status = StatusFailed
	s.lastFailure = &SubmissionFailure{Kind: kind, Message: message}

	if kind == FailureSlotConflict {
		s.time = ""
		s.availability = Availability{Token: s.availability.Token}
	}
	return nil
}

// ResumeBuilding moves Failed back to Building so the user can retry
func (s *Session) ResumeBuilding() error {
	if s.status != StatusFailed {
		return fmt.Errorf("%w: cannot resume from %s", ErrState, s.status)
	}
	s.status = StatusBuilding
	return nil
}

// checkMutable rejects user mutations while a submission is in flight or after confirmation
func (s *Session) checkMutable() error {
	switch s.status {
	case StatusSubmitting:
		return fmt.Errorf("%w: submission in progress", ErrState)
	case StatusConfirmed:
		return fmt.Errorf("%w: session is confirmed, reset required", ErrState)
	}
	return nil
}

// touch is called after an applied user mutation
func (s *Session) touch() {
	if s.status == StatusFailed {
		s.status = StatusBuilding
	}
	s.lastFailure = nil
}

func (s *Session) hasAdditional(id string) bool {
	for _, svc := range s.additionalServices {
		if svc.ID == id {
			return true
		}
	}
	return false
}

func validateService(service Service) error {
	if strings.TrimSpace(service.ID) == "" {
		return fmt.Errorf("%w: service id is required", ErrValidation)
	}
	if service.IsPlaceholder() {
		return fmt.Errorf("%w: placeholder service cannot be selected", ErrValidation)
	}
	if service.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service %s has no duration", ErrValidation, service.ID)
	}
	return nil
}

// findSlot ищет метку сервера: сначала точное совпадение, затем то же время в другой записи
func findSlot(slots []types.TimeString, label types.TimeString) (types.TimeString, bool) {
	for _, s := range slots {
		if s == label {
			return s, true
		}
	}
	for _, s := range slots {
		if s.SameSlot(label) {
			return s, true
		}
	}
	return "", false
}
