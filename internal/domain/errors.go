package domain

import "errors"

var (
	// ErrValidation bad field input or unmet consent; resolved before any network call
	ErrValidation = errors.New("validation error")

	// ErrState operation invoked against a session not in the required state (caller bug)
	ErrState = errors.New("state error")

	// ErrNetwork availability query failed at transport or server level
	ErrNetwork = errors.New("network error")

	// ErrSlotConflict submission lost a race for the chosen slot
	ErrSlotConflict = errors.New("slot conflict")

	// ErrSubmission any other create-appointment failure
	ErrSubmission = errors.New("submission error")
)
