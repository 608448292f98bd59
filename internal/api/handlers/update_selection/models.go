package update_selection

import "github.com/m04kA/SMC-BookingFlow/internal/domain"

// SelectServiceRequest HTTP request model
type SelectServiceRequest struct {
	ServiceID string `json:"serviceId"`
}

// PartySizeRequest HTTP request model
type PartySizeRequest struct {
	PartySize int `json:"partySize"`
}

// AddOnRequest HTTP request model
type AddOnRequest struct {
	ServiceID string `json:"serviceId"`
}

// NotesRequest HTTP request model
type NotesRequest struct {
	Notes string `json:"notes"`
}

// ClientRequest HTTP request model
type ClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ConsentRequest HTTP request model
type ConsentRequest struct {
	Policy    bool `json:"policy"`
	Reminders bool `json:"reminders"`
}

// CandidatesResponse HTTP response model
type CandidatesResponse struct {
	Services []domain.Service `json:"services"`
}
