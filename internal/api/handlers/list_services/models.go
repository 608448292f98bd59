package list_services

import "github.com/m04kA/SMC-BookingFlow/internal/domain"

// ServicesResponse HTTP response model
type ServicesResponse struct {
	Services []domain.Service `json:"services"`
}

// FromDomainServices конвертирует каталог в HTTP response
func FromDomainServices(services []domain.Service) *ServicesResponse {
	if services == nil {
		services = []domain.Service{}
	}
	return &ServicesResponse{Services: services}
}
