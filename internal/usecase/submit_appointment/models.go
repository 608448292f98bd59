package submit_appointment

import (
	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
)

// Prepared сессия переведена в Submitting, тело запроса собрано
type Prepared struct {
	SessionID    string
	BusinessSlug string
	Mode         domain.BusinessMode
	Payload      bookingapi.AppointmentRequest
}

// Outcome результат сетевого вызова
type Outcome struct {
	Appointment *bookingapi.Appointment
	Err         error
}

// Response модель ответа успешной отправки
type Response struct {
	Confirmation domain.Confirmation
}
