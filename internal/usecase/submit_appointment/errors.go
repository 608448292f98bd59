package submit_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

var (
	// ErrPolicyNotAccepted возвращается, когда не принята политика обработки данных
	ErrPolicyNotAccepted = fmt.Errorf("%w: policy not accepted", domain.ErrValidation)

	// ErrNotReady возвращается, когда сессия не прошла проверку шага подтверждения
	ErrNotReady = fmt.Errorf("%w: submit_appointment: session is not ready for confirmation", domain.ErrState)

	// ErrSlotTaken возвращается, когда выбранный слот успели занять
	ErrSlotTaken = fmt.Errorf("%w: submit_appointment: slot is no longer available", domain.ErrSlotConflict)

	// ErrSubmissionFailed возвращается при любой другой ошибке создания записи
	ErrSubmissionFailed = fmt.Errorf("%w: submit_appointment: appointment was not created", domain.ErrSubmission)
)

// Сообщения для пользователя
const (
	MsgSlotConflict     = "выбранное время уже занято, пожалуйста, выберите другое время"
	MsgSubmissionFailed = "не удалось создать запись, попробуйте еще раз"
)
