package catalog

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес с таким slug не существует
	ErrBusinessNotFound = errors.New("catalog: business not found")

	// ErrServiceNotFound возвращается, когда услуги нет в каталоге бизнеса
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrUnavailable возвращается, когда API бронирований недоступно
	ErrUnavailable = errors.New("catalog: booking api unavailable")
)
