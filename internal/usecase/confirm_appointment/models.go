package confirm_appointment

import "github.com/FihlaTV/timegrid/internal/domain"

// Request запрос на подтверждение бронирования по коду и email
type Request struct {
	BusinessID int64
	Code       string
	Email      string
}

// Response результат подтверждения
type Response struct {
	Appointment *domain.Appointment
	// AlreadyConfirmed запись уже была подтверждена ранее.
	// Повторное подтверждение не считается ошибкой
	AlreadyConfirmed bool
}
