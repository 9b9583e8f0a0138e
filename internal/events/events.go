package events

import (
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
)

// Доменные события бронирования
//
// События публикуются только после коммита транзакции и несут
// денормализованные данные (имя бизнеса, дата, код), чтобы подписчики
// могли действовать без повторных запросов к хранилищу

// AppointmentBooked публикуется после успешного бронирования
// пользователем с аккаунтом
type AppointmentBooked struct {
	Appointment  domain.Appointment
	BusinessName string
	IssuerID     int64
	OccurredAt   time.Time
}

// SoftAppointmentBooked публикуется после успешного гостевого бронирования
// (бронь без аутентифицированного пользователя)
type SoftAppointmentBooked struct {
	Appointment  domain.Appointment
	BusinessName string
	OccurredAt   time.Time
}

// AppointmentConfirmed публикуется после подтверждения брони по коду
type AppointmentConfirmed struct {
	Appointment  domain.Appointment
	BusinessName string
	OccurredAt   time.Time
}
