package domain

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCanceled  AppointmentStatus = "canceled"
)

// Appointment represents a booked time slot in a business agenda
type Appointment struct {
	ID         int64
	BusinessID int64
	ContactID  int64
	ServiceID  int64
	IssuerID   *int64 // ID пользователя, оформившего бронь; nil для гостевой брони

	StartAt time.Time // Хранится в UTC, вся слотовая арифметика - в таймзоне бизнеса
	EndAt   time.Time

	Status AppointmentStatus

	Code string // Короткий публичный код брони (префикс хеша в верхнем регистре)
	Hash string // Длинный опаковый токен подтверждения

	Comments *string

	// Denormalized data for notifications and history
	BusinessName string
	ServiceName  string
	ContactName  string
	ContactEmail string

	Archived           bool // Физическое удаление не используется
	CancellationReason *string
	CanceledAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
// (pending and confirmed appointments block overlapping reservations)
func (a *Appointment) IsActive() bool {
	return !a.Archived && (a.Status == StatusPending || a.Status == StatusConfirmed)
}

// IsConfirmed returns true if the appointment has been confirmed
func (a *Appointment) IsConfirmed() bool {
	return a.Status == StatusConfirmed
}

// IsGuestBooking returns true if the appointment was made without an authenticated issuer
func (a *Appointment) IsGuestBooking() bool {
	return a.IssuerID == nil
}

// CanBeCanceled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCanceled() bool {
	return !a.Archived && (a.Status == StatusPending || a.Status == StatusConfirmed)
}

// Overlaps проверяет реальное пересечение интервала брони с [start, end)
// Граничащие интервалы (конец одного равен началу другого) не пересекаются
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartAt.Before(end) && a.EndAt.After(start)
}

// AgendaFilter фильтр для выборки бронирований бизнеса
type AgendaFilter struct {
	BusinessID      int64              // Обязательный параметр
	ServiceID       *int64             // Фильтр по услуге (опционально)
	ContactID       *int64             // Фильтр по контакту (опционально)
	StartAt         *time.Time         // Начало периода (опционально)
	EndAt           *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeArchived bool               // Включать ли архивные бронирования
}
