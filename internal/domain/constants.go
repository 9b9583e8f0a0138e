package domain

// Default timetable values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultFutureDaysLimit        = 30
	DefaultMinNoticeMinutes       = 0
	DefaultTimezone               = "UTC"
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 480 // 8 hours
	MaxFutureDaysLimit        = 365 // 1 year
	MaxCommentsLength         = 500

	// Минимальная длина префикса кода для подтверждения брони
	// Более короткий префикс отклоняется без обращения к хранилищу
	MinConfirmationCodeLength = 4
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих свой слот
// Используются при подсчёте доступности и проверке конфликтов
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
