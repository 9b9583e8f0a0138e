package get_availability

import "errors"

var (
	// ErrTimetableNotFound возвращается, когда у бизнеса нет расписания приёма
	ErrTimetableNotFound = errors.New("get_availability: timetable not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
