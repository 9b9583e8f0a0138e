package take_reservation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("take_reservation: invalid input")
	// ErrBusinessNotFound бизнес не найден
	ErrBusinessNotFound = errors.New("take_reservation: business not found")
	// ErrTimetableNotFound расписание бизнеса не настроено
	ErrTimetableNotFound = errors.New("take_reservation: timetable not found")
	// ErrContactNotResolved не удалось определить контакт клиента
	ErrContactNotResolved = errors.New("take_reservation: contact not resolved")
	// ErrServiceNotFound услуга не найдена
	ErrServiceNotFound = errors.New("take_reservation: service not found")
	// ErrInvalidDate дата бронирования в прошлом или некорректна
	ErrInvalidDate = errors.New("take_reservation: invalid booking date")
	// ErrDateTooFarInFuture дата за пределами горизонта бронирования
	ErrDateTooFarInFuture = errors.New("take_reservation: date is too far in the future")
	// ErrSameDayNotAllowed бронирование на сегодня запрещено настройками бизнеса
	ErrSameDayNotAllowed = errors.New("take_reservation: same-day booking is not allowed")
	// ErrBusinessClosed бизнес закрыт в запрошенный день
	ErrBusinessClosed = errors.New("take_reservation: business is closed on this date")
	// ErrInvalidTimeSlot слот не попадает в рабочие окна или сетку слотов
	ErrInvalidTimeSlot = errors.New("take_reservation: time slot is not available for booking")
	// ErrTooLateToBook слот начинается раньше минимального времени уведомления
	ErrTooLateToBook = errors.New("take_reservation: too late to book this slot")
	// ErrSlotConflict слот уже занят другим бронированием
	ErrSlotConflict = errors.New("take_reservation: slot is already taken")
	// ErrDuplicatedAppointment у клиента уже есть бронирование на этот слот
	ErrDuplicatedAppointment = errors.New("take_reservation: appointment already exists")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("take_reservation: internal error")
)

// DuplicatedAppointmentError повторное бронирование того же слота тем же
// контактом. Несёт код существующей записи, чтобы клиент мог её найти
type DuplicatedAppointmentError struct {
	Code string
}

// Error возвращает текст ошибки
func (e *DuplicatedAppointmentError) Error() string {
	return fmt.Sprintf("%v: code %s", ErrDuplicatedAppointment, e.Code)
}

// Unwrap возвращает сентинельную ошибку для errors.Is
func (e *DuplicatedAppointmentError) Unwrap() error {
	return ErrDuplicatedAppointment
}
