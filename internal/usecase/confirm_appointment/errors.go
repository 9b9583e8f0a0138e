package confirm_appointment

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("confirm_appointment: invalid input")
	// ErrCodeTooShort код подтверждения короче минимальной длины.
	// Запрос отклоняется без обращения к хранилищу
	ErrCodeTooShort = errors.New("confirm_appointment: code is too short")
	// ErrAppointmentNotFound запись по коду и email не найдена
	ErrAppointmentNotFound = errors.New("confirm_appointment: appointment not found")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("confirm_appointment: internal error")
)
