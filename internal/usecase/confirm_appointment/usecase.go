package confirm_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/internal/events"
	apptRepo "github.com/FihlaTV/timegrid/internal/infra/storage/appointment"
)

// UseCase use case подтверждения бронирования
type UseCase struct {
	appointments AppointmentRepository
	businesses   BusinessRepository
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointments AppointmentRepository, businesses BusinessRepository, publisher EventPublisher, logger Logger) *UseCase {
	return &UseCase{
		appointments: appointments,
		businesses:   businesses,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения бронирования
// Поиск идет по префиксу хеша (коду из письма) и email контакта
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	uc.logger.Info("ConfirmAppointment: business=%d, code=%s", req.BusinessID, req.Code)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Слишком короткий код отклоняем без запроса к хранилищу:
	// короткий префикс дал бы ложные совпадения
	if len(req.Code) < domain.MinConfirmationCodeLength {
		uc.logger.Warn("ConfirmAppointment: code %q is shorter than %d characters",
			req.Code, domain.MinConfirmationCodeLength)
		return nil, ErrCodeTooShort
	}

	// 3. Ищем запись по префиксу хеша и email
	appt, err := uc.appointments.GetByHashPrefixAndEmail(ctx, req.BusinessID, req.Code, req.Email)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ConfirmAppointment: appointment with code=%s not found", req.Code)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmAppointment: failed to get appointment by code=%s: %v", req.Code, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 4. Отмененные и архивные записи подтверждать нельзя
	if !appt.IsActive() {
		uc.logger.Warn("ConfirmAppointment: appointment id=%d is not active (status=%s, archived=%v)",
			appt.ID, appt.Status, appt.Archived)
		return nil, ErrAppointmentNotFound
	}

	// 5. Повторное подтверждение - не ошибка
	if appt.IsConfirmed() {
		uc.logger.Info("ConfirmAppointment: appointment id=%d is already confirmed", appt.ID)
		return &Response{Appointment: appt, AlreadyConfirmed: true}, nil
	}

	// 6. Подтверждаем запись
	if err := uc.appointments.UpdateStatus(ctx, appt.ID, domain.StatusConfirmed); err != nil {
		uc.logger.Error("ConfirmAppointment: failed to confirm appointment id=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm appointment: %v", ErrInternal, err)
	}
	appt.Status = domain.StatusConfirmed

	uc.logger.Info("ConfirmAppointment: successfully confirmed appointment id=%d, code=%s", appt.ID, appt.Code)

	// 7. Публикуем событие для уведомления менеджера бизнеса.
	// Имя бизнеса нужно подписчикам для темы письма
	businessName := appt.BusinessName
	if business, err := uc.businesses.GetByID(ctx, req.BusinessID); err == nil {
		businessName = business.Name
		appt.BusinessName = business.Name
	}

	uc.publisher.Publish(ctx, events.AppointmentConfirmed{
		Appointment:  *appt,
		BusinessName: businessName,
		OccurredAt:   uc.timeProvider.Now(),
	})

	return &Response{Appointment: appt}, nil
}
