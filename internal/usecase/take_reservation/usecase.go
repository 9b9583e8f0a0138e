package take_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/internal/events"
	apptRepo "github.com/FihlaTV/timegrid/internal/infra/storage/appointment"
	businessRepo "github.com/FihlaTV/timegrid/internal/infra/storage/business"
	contactRepo "github.com/FihlaTV/timegrid/internal/infra/storage/contact"
	serviceRepo "github.com/FihlaTV/timegrid/internal/infra/storage/service"
	timetableRepo "github.com/FihlaTV/timegrid/internal/infra/storage/timetable"
	"github.com/FihlaTV/timegrid/pkg/codegen"
	"github.com/FihlaTV/timegrid/pkg/ptr"
	"github.com/FihlaTV/timegrid/pkg/types"
)

// UseCase use case бронирования слота
type UseCase struct {
	appointments AppointmentRepository
	timetables   TimetableRepository
	businesses   BusinessRepository
	contacts     ContactRepository
	services     ServiceRepository
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointments AppointmentRepository,
	timetables TimetableRepository,
	businesses BusinessRepository,
	contacts ContactRepository,
	services ServiceRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointments: appointments,
		timetables:   timetables,
		businesses:   businesses,
		contacts:     contacts,
		services:     services,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case бронирования слота
// Использует сериализуемую транзакцию: при одновременных запросах на один
// слот ровно один из них получает бронирование, остальные - ErrSlotConflict
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	uc.logger.Info("TakeReservation: business=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TakeReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес
	business, err := uc.businesses.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("TakeReservation: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("TakeReservation: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем расписание бизнеса
	timetable, err := uc.timetables.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, timetableRepo.ErrTimetableNotFound) {
			uc.logger.Warn("TakeReservation: timetable for business id=%d not found", req.BusinessID)
			return nil, ErrTimetableNotFound
		}
		uc.logger.Error("TakeReservation: failed to get timetable for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get timetable: %v", ErrInternal, err)
	}

	// 4. Определяем контакт клиента
	contact, err := uc.resolveContact(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Получаем услугу
	service, err := uc.services.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("TakeReservation: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("TakeReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 6. Вычисляем абсолютное время начала и конца слота.
	// Дата и время запроса интерпретируются в таймзоне клиента,
	// все проверки выполняются в таймзоне бизнеса
	startAt, err := uc.resolveStartAt(req, timetable)
	if err != nil {
		return nil, err
	}
	endAt := startAt.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// 7. Проверяем дату, рабочие окна, сетку слотов и минимальное уведомление
	now := uc.timeProvider.Now()
	if err := uc.validateSlot(timetable, service, startAt, now); err != nil {
		return nil, err
	}

	// 8. Статус записи: гостевое бронирование ожидает подтверждения по email,
	// запись от авторизованного пользователя подтверждается сразу
	status := domain.StatusConfirmed
	if req.IssuerID == nil {
		status = domain.StatusPending
	}

	hash := codegen.NewHash()

	var result *domain.Appointment

	// 9. Выполняем проверку занятости и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Получаем пересекающиеся активные записи с блокировкой (FOR UPDATE)
		overlapping, err := uc.appointments.GetOverlapping(txCtx, req.BusinessID, req.ServiceID, startAt, endAt)
		if err != nil {
			uc.logger.Error("TakeReservation: failed to get overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to get overlapping appointments: %v", ErrInternal, err)
		}

		// 9.2. Повторное бронирование того же слота тем же контактом
		// не является конфликтом - возвращаем код существующей записи
		for _, existing := range overlapping {
			if existing.ContactID == contact.ID && existing.ServiceID == req.ServiceID &&
				existing.StartAt.Equal(startAt) {
				uc.logger.Info("TakeReservation: duplicated appointment code=%s for contact id=%d",
					existing.Code, contact.ID)
				return &DuplicatedAppointmentError{Code: existing.Code}
			}
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("TakeReservation: slot %s already taken for business=%d, service=%d",
				startAt.Format(time.RFC3339), req.BusinessID, req.ServiceID)
			return ErrSlotConflict
		}

		// 9.3. Создаем запись
		appt := &domain.Appointment{
			BusinessID: req.BusinessID,
			ContactID:  contact.ID,
			ServiceID:  req.ServiceID,
			IssuerID:   req.IssuerID,
			StartAt:    startAt.UTC(),
			EndAt:      endAt.UTC(),
			Status:     status,
			Code:       codegen.CodeFromHash(hash),
			Hash:       hash,
			Comments:   req.Comments,
			// Денормализация данных услуги
			ServiceName: service.Name,
		}

		created, err := uc.appointments.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, apptRepo.ErrSlotConflict) {
				return ErrSlotConflict
			}
			uc.logger.Error("TakeReservation: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Денормализованные поля для ответа и уведомлений
	result.BusinessName = business.Name
	result.ContactName = contact.Name
	result.ContactEmail = contact.Email

	uc.logger.Info("TakeReservation: successfully created appointment id=%d, code=%s, status=%s",
		result.ID, result.Code, result.Status)

	// 10. Публикуем событие после коммита. Ошибки уведомлений
	// не влияют на результат бронирования
	if result.Status == domain.StatusPending {
		uc.publisher.Publish(ctx, events.SoftAppointmentBooked{
			Appointment:  *result,
			BusinessName: business.Name,
			OccurredAt:   now,
		})
	} else {
		uc.publisher.Publish(ctx, events.AppointmentBooked{
			Appointment:  *result,
			BusinessName: business.Name,
			IssuerID:     ptr.Deref(req.IssuerID, 0),
			OccurredAt:   now,
		})
	}

	return &Response{Appointment: result}, nil
}

// resolveContact определяет контакт клиента по ID или email
func (uc *UseCase) resolveContact(ctx context.Context, req Request) (*domain.Contact, error) {
	if req.ContactID != nil {
		contact, err := uc.contacts.GetByID(ctx, req.BusinessID, *req.ContactID)
		if err != nil {
			if errors.Is(err, contactRepo.ErrContactNotFound) {
				uc.logger.Warn("TakeReservation: contact id=%d not found in business id=%d",
					*req.ContactID, req.BusinessID)
				return nil, ErrContactNotResolved
			}
			uc.logger.Error("TakeReservation: failed to get contact id=%d: %v", *req.ContactID, err)
			return nil, fmt.Errorf("%w: failed to get contact: %v", ErrInternal, err)
		}
		return contact, nil
	}

	contact, err := uc.contacts.FindByEmail(ctx, req.BusinessID, req.Email)
	if err != nil {
		if errors.Is(err, contactRepo.ErrContactNotFound) {
			uc.logger.Warn("TakeReservation: contact with email=%s not found in business id=%d",
				req.Email, req.BusinessID)
			return nil, ErrContactNotResolved
		}
		uc.logger.Error("TakeReservation: failed to find contact by email: %v", err)
		return nil, fmt.Errorf("%w: failed to find contact: %v", ErrInternal, err)
	}
	return contact, nil
}

// resolveStartAt строит абсолютное время начала слота из даты и времени
// запроса в таймзоне клиента
func (uc *UseCase) resolveStartAt(req Request, timetable *domain.Timetable) (time.Time, error) {
	loc := timetable.Location()
	if req.Timezone != "" {
		reqLoc, err := time.LoadLocation(req.Timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
		}
		loc = reqLoc
	}

	minutes, err := req.StartTime.Minutes()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	y, m, d := req.Date.Date()
	return time.Date(y, m, d, 0, minutes, 0, 0, loc), nil
}

// validateSlot проверяет слот по правилам расписания бизнеса
func (uc *UseCase) validateSlot(timetable *domain.Timetable, service *domain.Service, startAt, now time.Time) error {
	bizLoc := timetable.Location()
	localStart := startAt.In(bizLoc)
	day := domain.DateOnly(localStart, bizLoc)
	today := domain.DateOnly(now.In(bizLoc), bizLoc)

	// Дата в прошлом
	if day.Before(today) {
		uc.logger.Warn("TakeReservation: date %s is in the past", day.Format(domain.DateFormat))
		return ErrInvalidDate
	}

	// Запись на сегодня запрещена настройками
	if day.Equal(today) && !timetable.SameDayAllowed {
		uc.logger.Warn("TakeReservation: same-day booking is not allowed for business id=%d", timetable.BusinessID)
		return ErrSameDayNotAllowed
	}

	// Дата за пределами горизонта бронирования
	if timetable.FutureDaysLimit > 0 {
		lastAllowed := today.AddDate(0, 0, timetable.FutureDaysLimit)
		if day.After(lastAllowed) {
			uc.logger.Warn("TakeReservation: date %s is beyond the booking horizon of %d days",
				day.Format(domain.DateFormat), timetable.FutureDaysLimit)
			return ErrDateTooFarInFuture
		}
	}

	// Бизнес закрыт в этот день
	if len(timetable.WindowsFor(day)) == 0 {
		uc.logger.Warn("TakeReservation: business id=%d is closed on %s",
			timetable.BusinessID, day.Format(domain.DateFormat))
		return ErrBusinessClosed
	}

	// Слот должен попадать в рабочее окно и на сетку слотов
	startTS := types.NewTimeString(localStart)
	if !timetable.FitsSlotGrid(day, startTS, service.DurationMinutes) {
		uc.logger.Warn("TakeReservation: slot %s+%dmin does not fit the timetable of business id=%d",
			startTS, service.DurationMinutes, timetable.BusinessID)
		return ErrInvalidTimeSlot
	}

	// Минимальное время уведомления до начала слота
	if timetable.MinNoticeMinutes > 0 {
		earliest := now.Add(time.Duration(timetable.MinNoticeMinutes) * time.Minute)
		if startAt.Before(earliest) {
			uc.logger.Warn("TakeReservation: slot at %s starts earlier than the minimum notice of %d minutes",
				startAt.Format(time.RFC3339), timetable.MinNoticeMinutes)
			return ErrTooLateToBook
		}
	}

	return nil
}
