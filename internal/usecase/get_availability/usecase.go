package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/FihlaTV/timegrid/internal/domain"
	timetableRepo "github.com/FihlaTV/timegrid/internal/infra/storage/timetable"
)

// UseCase use case получения доступных слотов
type UseCase struct {
	appointmentRepo AppointmentRepository
	timetableRepo   TimetableRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timetableRepo TimetableRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timetableRepo:   timetableRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Результат не обязан быть транзакционно консистентным с последующей попыткой
// бронирования: устаревание ожидаемо и перепроверяется движком бронирования
// в момент коммита
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: business=%d, date=%s, days=%d",
		req.BusinessID, req.StartDate.Format(domain.DateFormat), req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем расписание бизнеса
	tt, err := uc.timetableRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, timetableRepo.ErrTimetableNotFound) {
			uc.logger.Warn("GetAvailability: timetable for business=%d not found", req.BusinessID)
			return nil, ErrTimetableNotFound
		}
		uc.logger.Error("GetAvailability: failed to get timetable: %v", err)
		return nil, fmt.Errorf("%w: failed to get timetable: %v", ErrInternal, err)
	}

	// 3. Текущее время в таймзоне бизнеса
	now := uc.timeProvider.Now().In(tt.Location())
	today := domain.DateOnly(now, tt.Location())

	// 4. Клампы начальной даты:
	// дата в прошлом -> сегодня; сегодня при выключенном same-day -> завтра
	start := domain.DateOnly(req.StartDate, tt.Location())
	if req.StartDate.IsZero() || start.Before(today) {
		start = today
	}
	if start.Equal(today) && !tt.SameDayAllowed {
		start = today.AddDate(0, 0, 1)
	}

	// 5. Усечение диапазона по горизонту бронирования:
	// слоты за пределами FutureDaysLimit не выдаются никогда
	days := req.Days
	if days <= 0 {
		days = tt.FutureDaysLimit
	}
	if days <= 0 {
		days = domain.DefaultFutureDaysLimit
	}
	if tt.FutureDaysLimit > 0 {
		lastAllowed := today.AddDate(0, 0, tt.FutureDaysLimit)
		if start.AddDate(0, 0, days-1).After(lastAllowed) {
			// Считаем календарные дни через AddDate: арифметика на часах
			// ошибается на переходах на летнее время
			days = 0
			for d := start; !d.After(lastAllowed); d = d.AddDate(0, 0, 1) {
				days++
			}
		}
	}
	if days <= 0 {
		return &Response{
			BusinessID: req.BusinessID,
			StartDate:  start,
			Days:       0,
			Slots:      []domain.AvailableSlot{},
		}, nil
	}

	// 6. Получаем активные брони на весь диапазон одним запросом
	rangeEnd := start.AddDate(0, 0, days)
	filter := domain.AgendaFilter{
		BusinessID: req.BusinessID,
		StartAt:    &start,
		EndAt:      &rangeEnd,
	}

	appointments, err := uc.appointmentRepo.GetAgenda(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты
	slots := generateAvailability(tt, start, days, appointments, now)

	uc.logger.Info("GetAvailability: generated %d slots for business=%d, start=%s, days=%d",
		len(slots), req.BusinessID, start.Format(domain.DateFormat), days)

	return &Response{
		BusinessID: req.BusinessID,
		StartDate:  start,
		Days:       days,
		Slots:      slots,
	}, nil
}
