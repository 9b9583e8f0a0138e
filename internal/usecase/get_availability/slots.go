package get_availability

import (
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/pkg/types"
)

// generateAvailability чистая функция генерации слотов: для каждой даты
// диапазона [start, start+days) нарезает окна приёма на слоты гранулярности
// расписания и помечает занятыми слоты, реально пересекающие активные брони
//
// Клампы диапазона (прошлое -> сегодня, same-day -> завтра, усечение по
// горизонту) выполняются вызывающей стороной, а не здесь: генератор остается
// чистой функцией от (диапазон, правила, брони, текущее время)
//
// Результат упорядочен по дате, затем по времени начала - вызывающая сторона
// может листать по дням без пересчёта предыдущих
func generateAvailability(
	tt *domain.Timetable,
	start time.Time,
	days int,
	appointments []*domain.Appointment,
	now time.Time,
) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)

	// Минимальное допустимое время начала слота
	// Слоты, начинающиеся раньше, не предлагаются вовсе
	notBefore := now.Add(time.Duration(tt.MinNoticeMinutes) * time.Minute)

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)

		if !tt.IsBookable(date, now) {
			continue
		}

		for _, window := range tt.WindowsFor(date) {
			slots = append(slots, windowSlots(tt, date, window, appointments, notBefore)...)
		}
	}

	return slots
}

// windowSlots нарезает одно окно приёма на слоты и вычисляет их доступность
func windowSlots(
	tt *domain.Timetable,
	date time.Time,
	window domain.TimeWindow,
	appointments []*domain.Appointment,
	notBefore time.Time,
) []domain.AvailableSlot {
	loc := tt.Location()
	result := make([]domain.AvailableSlot, 0)

	current := window.Start
	for current.IsBefore(window.End) {
		slotEnd, err := current.AddMinutes(tt.SlotGranularityMinutes)
		if err != nil {
			break
		}
		if slotEnd.IsAfter(window.End) {
			break
		}

		startAt := atTime(date, current, loc)
		endAt := atTime(date, slotEnd, loc)

		// Слоты, до начала которых осталось меньше минимального интервала,
		// не предлагаются
		if startAt.Before(notBefore) {
			current = slotEnd
			continue
		}

		result = append(result, domain.AvailableSlot{
			Date:      domain.DateOnly(date, loc),
			StartTime: current,
			EndTime:   slotEnd,
			Available: !hasOverlap(appointments, startAt, endAt),
		})

		current = slotEnd
	}

	return result
}

// hasOverlap проверяет, пересекает ли интервал [start, end) хотя бы одну
// активную бронь. Используются строгие неравенства: граничащие интервалы
// (конец брони совпадает с началом слота) пересечением не считаются
func hasOverlap(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// atTime собирает абсолютное время из даты и времени дня в указанной таймзоне
func atTime(date time.Time, ts types.TimeString, loc *time.Location) time.Time {
	minutes, err := ts.Minutes()
	if err != nil {
		return date
	}
	local := date.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), minutes/60, minutes%60, 0, 0, loc)
}
