package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/FihlaTV/timegrid/pkg/types"
)

var (
	// ErrConfigInvalid возвращается при некорректной конфигурации расписания
	// Возникает только при конструировании, никогда при обработке запросов
	ErrConfigInvalid = errors.New("domain: invalid timetable configuration")
)

// TimeWindow окно приёма в пределах одного дня [Start, End)
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains возвращает true, если интервал [start, end) целиком лежит в окне
func (w TimeWindow) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.Start) && !end.IsAfter(w.End)
}

// Timetable правила приёма бизнеса: недельное расписание, гранулярность слотов
// и ограничения горизонта бронирования. Вся wall-clock арифметика выполняется
// в таймзоне бизнеса; таймзона запрашивающего конвертируется на границе API.
type Timetable struct {
	BusinessID             int64
	Weekly                 map[time.Weekday][]TimeWindow // Пустой список = выходной
	SlotGranularityMinutes int
	FutureDaysLimit        int  // Максимум дней вперёд для бронирования
	SameDayAllowed         bool // Можно ли бронировать на сегодня
	MinNoticeMinutes       int  // Минимальный интервал до начала слота
	Timezone               string

	loc *time.Location
}

// NewTimetable конструирует расписание с валидацией конфигурации
// Некорректная конфигурация отклоняется с ErrConfigInvalid
func NewTimetable(
	businessID int64,
	weekly map[time.Weekday][]TimeWindow,
	slotGranularityMinutes int,
	futureDaysLimit int,
	sameDayAllowed bool,
	minNoticeMinutes int,
	timezone string,
) (*Timetable, error) {
	if slotGranularityMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot granularity must be positive, got %d", ErrConfigInvalid, slotGranularityMinutes)
	}

	if futureDaysLimit < 0 {
		return nil, fmt.Errorf("%w: future days limit must not be negative, got %d", ErrConfigInvalid, futureDaysLimit)
	}

	if minNoticeMinutes < 0 {
		return nil, fmt.Errorf("%w: min notice minutes must not be negative, got %d", ErrConfigInvalid, minNoticeMinutes)
	}

	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrConfigInvalid, timezone)
	}

	normalized := make(map[time.Weekday][]TimeWindow, len(weekly))
	for weekday, windows := range weekly {
		sorted, err := normalizeWindows(windows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, weekday, err)
		}
		normalized[weekday] = sorted
	}

	return &Timetable{
		BusinessID:             businessID,
		Weekly:                 normalized,
		SlotGranularityMinutes: slotGranularityMinutes,
		FutureDaysLimit:        futureDaysLimit,
		SameDayAllowed:         sameDayAllowed,
		MinNoticeMinutes:       minNoticeMinutes,
		Timezone:               timezone,
		loc:                    loc,
	}, nil
}

// normalizeWindows сортирует окна дня и проверяет их корректность:
// валидный формат времени, Start < End, окна не пересекаются
func normalizeWindows(windows []TimeWindow) ([]TimeWindow, error) {
	sorted := make([]TimeWindow, len(windows))
	copy(sorted, windows)

	for _, w := range sorted {
		if err := w.Start.Validate(); err != nil {
			return nil, err
		}
		if err := w.End.Validate(); err != nil {
			return nil, err
		}
		if !w.Start.IsBefore(w.End) {
			return nil, fmt.Errorf("window start %s is not before end %s", w.Start, w.End)
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.IsBefore(sorted[j].Start)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.IsBefore(sorted[i-1].End) {
			return nil, fmt.Errorf("windows %s-%s and %s-%s overlap",
				sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End)
		}
	}

	return sorted, nil
}

// Location возвращает таймзону бизнеса
func (t *Timetable) Location() *time.Location {
	if t.loc == nil {
		return time.UTC
	}
	return t.loc
}

// WindowsFor возвращает упорядоченные окна приёма на указанную дату
// Пустой результат означает выходной день
func (t *Timetable) WindowsFor(date time.Time) []TimeWindow {
	return t.Weekly[date.In(t.Location()).Weekday()]
}

// IsOpen возвращает true, если указанное время дня попадает в окно приёма
func (t *Timetable) IsOpen(date time.Time, at types.TimeString) bool {
	for _, w := range t.WindowsFor(date) {
		if !at.IsBefore(w.Start) && at.IsBefore(w.End) {
			return true
		}
	}
	return false
}

// IsBookable возвращает true, если на указанную дату можно бронировать:
// дата не в прошлом, соблюдены ограничения same-day и FutureDaysLimit
func (t *Timetable) IsBookable(date, now time.Time) bool {
	day := DateOnly(date, t.Location())
	today := DateOnly(now, t.Location())

	if day.Before(today) {
		return false
	}

	if day.Equal(today) && !t.SameDayAllowed {
		return false
	}

	if t.FutureDaysLimit > 0 {
		maxDate := today.AddDate(0, 0, t.FutureDaysLimit)
		if day.After(maxDate) {
			return false
		}
	}

	return true
}

// FitsSlotGrid проверяет, что интервал [start, start+duration) лежит целиком
// в одном окне приёма и выровнен по сетке слотов этого окна
func (t *Timetable) FitsSlotGrid(date time.Time, start types.TimeString, durationMinutes int) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	for _, w := range t.WindowsFor(date) {
		if !w.Contains(start, end) {
			continue
		}

		startMin, err := start.Minutes()
		if err != nil {
			return false
		}
		windowMin, err := w.Start.Minutes()
		if err != nil {
			return false
		}
		return (startMin-windowMin)%t.SlotGranularityMinutes == 0
	}

	return false
}

// DateOnly обнуляет время, оставляя только дату в указанной таймзоне
func DateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
