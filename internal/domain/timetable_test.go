package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FihlaTV/timegrid/pkg/types"
)

func mustTimetable(t *testing.T, weekly map[time.Weekday][]TimeWindow, granularity int) *Timetable {
	t.Helper()
	tt, err := NewTimetable(1, weekly, granularity, 30, true, 0, "UTC")
	require.NoError(t, err)
	return tt
}

func TestNewTimetable_Validation(t *testing.T) {
	weekly := map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "09:00", End: "18:00"}},
	}

	_, err := NewTimetable(1, weekly, 0, 30, true, 0, "UTC")
	assert.ErrorIs(t, err, ErrConfigInvalid)

	_, err = NewTimetable(1, weekly, 30, -1, true, 0, "UTC")
	assert.ErrorIs(t, err, ErrConfigInvalid)

	_, err = NewTimetable(1, weekly, 30, 30, true, -5, "UTC")
	assert.ErrorIs(t, err, ErrConfigInvalid)

	_, err = NewTimetable(1, weekly, 30, 30, true, 0, "Mars/Olympus")
	assert.ErrorIs(t, err, ErrConfigInvalid)

	// Окна с пересечением отклоняются
	_, err = NewTimetable(1, map[time.Weekday][]TimeWindow{
		time.Monday: {
			{Start: "09:00", End: "13:00"},
			{Start: "12:00", End: "18:00"},
		},
	}, 30, 30, true, 0, "UTC")
	assert.ErrorIs(t, err, ErrConfigInvalid)

	// Start должен быть строго раньше End
	_, err = NewTimetable(1, map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "10:00", End: "10:00"}},
	}, 30, 30, true, 0, "UTC")
	assert.ErrorIs(t, err, ErrConfigInvalid)

	// 24:00 допустимо как верхняя граница последнего окна
	tt, err := NewTimetable(1, map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "22:00", End: "24:00"}},
	}, 30, 30, true, 0, "UTC")
	require.NoError(t, err)
	assert.Equal(t, TimeWindow{Start: "22:00", End: "24:00"}, tt.Weekly[time.Monday][0])
}

func TestNewTimetable_SortsWindows(t *testing.T) {
	tt := mustTimetable(t, map[time.Weekday][]TimeWindow{
		time.Monday: {
			{Start: "14:00", End: "18:00"},
			{Start: "09:00", End: "13:00"},
		},
	}, 30)

	windows := tt.Weekly[time.Monday]
	require.Len(t, windows, 2)
	assert.Equal(t, types.TimeString("09:00"), windows[0].Start)
	assert.Equal(t, types.TimeString("14:00"), windows[1].Start)
}

func TestTimetable_WindowsFor(t *testing.T) {
	tt := mustTimetable(t, map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "09:00", End: "18:00"}},
	}, 30)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)

	assert.Len(t, tt.WindowsFor(monday), 1)
	assert.Empty(t, tt.WindowsFor(sunday)) // выходной
}

func TestTimetable_IsOpen(t *testing.T) {
	tt := mustTimetable(t, map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "09:00", End: "13:00"}},
	}, 30)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	assert.True(t, tt.IsOpen(monday, "09:00"))
	assert.True(t, tt.IsOpen(monday, "12:59"))
	assert.False(t, tt.IsOpen(monday, "13:00")) // верхняя граница эксклюзивна
	assert.False(t, tt.IsOpen(monday, "08:59"))
}

func TestTimetable_IsBookable(t *testing.T) {
	now := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

	tt, err := NewTimetable(1, nil, 30, 7, false, 0, "UTC")
	require.NoError(t, err)

	// Прошлое не бронируется
	assert.False(t, tt.IsBookable(now.AddDate(0, 0, -1), now))

	// Сегодня запрещено настройкой SameDayAllowed
	assert.False(t, tt.IsBookable(now, now))

	// Завтра и внутри горизонта разрешено
	assert.True(t, tt.IsBookable(now.AddDate(0, 0, 1), now))
	assert.True(t, tt.IsBookable(now.AddDate(0, 0, 7), now))

	// За пределами горизонта запрещено
	assert.False(t, tt.IsBookable(now.AddDate(0, 0, 8), now))

	// С разрешенным same-day сегодня бронируется
	ttSameDay, err := NewTimetable(1, nil, 30, 7, true, 0, "UTC")
	require.NoError(t, err)
	assert.True(t, ttSameDay.IsBookable(now, now))
}

func TestTimetable_FitsSlotGrid(t *testing.T) {
	tt := mustTimetable(t, map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "09:00", End: "13:00"}},
	}, 30)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	// Выровненные слоты внутри окна
	assert.True(t, tt.FitsSlotGrid(monday, "09:00", 30))
	assert.True(t, tt.FitsSlotGrid(monday, "12:30", 30))
	assert.True(t, tt.FitsSlotGrid(monday, "09:30", 60))

	// Не выровнен по сетке
	assert.False(t, tt.FitsSlotGrid(monday, "09:15", 30))

	// Выходит за пределы окна
	assert.False(t, tt.FitsSlotGrid(monday, "12:30", 60))
	assert.False(t, tt.FitsSlotGrid(monday, "08:30", 30))

	// Выходной день
	sunday := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
	assert.False(t, tt.FitsSlotGrid(sunday, "09:00", 30))

	// Окно до конца суток: слот до 24:00 помещается
	late := mustTimetable(t, map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "22:00", End: "24:00"}},
	}, 30)
	assert.True(t, late.FitsSlotGrid(monday, "23:30", 30))
	assert.False(t, late.FitsSlotGrid(monday, "23:30", 60))
}

func TestTimetable_GridAlignedToWindowStart(t *testing.T) {
	// Сетка отсчитывается от начала окна, а не от полуночи
	tt := mustTimetable(t, map[time.Weekday][]TimeWindow{
		time.Monday: {{Start: "09:15", End: "12:15"}},
	}, 30)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	assert.True(t, tt.FitsSlotGrid(monday, "09:15", 30))
	assert.True(t, tt.FitsSlotGrid(monday, "10:45", 30))
	assert.False(t, tt.FitsSlotGrid(monday, "10:00", 30))
}

func TestDateOnly(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 23:30 UTC это уже следующий день в Мадриде
	utc := time.Date(2025, 10, 13, 23, 30, 0, 0, time.UTC)
	day := DateOnly(utc, loc)

	assert.Equal(t, 14, day.Day())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, loc, day.Location())
}

func TestAppointment_Overlaps(t *testing.T) {
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	appt := &Appointment{
		StartAt: start,
		EndAt:   start.Add(30 * time.Minute),
	}

	// Реальное пересечение
	assert.True(t, appt.Overlaps(start.Add(15*time.Minute), start.Add(45*time.Minute)))
	assert.True(t, appt.Overlaps(start.Add(-15*time.Minute), start.Add(15*time.Minute)))
	assert.True(t, appt.Overlaps(start, start.Add(30*time.Minute)))

	// Граничащие интервалы не пересекаются
	assert.False(t, appt.Overlaps(start.Add(30*time.Minute), start.Add(60*time.Minute)))
	assert.False(t, appt.Overlaps(start.Add(-30*time.Minute), start))
}

func TestAppointment_Lifecycle(t *testing.T) {
	appt := &Appointment{Status: StatusPending}
	assert.True(t, appt.IsActive())
	assert.True(t, appt.CanBeCanceled())
	assert.False(t, appt.IsConfirmed())
	assert.True(t, appt.IsGuestBooking())

	appt.Status = StatusConfirmed
	assert.True(t, appt.IsActive())
	assert.True(t, appt.IsConfirmed())

	appt.Status = StatusCanceled
	appt.Archived = true
	assert.False(t, appt.IsActive())
	assert.False(t, appt.CanBeCanceled())
}
