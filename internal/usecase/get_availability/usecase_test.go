package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FihlaTV/timegrid/internal/domain"
	timetableRepo "github.com/FihlaTV/timegrid/internal/infra/storage/timetable"
)

// Fakes

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetAgenda(_ context.Context, _ domain.AgendaFilter) ([]*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.appointments, nil
}

type fakeTimetableRepo struct {
	timetable *domain.Timetable
	err       error
}

func (f *fakeTimetableRepo) GetByBusiness(_ context.Context, _ int64) (*domain.Timetable, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.timetable, nil
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func workdayTimetable(t *testing.T, sameDayAllowed bool) *domain.Timetable {
	t.Helper()
	weekly := map[time.Weekday][]domain.TimeWindow{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekly[d] = []domain.TimeWindow{{Start: "09:00", End: "17:00"}}
	}
	tt, err := domain.NewTimetable(1, weekly, 30, 30, sameDayAllowed, 0, "UTC")
	require.NoError(t, err)
	return tt
}

func newUseCase(tt *domain.Timetable, appts []*domain.Appointment, now time.Time) *UseCase {
	uc := NewUseCase(
		&fakeAppointmentRepo{appointments: appts},
		&fakeTimetableRepo{timetable: tt},
		nopLogger{},
	)
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

func TestExecute_GeneratesSlotsForFullDay(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC) // понедельник
	uc := newUseCase(workdayTimetable(t, true), nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StartDate:  now,
		Days:       1,
	})
	require.NoError(t, err)

	// Окно 09:00-17:00 с гранулярностью 30 минут дает 16 слотов
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "09:30", resp.Slots[0].EndTime.String())
	assert.Equal(t, "16:30", resp.Slots[15].StartTime.String())

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}
}

func TestExecute_MarksOverlappingSlotsUnavailable(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	booked := &domain.Appointment{
		Status:  domain.StatusConfirmed,
		StartAt: time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, 10, 13, 11, 0, 0, 0, time.UTC),
	}
	uc := newUseCase(workdayTimetable(t, true), []*domain.Appointment{booked}, now)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 1})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 16)

	byStart := map[string]bool{}
	for _, slot := range resp.Slots {
		byStart[slot.StartTime.String()] = slot.Available
	}

	// Бронь 10:00-11:00 перекрывает два слота
	assert.False(t, byStart["10:00"])
	assert.False(t, byStart["10:30"])

	// Граничащие слоты свободны: интервалы соприкасаются, но не пересекаются
	assert.True(t, byStart["09:30"])
	assert.True(t, byStart["11:00"])
}

func TestExecute_CanceledAppointmentFreesSlot(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	canceled := &domain.Appointment{
		Status:   domain.StatusCanceled,
		Archived: true,
		StartAt:  time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2025, 10, 13, 10, 30, 0, 0, time.UTC),
	}
	uc := newUseCase(workdayTimetable(t, true), []*domain.Appointment{canceled}, now)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 1})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.StartTime)
	}
}

func TestExecute_ClampsPastStartDateToToday(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(workdayTimetable(t, true), nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StartDate:  now.AddDate(0, 0, -10),
		Days:       1,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), resp.StartDate)
}

func TestExecute_SameDayDisabledStartsTomorrow(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(workdayTimetable(t, false), nil, now)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 1})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), resp.StartDate)
	for _, slot := range resp.Slots {
		assert.Equal(t, 14, slot.Date.Day())
	}
}

func TestExecute_TruncatesRangeToBookingHorizon(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(workdayTimetable(t, true), nil, now)

	// Запрошено 100 дней при горизонте 30
	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 100})
	require.NoError(t, err)

	assert.Equal(t, 31, resp.Days) // сегодня + 30 дней горизонта
	last := resp.Slots[len(resp.Slots)-1]
	assert.False(t, last.Date.After(time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)))
}

func TestExecute_HorizonCountsCalendarDaysAcrossDST(t *testing.T) {
	weekly := map[time.Weekday][]domain.TimeWindow{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekly[d] = []domain.TimeWindow{{Start: "09:00", End: "17:00"}}
	}
	tt, err := domain.NewTimetable(1, weekly, 30, 7, true, 0, "America/New_York")
	require.NoError(t, err)

	// Диапазон пересекает переход на летнее время 8 марта 2026 (сутки из 23 часов)
	now := time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC)
	uc := newUseCase(tt, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 30})
	require.NoError(t, err)

	// Сегодня + 7 календарных дней горизонта, короткие сутки не в счёт
	assert.Equal(t, 8, resp.Days)
}

func TestExecute_MinNoticeHidesNearSlots(t *testing.T) {
	weekly := map[time.Weekday][]domain.TimeWindow{
		time.Monday: {{Start: "09:00", End: "12:00"}},
	}
	tt, err := domain.NewTimetable(1, weekly, 30, 30, true, 120, "UTC")
	require.NoError(t, err)

	// Сейчас 08:30, min notice 2 часа: слоты раньше 10:30 не предлагаются
	now := time.Date(2025, 10, 13, 8, 30, 0, 0, time.UTC)
	uc := newUseCase(tt, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 1})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "10:30", resp.Slots[0].StartTime.String())
}

func TestExecute_Idempotent(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(workdayTimetable(t, true), nil, now)

	first, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 3})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StartDate: now, Days: 3})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_TimetableNotFound(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{},
		&fakeTimetableRepo{err: timetableRepo.ErrTimetableNotFound},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	assert.ErrorIs(t, err, ErrTimetableNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(workdayTimetable(t, true), nil, time.Now())

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, Days: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
