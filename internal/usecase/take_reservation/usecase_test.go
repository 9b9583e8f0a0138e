package take_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/internal/events"
	contactRepo "github.com/FihlaTV/timegrid/internal/infra/storage/contact"
	"github.com/FihlaTV/timegrid/pkg/ptr"
	"github.com/FihlaTV/timegrid/pkg/types"
)

// Fakes

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	stored []*domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	created := *appt
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.stored = append(f.stored, &created)
	return &created, nil
}

func (f *fakeAppointmentRepo) GetOverlapping(_ context.Context, businessID, serviceID int64, start, end time.Time) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Appointment
	for _, appt := range f.stored {
		if appt.BusinessID != businessID || appt.ServiceID != serviceID || !appt.IsActive() {
			continue
		}
		if appt.Overlaps(start.UTC(), end.UTC()) {
			result = append(result, appt)
		}
	}
	return result, nil
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

type fakeBusinessRepo struct {
	business *domain.Business
	err      error
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

type fakeContactRepo struct {
	contact *domain.Contact
	err     error
}

func (f *fakeContactRepo) GetByID(_ context.Context, _, _ int64) (*domain.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contact, nil
}

func (f *fakeContactRepo) FindByEmail(_ context.Context, _ int64, _ string) (*domain.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contact, nil
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

// fakeTxManager сериализует конкурентные транзакции мьютексом,
// моделируя поведение SERIALIZABLE
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (f *fakePublisher) Publish(_ context.Context, event interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) published() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interface{}{}, f.events...)
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

// Fixture

type fixture struct {
	uc        *UseCase
	appts     *fakeAppointmentRepo
	publisher *fakePublisher
}

func newFixture(t *testing.T, opts ...func(*domain.Timetable)) *fixture {
	t.Helper()

	weekly := map[time.Weekday][]domain.TimeWindow{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekly[d] = []domain.TimeWindow{{Start: "09:00", End: "17:00"}}
	}
	tt, err := domain.NewTimetable(1, weekly, 30, 30, false, 0, "UTC")
	require.NoError(t, err)
	for _, opt := range opts {
		opt(tt)
	}

	appts := &fakeAppointmentRepo{}
	publisher := &fakePublisher{}

	uc := NewUseCase(
		appts,
		&fakeTimetableRepo{timetable: tt},
		&fakeBusinessRepo{business: &domain.Business{ID: 1, Name: "Студия", Timezone: "UTC"}},
		&fakeContactRepo{contact: &domain.Contact{ID: 5, BusinessID: 1, Name: "Анна", Email: "anna@example.com"}},
		&fakeServiceRepo{service: &domain.Service{ID: 2, BusinessID: 1, Name: "Стрижка", DurationMinutes: 30}},
		&fakeTxManager{},
		publisher,
		nopLogger{},
	)
	// Сейчас: понедельник, слоты во вторник валидны
	uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, appts: appts, publisher: publisher}
}

func validRequest() Request {
	return Request{
		BusinessID: 1,
		IssuerID:   ptr.Ptr(int64(42)),
		ContactID:  ptr.Ptr(int64(5)),
		ServiceID:  2,
		Date:       time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString("10:00"),
	}
}

func TestExecute_AuthenticatedBookingConfirmed(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	appt := resp.Appointment
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Equal(t, time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC), appt.StartAt)
	assert.Equal(t, time.Date(2025, 10, 14, 10, 30, 0, 0, time.UTC), appt.EndAt)
	assert.NotEmpty(t, appt.Code)
	assert.NotEmpty(t, appt.Hash)
	assert.Equal(t, "Стрижка", appt.ServiceName)
	assert.Equal(t, "Студия", appt.BusinessName)
	assert.Equal(t, "anna@example.com", appt.ContactEmail)

	published := f.publisher.published()
	require.Len(t, published, 1)
	booked, ok := published[0].(events.AppointmentBooked)
	require.True(t, ok)
	assert.Equal(t, int64(42), booked.IssuerID)
	assert.Equal(t, appt.Code, booked.Appointment.Code)
}

func TestExecute_GuestBookingPending(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.IssuerID = nil
	req.ContactID = nil
	req.Email = "anna@example.com"

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Appointment.Status)

	published := f.publisher.published()
	require.Len(t, published, 1)
	soft, ok := published[0].(events.SoftAppointmentBooked)
	require.True(t, ok)
	assert.Equal(t, resp.Appointment.Code, soft.Appointment.Code)
	assert.Equal(t, "Студия", soft.BusinessName)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Другой контакт на тот же слот
	req := validRequest()
	req.IssuerID = ptr.Ptr(int64(99))
	f.uc.contacts = &fakeContactRepo{contact: &domain.Contact{ID: 7, BusinessID: 1, Name: "Борис", Email: "boris@example.com"}}

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Событие опубликовано только для успешной брони
	assert.Len(t, f.publisher.published(), 1)
}

func TestExecute_DuplicatedBookingReturnsExistingCode(t *testing.T) {
	f := newFixture(t)

	first, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest())

	var dup *DuplicatedAppointmentError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.Appointment.Code, dup.Code)
	assert.ErrorIs(t, err, ErrDuplicatedAppointment)

	// Вторая запись не создана
	assert.Len(t, f.appts.stored, 1)
}

func TestExecute_ConcurrentBookingsOneWinner(t *testing.T) {
	f := newFixture(t)
	tt := mustFixtureTimetable(t)

	// Общий менеджер транзакций: именно он сериализует конкурентные попытки
	txManager := &fakeTxManager{}

	const attempts = 10
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := validRequest()
			userID := int64(100 + n)
			req.IssuerID = &userID
			uc := NewUseCase(
				f.appts,
				&fakeTimetableRepo{timetable: tt},
				&fakeBusinessRepo{business: &domain.Business{ID: 1, Name: "Студия", Timezone: "UTC"}},
				&fakeContactRepo{contact: &domain.Contact{ID: int64(200 + n), BusinessID: 1, Email: "u@example.com"}},
				&fakeServiceRepo{service: &domain.Service{ID: 2, BusinessID: 1, Name: "Стрижка", DurationMinutes: 30}},
				txManager,
				&fakePublisher{},
				nopLogger{},
			)
			uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)}
			_, errs[n] = uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.appts.stored, 1)
}

func TestExecute_BusinessClosedDay(t *testing.T) {
	f := newFixture(t)
	tt, err := domain.NewTimetable(1, map[time.Weekday][]domain.TimeWindow{
		time.Monday: {{Start: "09:00", End: "17:00"}},
	}, 30, 30, false, 0, "UTC")
	require.NoError(t, err)
	f.uc.timetables = &fakeTimetableRepo{timetable: tt}

	// Вторник - выходной
	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Date = time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_SameDayNotAllowed(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Date = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	req.StartTime = types.TimeString("16:00")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSameDayNotAllowed)
}

func TestExecute_DateBeyondHorizon(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Date = time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_SlotOffGrid(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.StartTime = types.TimeString("10:15")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_SlotOutsideWindow(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.StartTime = types.TimeString("18:00")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_MinNotice(t *testing.T) {
	weekly := map[time.Weekday][]domain.TimeWindow{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekly[d] = []domain.TimeWindow{{Start: "09:00", End: "17:00"}}
	}
	tt, err := domain.NewTimetable(1, weekly, 30, 30, true, 24*60, "UTC")
	require.NoError(t, err)

	f := newFixture(t)
	f.uc.timetables = &fakeTimetableRepo{timetable: tt}

	// Завтра 10:00 ближе, чем за 24 часа от понедельника 12:00
	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_ContactNotResolved(t *testing.T) {
	f := newFixture(t)
	f.uc.contacts = &fakeContactRepo{err: contactRepo.ErrContactNotFound}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrContactNotResolved)
}

func TestExecute_ClientTimezone(t *testing.T) {
	f := newFixture(t)

	// 12:00 в Москве = 09:00 UTC
	req := validRequest()
	req.Timezone = "Europe/Moscow"
	req.StartTime = types.TimeString("12:00")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC), resp.Appointment.StartAt)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.BusinessID = 0
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.ContactID = nil
	req.Email = ""
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = types.TimeString("25:99")
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func mustFixtureTimetable(t *testing.T) *domain.Timetable {
	t.Helper()
	weekly := map[time.Weekday][]domain.TimeWindow{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekly[d] = []domain.TimeWindow{{Start: "09:00", End: "17:00"}}
	}
	tt, err := domain.NewTimetable(1, weekly, 30, 30, false, 0, "UTC")
	require.NoError(t, err)
	return tt
}
