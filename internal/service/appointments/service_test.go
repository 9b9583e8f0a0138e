package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FihlaTV/timegrid/internal/domain"
	apptRepo "github.com/FihlaTV/timegrid/internal/infra/storage/appointment"
	contactRepo "github.com/FihlaTV/timegrid/internal/infra/storage/contact"
	"github.com/FihlaTV/timegrid/internal/service/appointments/models"
	"github.com/FihlaTV/timegrid/pkg/ptr"
)

// Fakes

type fakeAppointmentRepo struct {
	appointment *domain.Appointment
	agenda      []*domain.Appointment
	getErr      error
	cancelErr   error

	canceledID     int64
	canceledReason string
	agendaFilter   domain.AgendaFilter
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.appointment, nil
}

func (f *fakeAppointmentRepo) GetAgenda(_ context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error) {
	f.agendaFilter = filter
	return f.agenda, nil
}

func (f *fakeAppointmentRepo) GetByIssuerUser(_ context.Context, _ int64) ([]*domain.Appointment, error) {
	return f.agenda, nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceledID = id
	f.canceledReason = reason
	return nil
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

func (f *fakeContactRepo) FindByUser(_ context.Context, _, _ int64) (*domain.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contact, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Владелец бизнеса - пользователь 1, бронь оформил пользователь 42 на контакт 5
func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:         10,
		BusinessID: 1,
		ContactID:  5,
		ServiceID:  2,
		IssuerID:   ptr.Ptr(int64(42)),
		StartAt:    time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2025, 10, 14, 10, 30, 0, 0, time.UTC),
		Status:     domain.StatusConfirmed,
		Code:       "A1B2C3",
	}
}

func newService(appts *fakeAppointmentRepo, contacts *fakeContactRepo) *Service {
	return NewService(
		appts,
		&fakeBusinessRepo{business: &domain.Business{ID: 1, OwnerUserID: 1}},
		contacts,
		nopLogger{},
	)
}

func TestGetByID_IssuerHasAccess(t *testing.T) {
	svc := newService(
		&fakeAppointmentRepo{appointment: testAppointment()},
		&fakeContactRepo{err: contactRepo.ErrContactNotFound},
	)

	resp, err := svc.GetByID(context.Background(), 10, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "A1B2C3", resp.Code)
}

func TestGetByID_ContactOwnerHasAccess(t *testing.T) {
	// Пользователь 77 не оформлял бронь, но бронь записана на его контакт
	svc := newService(
		&fakeAppointmentRepo{appointment: testAppointment()},
		&fakeContactRepo{contact: &domain.Contact{ID: 5, BusinessID: 1, UserID: ptr.Ptr(int64(77))}},
	)

	_, err := svc.GetByID(context.Background(), 10, 77)
	assert.NoError(t, err)
}

func TestGetByID_BusinessOwnerHasAccess(t *testing.T) {
	svc := newService(
		&fakeAppointmentRepo{appointment: testAppointment()},
		&fakeContactRepo{err: contactRepo.ErrContactNotFound},
	)

	_, err := svc.GetByID(context.Background(), 10, 1)
	assert.NoError(t, err)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	svc := newService(
		&fakeAppointmentRepo{appointment: testAppointment()},
		&fakeContactRepo{err: contactRepo.ErrContactNotFound},
	)

	_, err := svc.GetByID(context.Background(), 10, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newService(
		&fakeAppointmentRepo{getErr: apptRepo.ErrAppointmentNotFound},
		&fakeContactRepo{},
	)

	_, err := svc.GetByID(context.Background(), 10, 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetUserAgenda(t *testing.T) {
	svc := newService(
		&fakeAppointmentRepo{agenda: []*domain.Appointment{testAppointment()}},
		&fakeContactRepo{},
	)

	resp, err := svc.GetUserAgenda(context.Background(), &models.GetUserAgendaRequest{UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(10), resp.Appointments[0].ID)
}

func TestGetBusinessAgenda_OwnerOnly(t *testing.T) {
	repo := &fakeAppointmentRepo{agenda: []*domain.Appointment{testAppointment()}}
	svc := newService(repo, &fakeContactRepo{})

	status := string(domain.StatusConfirmed)
	req := &models.GetBusinessAgendaRequest{
		UserID:     1,
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(2)),
		Status:     &status,
	}

	resp, err := svc.GetBusinessAgenda(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// Фильтр конвертирован полностью
	assert.Equal(t, int64(1), repo.agendaFilter.BusinessID)
	require.NotNil(t, repo.agendaFilter.ServiceID)
	assert.Equal(t, int64(2), *repo.agendaFilter.ServiceID)
	require.NotNil(t, repo.agendaFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.agendaFilter.Status)
}

func TestGetBusinessAgenda_NonOwnerDenied(t *testing.T) {
	svc := newService(&fakeAppointmentRepo{}, &fakeContactRepo{})

	_, err := svc.GetBusinessAgenda(context.Background(), &models.GetBusinessAgendaRequest{
		UserID:     42,
		BusinessID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetBusinessAgenda_InvalidStatus(t *testing.T) {
	svc := newService(&fakeAppointmentRepo{}, &fakeContactRepo{})

	status := "rescheduled"
	_, err := svc.GetBusinessAgenda(context.Background(), &models.GetBusinessAgendaRequest{
		UserID:     1,
		BusinessID: 1,
		Status:     &status,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_ByIssuer(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: testAppointment()}
	svc := newService(repo, &fakeContactRepo{err: contactRepo.ErrContactNotFound})

	err := svc.Cancel(context.Background(), 10, &models.CancelAppointmentRequest{
		UserID:             42,
		CancellationReason: "передумал",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), repo.canceledID)
	assert.Equal(t, "передумал", repo.canceledReason)
}

func TestCancel_ByStrangerDenied(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: testAppointment()}
	svc := newService(repo, &fakeContactRepo{err: contactRepo.ErrContactNotFound})

	err := svc.Cancel(context.Background(), 10, &models.CancelAppointmentRequest{UserID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.canceledID)
}

func TestCancel_AlreadyCanceled(t *testing.T) {
	appt := testAppointment()
	appt.Status = domain.StatusCanceled
	svc := newService(&fakeAppointmentRepo{appointment: appt}, &fakeContactRepo{})

	err := svc.Cancel(context.Background(), 10, &models.CancelAppointmentRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ArchivedCannotBeCanceled(t *testing.T) {
	appt := testAppointment()
	appt.Archived = true
	svc := newService(&fakeAppointmentRepo{appointment: appt}, &fakeContactRepo{})

	err := svc.Cancel(context.Background(), 10, &models.CancelAppointmentRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}
