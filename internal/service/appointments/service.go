package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/FihlaTV/timegrid/internal/domain"
	apptRepo "github.com/FihlaTV/timegrid/internal/infra/storage/appointment"
	businessRepo "github.com/FihlaTV/timegrid/internal/infra/storage/business"
	contactRepo "github.com/FihlaTV/timegrid/internal/infra/storage/contact"
	"github.com/FihlaTV/timegrid/internal/service/appointments/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	appointments AppointmentRepository
	businesses   BusinessRepository
	contacts     ContactRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	appointments AppointmentRepository,
	businesses BusinessRepository,
	contacts ContactRepository,
	logger Logger,
) *Service {
	return &Service{
		appointments: appointments,
		businesses:   businesses,
		contacts:     contacts,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь видит только свою бронь
// или любую бронь бизнеса, если он его владелец
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetUserAgenda получает все актуальные брони пользователя во всех бизнесах
// Включает брони, оформленные пользователем, и брони на его контакты
func (s *Service) GetUserAgenda(ctx context.Context, req *models.GetUserAgendaRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAgenda: fetching appointments for user=%d", req.UserID)

	appts, err := s.appointments.GetByIssuerUser(ctx, req.UserID)
	if err != nil {
		s.logger.Error("GetUserAgenda: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAgenda - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAgenda: successfully fetched %d appointments for user=%d", len(appts), req.UserID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetBusinessAgenda получает повестку бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по услуге, контакту, периоду, статусу
// и включение архивных броней. Доступно только владельцу бизнеса
func (s *Service) GetBusinessAgenda(ctx context.Context, req *models.GetBusinessAgendaRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAgenda: fetching appointments for business=%d, user=%d", req.BusinessID, req.UserID)

	// Проверяем права доступа владельца
	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAgenda: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.appointments.GetAgenda(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAgenda: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAgenda - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAgenda: successfully fetched %d appointments for business=%d", len(appts), req.BusinessID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только свою бронь,
// владелец бизнеса - любую бронь своего бизнеса
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: canceling appointment id=%d by user=%d", appointmentID, req.UserID)

	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем, можно ли отменить бронь
	if !appt.CanBeCanceled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be canceled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appt, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
		return err
	}

	if err := s.appointments.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		if errors.Is(err, apptRepo.ErrCannotCancel) {
			s.logger.Warn("Cancel: appointment id=%d cannot be canceled", appointmentID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully canceled appointment id=%d", appointmentID)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к брони
// Доступ есть у оформившего бронь, у владельца контакта брони
// и у владельца бизнеса
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	// Пользователь оформил бронь сам
	if appt.IssuerID != nil && *appt.IssuerID == userID {
		return nil
	}

	// Бронь на контакт, привязанный к аккаунту пользователя
	contact, err := s.contacts.FindByUser(ctx, appt.BusinessID, userID)
	if err == nil && contact.ID == appt.ContactID {
		return nil
	}
	if err != nil && !errors.Is(err, contactRepo.ErrContactNotFound) {
		s.logger.Error("checkUserAccess: failed to find contact for user=%d: %v", userID, err)
		return fmt.Errorf("%w: checkUserAccess - repository error: %v", ErrInternal, err)
	}

	// Владелец бизнеса видит все брони своего бизнеса
	if err := s.checkOwnerAccess(ctx, appt.BusinessID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - repository error: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}
