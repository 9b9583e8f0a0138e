package timetables

import (
	"context"
	"errors"
	"fmt"

	"github.com/FihlaTV/timegrid/internal/domain"
	businessRepo "github.com/FihlaTV/timegrid/internal/infra/storage/business"
	timetableRepo "github.com/FihlaTV/timegrid/internal/infra/storage/timetable"
	"github.com/FihlaTV/timegrid/internal/service/timetables/models"
)

// Service сервис для работы с расписаниями бизнесов
type Service struct {
	timetables TimetableRepository
	businesses BusinessRepository
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	timetables TimetableRepository,
	businesses BusinessRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		timetables: timetables,
		businesses: businesses,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetByBusiness получает расписание бизнеса
// Публичный метод - расписание нужно клиентам для выбора слота
func (s *Service) GetByBusiness(ctx context.Context, businessID int64) (*models.TimetableResponse, error) {
	s.logger.Info("GetByBusiness: fetching timetable for business=%d", businessID)

	tt, err := s.timetables.GetByBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, timetableRepo.ErrTimetableNotFound) {
			s.logger.Warn("GetByBusiness: timetable for business=%d not found", businessID)
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("GetByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByBusiness: successfully fetched timetable for business=%d", businessID)
	return models.FromDomainTimetable(tt), nil
}

// Update создает или заменяет расписание бизнеса целиком
// Доступно только владельцу бизнеса. Существующие брони не затрагиваются:
// изменение расписания влияет только на будущую доступность слотов
func (s *Service) Update(ctx context.Context, req *models.UpdateTimetableRequest) (*models.TimetableResponse, error) {
	s.logger.Info("Update: updating timetable for business=%d by user=%d", req.BusinessID, req.UserID)

	// Проверяем права доступа владельца
	business, err := s.businesses.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("Update: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(req.UserID) {
		s.logger.Warn("Update: user=%d is not the owner of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// Конвертируем и валидируем конфигурацию расписания
	tt, err := req.ToDomainTimetable()
	if err != nil {
		if errors.Is(err, domain.ErrConfigInvalid) || errors.Is(err, models.ErrInvalidWeekday) {
			s.logger.Warn("Update: invalid timetable for business=%d: %v", req.BusinessID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("Update: failed to convert timetable for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to convert timetable: %v", ErrInternal, err)
	}

	// Upsert настроек и перезапись окон выполняются атомарно
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.timetables.Save(txCtx, tt)
	})
	if err != nil {
		s.logger.Error("Update: failed to save timetable for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated timetable for business=%d", req.BusinessID)
	return models.FromDomainTimetable(tt), nil
}
