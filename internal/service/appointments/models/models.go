package models

import (
	"errors"
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену бронирования
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserAgendaRequest запрос на получение бронирований пользователя
type GetUserAgendaRequest struct {
	UserID int64 `json:"userId"`
}

// GetBusinessAgendaRequest запрос на получение повестки бизнеса
type GetBusinessAgendaRequest struct {
	UserID          int64      `json:"userId"`
	BusinessID      int64      `json:"businessId"`
	ServiceID       *int64     `json:"serviceId,omitempty"`       // Фильтр по услуге (опционально)
	ContactID       *int64     `json:"contactId,omitempty"`       // Фильтр по контакту (опционально)
	StartAt         *time.Time `json:"startAt,omitempty"`         // Начало периода (опционально)
	EndAt           *time.Time `json:"endAt,omitempty"`           // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeArchived bool       `json:"includeArchived,omitempty"` // Включить архивные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessAgendaRequest) ToDomainFilter() (domain.AgendaFilter, error) {
	filter := domain.AgendaFilter{
		BusinessID:      r.BusinessID,
		ServiceID:       r.ServiceID,
		ContactID:       r.ContactID,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		IncludeArchived: r.IncludeArchived,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными бронирования
type AppointmentResponse struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessId"`
	ContactID  int64  `json:"contactId"`
	ServiceID  int64  `json:"serviceId"`
	IssuerID   *int64 `json:"issuerId,omitempty"`

	StartAt time.Time `json:"startAt"` // UTC, ISO 8601
	EndAt   time.Time `json:"endAt"`

	Status string `json:"status"`
	Code   string `json:"code"`

	Comments *string `json:"comments,omitempty"`

	// Денормализованные данные
	BusinessName string `json:"businessName,omitempty"`
	ServiceName  string `json:"serviceName,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CanceledAt         *string `json:"canceledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком бронирований
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует доменную модель в response
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:                 appt.ID,
		BusinessID:         appt.BusinessID,
		ContactID:          appt.ContactID,
		ServiceID:          appt.ServiceID,
		IssuerID:           appt.IssuerID,
		StartAt:            appt.StartAt,
		EndAt:              appt.EndAt,
		Status:             string(appt.Status),
		Code:               appt.Code,
		Comments:           appt.Comments,
		BusinessName:       appt.BusinessName,
		ServiceName:        appt.ServiceName,
		ContactName:        appt.ContactName,
		ContactEmail:       appt.ContactEmail,
		CancellationReason: appt.CancellationReason,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}

	if appt.CanceledAt != nil {
		canceledAt := appt.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &canceledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список доменных моделей в response
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	responses := make([]AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		responses = append(responses, *FromDomainAppointment(appt))
	}
	return &AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCanceled:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
