package take_reservation

import (
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
	takeReservation "github.com/FihlaTV/timegrid/internal/usecase/take_reservation"
	"github.com/FihlaTV/timegrid/pkg/types"
)

// TakeReservationRequest HTTP request model
type TakeReservationRequest struct {
	ContactID *int64  `json:"contactId,omitempty"`
	Email     string  `json:"email,omitempty"`
	ServiceID int64   `json:"serviceId"`
	Date      string  `json:"date"`      // "2025-10-15"
	StartTime string  `json:"startTime"` // "10:00"
	Timezone  string  `json:"timezone,omitempty"`
	Comments  *string `json:"comments,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	BusinessID   int64   `json:"businessId"`
	ContactID    int64   `json:"contactId"`
	ServiceID    int64   `json:"serviceId"`
	IssuerID     *int64  `json:"issuerId,omitempty"`
	StartAt      string  `json:"startAt"` // UTC, ISO 8601
	EndAt        string  `json:"endAt"`
	Status       string  `json:"status"`
	Code         string  `json:"code"`
	BusinessName string  `json:"businessName"`
	ServiceName  string  `json:"serviceName"`
	ContactName  string  `json:"contactName"`
	Comments     *string `json:"comments,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TakeReservationRequest) ToUseCaseRequest(businessID int64, issuerID *int64) (takeReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return takeReservation.Request{}, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return takeReservation.Request{}, err
	}

	return takeReservation.Request{
		BusinessID: businessID,
		IssuerID:   issuerID,
		ContactID:  r.ContactID,
		Email:      r.Email,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		Timezone:   r.Timezone,
		Comments:   r.Comments,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *takeReservation.Response) *AppointmentResponse {
	appt := resp.Appointment
	return &AppointmentResponse{
		ID:           appt.ID,
		BusinessID:   appt.BusinessID,
		ContactID:    appt.ContactID,
		ServiceID:    appt.ServiceID,
		IssuerID:     appt.IssuerID,
		StartAt:      appt.StartAt.Format(time.RFC3339),
		EndAt:        appt.EndAt.Format(time.RFC3339),
		Status:       string(appt.Status),
		Code:         appt.Code,
		BusinessName: appt.BusinessName,
		ServiceName:  appt.ServiceName,
		ContactName:  appt.ContactName,
		Comments:     appt.Comments,
		CreatedAt:    appt.CreatedAt.Format(time.RFC3339),
	}
}
