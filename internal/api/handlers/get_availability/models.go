package get_availability

import (
	"github.com/FihlaTV/timegrid/internal/domain"
	getAvailability "github.com/FihlaTV/timegrid/internal/usecase/get_availability"
)

// SlotResponse HTTP модель доступного слота
type SlotResponse struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:30"
}

// AvailabilityResponse HTTP модель доступности бизнеса
type AvailabilityResponse struct {
	BusinessID int64          `json:"businessId"`
	StartDate  string         `json:"startDate"`
	Days       int            `json:"days"`
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			Date:      slot.Date.Format(domain.DateFormat),
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		})
	}

	return &AvailabilityResponse{
		BusinessID: resp.BusinessID,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		Days:       resp.Days,
		Slots:      slots,
	}
}
