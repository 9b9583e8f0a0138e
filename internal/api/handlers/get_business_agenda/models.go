package get_business_agenda

import (
	"strconv"
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/internal/service/appointments/models"
	"github.com/FihlaTV/timegrid/pkg/ptr"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров
func ToServiceRequest(businessID, userID int64, serviceIDStr, contactIDStr, statusStr, startDateStr, endDateStr, includeArchivedStr string) (*models.GetBusinessAgendaRequest, error) {
	req := &models.GetBusinessAgendaRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = ptr.Ptr(serviceID)
	}

	if contactIDStr != "" {
		contactID, err := strconv.ParseInt(contactIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ContactID = ptr.Ptr(contactID)
	}

	if statusStr != "" {
		req.Status = ptr.Ptr(statusStr)
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartAt = ptr.Ptr(startDate)
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		// Конец периода включает весь указанный день
		req.EndAt = ptr.Ptr(endDate.AddDate(0, 0, 1))
	}

	if includeArchivedStr != "" {
		includeArchived, err := strconv.ParseBool(includeArchivedStr)
		if err != nil {
			return nil, err
		}
		req.IncludeArchived = includeArchived
	}

	return req, nil
}
