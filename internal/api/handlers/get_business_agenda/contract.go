package get_business_agenda

import (
	"context"

	"github.com/FihlaTV/timegrid/internal/service/appointments/models"
)

type AppointmentService interface {
	GetBusinessAgenda(ctx context.Context, req *models.GetBusinessAgendaRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
