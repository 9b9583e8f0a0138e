package get_user_agenda

import (
	"context"

	"github.com/FihlaTV/timegrid/internal/service/appointments/models"
)

type AppointmentService interface {
	GetUserAgenda(ctx context.Context, req *models.GetUserAgendaRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
