package get_timetable

import (
	"context"

	"github.com/FihlaTV/timegrid/internal/service/timetables/models"
)

type TimetableService interface {
	GetByBusiness(ctx context.Context, businessID int64) (*models.TimetableResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
