package update_timetable

import (
	"context"

	"github.com/FihlaTV/timegrid/internal/service/timetables/models"
)

type TimetableService interface {
	Update(ctx context.Context, req *models.UpdateTimetableRequest) (*models.TimetableResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
