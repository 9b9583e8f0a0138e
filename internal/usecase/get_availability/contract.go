package get_availability

import (
	"context"
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
)

// AppointmentRepository интерфейс репозитория бронирований
type AppointmentRepository interface {
	GetAgenda(ctx context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error)
}

// TimetableRepository интерфейс репозитория расписаний
type TimetableRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) (*domain.Timetable, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
