package take_reservation

import (
	"context"
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
)

// AppointmentRepository интерфейс репозитория бронирований
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetOverlapping(ctx context.Context, businessID, serviceID int64, start, end time.Time) ([]*domain.Appointment, error)
}

// TimetableRepository интерфейс репозитория расписаний
type TimetableRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) (*domain.Timetable, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ContactRepository интерфейс репозитория контактов
type ContactRepository interface {
	GetByID(ctx context.Context, businessID, id int64) (*domain.Contact, error)
	FindByEmail(ctx context.Context, businessID int64, email string) (*domain.Contact, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, id int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации доменных событий
// Публикация выполняется после коммита транзакции и не может его откатить
type EventPublisher interface {
	Publish(ctx context.Context, event interface{})
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
