package appointments

import (
	"context"

	"github.com/FihlaTV/timegrid/internal/domain"
)

// AppointmentRepository интерфейс репозитория бронирований
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetAgenda(ctx context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error)
	GetByIssuerUser(ctx context.Context, userID int64) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ContactRepository интерфейс репозитория контактов
type ContactRepository interface {
	FindByUser(ctx context.Context, businessID, userID int64) (*domain.Contact, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
