package timetables

import (
	"context"

	"github.com/FihlaTV/timegrid/internal/domain"
)

// TimetableRepository интерфейс репозитория расписаний
type TimetableRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) (*domain.Timetable, error)
	Save(ctx context.Context, tt *domain.Timetable) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
