package notifications

import (
	"context"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/internal/integrations/mailservice"
	"github.com/FihlaTV/timegrid/internal/integrations/notifyservice"
)

// MailClient интерфейс клиента сервиса почты
type MailClient interface {
	Send(ctx context.Context, mail mailservice.MailRequest) error
}

// NotifyClient интерфейс клиента ленты уведомлений
type NotifyClient interface {
	Notify(ctx context.Context, n notifyservice.Notification) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
