package notifications

import (
	"context"
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/internal/events"
	"github.com/FihlaTV/timegrid/internal/integrations/mailservice"
	"github.com/FihlaTV/timegrid/internal/integrations/notifyservice"
)

// Шаблоны и ключи тем писем
const (
	templateUserReserved     = "appointments.user.reserved"
	templateUserValidate     = "appointments.user.validate"
	templateManagerReserved  = "appointments.manager.reserved"
	templateManagerConfirmed = "appointments.manager.confirmed"

	subjectUserReserved     = "user.appointment.reserved.subject"
	subjectUserValidate     = "user.appointment.validate.subject"
	subjectManagerReserved  = "manager.appointment.reserved.subject"
	subjectManagerConfirmed = "manager.appointment.confirmed.subject"
)

// Категории записей ленты уведомлений
const (
	categoryBooked    = "appointment.booked"
	categoryConfirmed = "appointment.confirmed"
)

// Listener подписчик доменных событий бронирования
//
// Переводит события в письма клиенту и владельцу бизнеса и в записи
// ленты уведомлений. Ошибки доставки логируются и не пробрасываются:
// бронирование уже закоммичено и не может быть откачено уведомлением
type Listener struct {
	mail       MailClient
	notify     NotifyClient
	businesses BusinessRepository
	logger     Logger
}

// NewListener создает новый экземпляр подписчика уведомлений
func NewListener(mail MailClient, notify NotifyClient, businesses BusinessRepository, logger Logger) *Listener {
	return &Listener{
		mail:       mail,
		notify:     notify,
		businesses: businesses,
		logger:     logger,
	}
}

// Handle обрабатывает доменное событие
// Регистрируется в диспетчере событий через Subscribe
func (l *Listener) Handle(ctx context.Context, event interface{}) {
	switch e := event.(type) {
	case events.AppointmentBooked:
		l.onBooked(ctx, e)
	case events.SoftAppointmentBooked:
		l.onSoftBooked(ctx, e)
	case events.AppointmentConfirmed:
		l.onConfirmed(ctx, e)
	}
}

// onBooked бронь от авторизованного пользователя: письмо клиенту,
// письмо владельцу и запись в ленту бизнеса
func (l *Listener) onBooked(ctx context.Context, e events.AppointmentBooked) {
	business, ok := l.getBusiness(ctx, e.Appointment.BusinessID)
	if !ok {
		return
	}

	params := appointmentParams(&e.Appointment, business)

	l.send(ctx, mailservice.MailRequest{
		Recipient:  mailservice.Recipient{Name: e.Appointment.ContactName, Email: e.Appointment.ContactEmail},
		TemplateID: templateUserReserved,
		SubjectKey: subjectUserReserved,
		Locale:     business.Locale,
		Timezone:   business.Timezone,
		Params:     params,
	})

	l.send(ctx, mailservice.MailRequest{
		Recipient:  mailservice.Recipient{Name: business.OwnerName, Email: business.OwnerEmail},
		TemplateID: templateManagerReserved,
		SubjectKey: subjectManagerReserved,
		Locale:     business.Locale,
		Timezone:   business.Timezone,
		Params:     params,
	})

	l.push(ctx, notifyservice.Notification{
		Category:     categoryBooked,
		FromUserID:   &e.IssuerID,
		ToBusinessID: e.Appointment.BusinessID,
		Extra:        params,
	})
}

// onSoftBooked гостевая бронь: клиенту уходит письмо с кодом
// подтверждения, владельцу - обычное уведомление о новой брони
func (l *Listener) onSoftBooked(ctx context.Context, e events.SoftAppointmentBooked) {
	business, ok := l.getBusiness(ctx, e.Appointment.BusinessID)
	if !ok {
		return
	}

	params := appointmentParams(&e.Appointment, business)

	l.send(ctx, mailservice.MailRequest{
		Recipient:  mailservice.Recipient{Name: e.Appointment.ContactName, Email: e.Appointment.ContactEmail},
		TemplateID: templateUserValidate,
		SubjectKey: subjectUserValidate,
		Locale:     business.Locale,
		Timezone:   business.Timezone,
		Params:     params,
	})

	l.send(ctx, mailservice.MailRequest{
		Recipient:  mailservice.Recipient{Name: business.OwnerName, Email: business.OwnerEmail},
		TemplateID: templateManagerReserved,
		SubjectKey: subjectManagerReserved,
		Locale:     business.Locale,
		Timezone:   business.Timezone,
		Params:     params,
	})

	l.push(ctx, notifyservice.Notification{
		Category:     categoryBooked,
		ToBusinessID: e.Appointment.BusinessID,
		Extra:        params,
	})
}

// onConfirmed подтверждение гостевой брони: уведомляем владельца
func (l *Listener) onConfirmed(ctx context.Context, e events.AppointmentConfirmed) {
	business, ok := l.getBusiness(ctx, e.Appointment.BusinessID)
	if !ok {
		return
	}

	params := appointmentParams(&e.Appointment, business)

	l.send(ctx, mailservice.MailRequest{
		Recipient:  mailservice.Recipient{Name: business.OwnerName, Email: business.OwnerEmail},
		TemplateID: templateManagerConfirmed,
		SubjectKey: subjectManagerConfirmed,
		Locale:     business.Locale,
		Timezone:   business.Timezone,
		Params:     params,
	})

	l.push(ctx, notifyservice.Notification{
		Category:     categoryConfirmed,
		ToBusinessID: e.Appointment.BusinessID,
		Extra:        params,
	})
}

// Вспомогательные методы

func (l *Listener) getBusiness(ctx context.Context, businessID int64) (*domain.Business, bool) {
	business, err := l.businesses.GetByID(ctx, businessID)
	if err != nil {
		l.logger.Error("notifications: failed to get business id=%d: %v", businessID, err)
		return nil, false
	}
	return business, true
}

func (l *Listener) send(ctx context.Context, mail mailservice.MailRequest) {
	if err := l.mail.Send(ctx, mail); err != nil {
		l.logger.Error("notifications: failed to send mail template=%s to=%s: %v",
			mail.TemplateID, mail.Recipient.Email, err)
		return
	}
	l.logger.Info("notifications: sent mail template=%s to=%s", mail.TemplateID, mail.Recipient.Email)
}

func (l *Listener) push(ctx context.Context, n notifyservice.Notification) {
	if err := l.notify.Notify(ctx, n); err != nil {
		l.logger.Error("notifications: failed to push notification category=%s business=%d: %v",
			n.Category, n.ToBusinessID, err)
		return
	}
	l.logger.Info("notifications: pushed notification category=%s business=%d", n.Category, n.ToBusinessID)
}

// appointmentParams собирает параметры шаблона письма
// Дата и время рендерятся в таймзоне бизнеса
func appointmentParams(appt *domain.Appointment, business *domain.Business) map[string]string {
	startAt := appt.StartAt
	if loc, err := time.LoadLocation(business.Timezone); err == nil {
		startAt = startAt.In(loc)
	}

	return map[string]string{
		"code":         appt.Code,
		"businessName": business.Name,
		"serviceName":  appt.ServiceName,
		"contactName":  appt.ContactName,
		"date":         startAt.Format(domain.DateFormat),
		"time":         startAt.Format(domain.TimeFormat),
	}
}
