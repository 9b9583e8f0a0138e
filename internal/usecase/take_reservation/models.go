package take_reservation

import (
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/pkg/types"
)

// Request запрос на бронирование слота
type Request struct {
	BusinessID int64
	// IssuerID ID авторизованного пользователя, оформляющего запись.
	// nil для гостевого бронирования
	IssuerID  *int64
	ContactID *int64
	Email     string
	ServiceID int64
	Date      time.Time
	StartTime types.TimeString
	// Timezone таймзона, в которой клиент указал дату и время.
	// Пустая строка означает таймзону бизнеса
	Timezone string
	Comments *string
}

// Response результат бронирования
type Response struct {
	Appointment *domain.Appointment
}
