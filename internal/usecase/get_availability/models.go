package get_availability

import (
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	StartDate  time.Time // Начальная дата диапазона; нулевое значение = сегодня
	Days       int       // Количество дней; 0 = горизонт бронирования бизнеса
}

// Response модель ответа со списком слотов
type Response struct {
	BusinessID int64                  // ID бизнеса
	StartDate  time.Time              // Фактическая начальная дата после клампов
	Days       int                    // Фактическое количество дней после усечения
	Slots      []domain.AvailableSlot // Слоты, упорядоченные по дате и времени начала
}
