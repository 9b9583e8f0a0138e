package take_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/FihlaTV/timegrid/internal/api/handlers"
	"github.com/FihlaTV/timegrid/internal/api/middleware"
	takeReservation "github.com/FihlaTV/timegrid/internal/usecase/take_reservation"
	"github.com/FihlaTV/timegrid/pkg/ptr"
)

const (
	msgInvalidBusinessID   = "некорректный ID бизнеса"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgBusinessNotFound    = "бизнес не найден"
	msgTimetableNotFound   = "расписание бизнеса не настроено"
	msgContactNotResolved  = "контакт клиента не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgSlotTaken           = "выбранный временной слот уже занят"
	msgBusinessClosed      = "бизнес закрыт в выбранную дату"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgSameDayNotAllowed   = "бронирование на сегодня недоступно"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
)

type Handler struct {
	useCase TakeReservationUseCase
	logger  Logger
}

func NewHandler(useCase TakeReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/reservations
// Работает и для гостей: без заголовка аутентификации бронь создается
// в статусе pending и требует подтверждения по email
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/reservations - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req TakeReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Анонимный запрос - гостевая бронь
	var issuerID *int64
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		issuerID = ptr.Ptr(userID)
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(businessID, issuerID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Повторная бронь того же слота тем же контактом - не конфликт,
		// возвращаем код существующей записи
		var dup *takeReservation.DuplicatedAppointmentError
		if errors.As(err, &dup) {
			h.logger.Info("POST /businesses/{id}/reservations - Duplicated appointment: business_id=%d, code=%s",
				businessID, dup.Code)
			handlers.RespondJSON(w, http.StatusOK, map[string]string{"code": dup.Code, "status": "duplicated"})
			return
		}

		switch {
		case errors.Is(err, takeReservation.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/reservations - Invalid input: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, takeReservation.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/reservations - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, takeReservation.ErrTimetableNotFound):
			h.logger.Warn("POST /businesses/{id}/reservations - Timetable not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgTimetableNotFound)

		case errors.Is(err, takeReservation.ErrContactNotResolved):
			h.logger.Warn("POST /businesses/{id}/reservations - Contact not resolved: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgContactNotResolved)

		case errors.Is(err, takeReservation.ErrServiceNotFound):
			h.logger.Warn("POST /businesses/{id}/reservations - Service not found: business_id=%d, service_id=%d",
				businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, takeReservation.ErrSlotConflict):
			h.logger.Warn("POST /businesses/{id}/reservations - Slot conflict: business_id=%d, service_id=%d",
				businessID, req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, takeReservation.ErrBusinessClosed):
			h.logger.Warn("POST /businesses/{id}/reservations - Business closed: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, takeReservation.ErrInvalidDate):
			h.logger.Warn("POST /businesses/{id}/reservations - Invalid date: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, takeReservation.ErrDateTooFarInFuture):
			h.logger.Warn("POST /businesses/{id}/reservations - Date too far in future: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, takeReservation.ErrSameDayNotAllowed):
			h.logger.Warn("POST /businesses/{id}/reservations - Same-day booking not allowed: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgSameDayNotAllowed)

		case errors.Is(err, takeReservation.ErrInvalidTimeSlot):
			h.logger.Warn("POST /businesses/{id}/reservations - Invalid time slot: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, takeReservation.ErrTooLateToBook):
			h.logger.Warn("POST /businesses/{id}/reservations - Too late to book: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		default:
			h.logger.Error("POST /businesses/{id}/reservations - Failed to take reservation: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/reservations - Reservation created: appointment_id=%d, business_id=%d, code=%s",
		result.Appointment.ID, businessID, result.Appointment.Code)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
