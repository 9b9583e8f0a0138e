package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/FihlaTV/timegrid/internal/api/handlers"
	"github.com/FihlaTV/timegrid/internal/domain"
	getAvailability "github.com/FihlaTV/timegrid/internal/usecase/get_availability"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidStartDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDays       = "некорректное количество дней"
	msgTimetableNotFound = "расписание бизнеса не настроено"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/availability
// Query params: startDate (YYYY-MM-DD), days (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	// Парсим опциональные query параметры
	// Литерал "today" эквивалентен отсутствию параметра: нулевая дата
	// клампится к сегодняшнему дню в use case
	var startDate time.Time
	if startDateStr := r.URL.Query().Get("startDate"); startDateStr != "" && startDateStr != "today" {
		startDate, err = time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/availability - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStartDate)
			return
		}
	}

	var days int
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 0 {
			h.logger.Warn("GET /businesses/{id}/availability - Invalid days: %q", daysStr)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		BusinessID: businessID,
		StartDate:  startDate,
		Days:       days,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/availability - Invalid input: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		case errors.Is(err, getAvailability.ErrTimetableNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Timetable not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgTimetableNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/availability - Failed to get availability: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/availability - Availability retrieved: business_id=%d, slots=%d",
		businessID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
