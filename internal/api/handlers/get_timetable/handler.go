package get_timetable

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/FihlaTV/timegrid/internal/api/handlers"
	"github.com/FihlaTV/timegrid/internal/service/timetables"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgNotFound          = "расписание бизнеса не настроено"
)

type Handler struct {
	service TimetableService
	logger  Logger
}

func NewHandler(service TimetableService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/timetable
// Публичная ручка - расписание нужно клиентам для выбора слота
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/timetable - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.GetByBusiness(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, timetables.ErrTimetableNotFound):
			h.logger.Warn("GET /businesses/{id}/timetable - Timetable not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/timetable - Failed to get timetable: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/timetable - Timetable retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
