package update_timetable

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/FihlaTV/timegrid/internal/api/handlers"
	"github.com/FihlaTV/timegrid/internal/api/middleware"
	"github.com/FihlaTV/timegrid/internal/service/timetables"
	"github.com/FihlaTV/timegrid/internal/service/timetables/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimetable   = "некорректная конфигурация расписания"
	msgBusinessNotFound   = "бизнес не найден"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

// UpdateTimetableRequest HTTP request model
type UpdateTimetableRequest struct {
	Weekly                 map[string][]models.WindowModel `json:"weekly"`
	SlotGranularityMinutes int                             `json:"slotGranularityMinutes"`
	FutureDaysLimit        int                             `json:"futureDaysLimit"`
	SameDayAllowed         bool                            `json:"sameDayAllowed"`
	MinNoticeMinutes       int                             `json:"minNoticeMinutes"`
	Timezone               string                          `json:"timezone"`
}

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

// Handle PUT /api/v1/businesses/{businessId}/timetable
// Заменяет расписание бизнеса целиком. Доступно только владельцу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/timetable - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/timetable - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateTimetableRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/timetable - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Обновляем расписание (сервис сам проверит права владельца)
	result, err := h.service.Update(r.Context(), &models.UpdateTimetableRequest{
		UserID:                 userID,
		BusinessID:             businessID,
		Weekly:                 req.Weekly,
		SlotGranularityMinutes: req.SlotGranularityMinutes,
		FutureDaysLimit:        req.FutureDaysLimit,
		SameDayAllowed:         req.SameDayAllowed,
		MinNoticeMinutes:       req.MinNoticeMinutes,
		Timezone:               req.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, timetables.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/timetable - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, timetables.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/timetable - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, timetables.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/timetable - Invalid timetable: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidTimetable)

		default:
			h.logger.Error("PUT /businesses/{id}/timetable - Failed to update timetable: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/timetable - Timetable updated: business_id=%d, user_id=%d",
		businessID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
