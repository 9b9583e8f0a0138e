package get_user_agenda

import (
	"net/http"

	"github.com/FihlaTV/timegrid/internal/api/handlers"
	"github.com/FihlaTV/timegrid/internal/api/middleware"
	"github.com/FihlaTV/timegrid/internal/service/appointments/models"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me/appointments
// Возвращает актуальные брони пользователя во всех бизнесах
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/me/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetUserAgenda(r.Context(), &models.GetUserAgendaRequest{UserID: userID})
	if err != nil {
		h.logger.Error("GET /users/me/appointments - Failed to get agenda: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/me/appointments - Agenda retrieved: user_id=%d, appointments=%d",
		userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
