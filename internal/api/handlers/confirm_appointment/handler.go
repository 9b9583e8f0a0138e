package confirm_appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/FihlaTV/timegrid/internal/api/handlers"
	confirmAppointment "github.com/FihlaTV/timegrid/internal/usecase/confirm_appointment"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCodeTooShort       = "слишком короткий код подтверждения"
	msgNotFound           = "бронирование не найдено"
)

// ConfirmRequest HTTP request model
type ConfirmRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

// ConfirmResponse HTTP response model
type ConfirmResponse struct {
	Code             string `json:"code"`
	Status           string `json:"status"`
	StartAt          string `json:"startAt"`
	AlreadyConfirmed bool   `json:"alreadyConfirmed,omitempty"`
}

type Handler struct {
	useCase ConfirmAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/appointments/confirm
// Публичная ручка: гость подтверждает бронь кодом из письма и своим email
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments/confirm - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req ConfirmRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), confirmAppointment.Request{
		BusinessID: businessID,
		Code:       req.Code,
		Email:      req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmAppointment.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/appointments/confirm - Invalid input: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, confirmAppointment.ErrCodeTooShort):
			h.logger.Warn("POST /businesses/{id}/appointments/confirm - Code too short: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgCodeTooShort)

		case errors.Is(err, confirmAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /businesses/{id}/appointments/confirm - Appointment not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /businesses/{id}/appointments/confirm - Failed to confirm: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/appointments/confirm - Appointment confirmed: appointment_id=%d, already_confirmed=%v",
		result.Appointment.ID, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, ConfirmResponse{
		Code:             result.Appointment.Code,
		Status:           string(result.Appointment.Status),
		StartAt:          result.Appointment.StartAt.Format(time.RFC3339),
		AlreadyConfirmed: result.AlreadyConfirmed,
	})
}
