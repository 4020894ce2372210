package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Julianb233/appointment-service/internal/api/handlers"
	"github.com/Julianb233/appointment-service/internal/schedule"
	rescheduleBooking "github.com/Julianb233/appointment-service/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректное время нового слота, ожидается RFC 3339"
	msgNotFound           = "бронирование не найдено"
	msgAlreadyTerminal    = "бронирование уже завершено или отменено"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgConfigNotFound     = "конфигурация заведения не найдена"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgSameSlot           = "бронирование уже назначено на этот слот"
	msgOutsideHours       = "слот вне рабочих часов заведения"
	msgExcluded           = "слот попадает в период недоступности заведения"
	msgTooSoon            = "слишком поздно для переноса на этот слот"
	msgTooFarAhead        = "дата переноса слишком далеко в будущем"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	NewStart string `json:"newStart"` // RFC 3339
	Reason   string `json:"reason,omitempty"`
}

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	newStart, err := time.Parse(time.RFC3339, req.NewStart)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid newStart: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rescheduleBooking.Request{
		BookingID: bookingID,
		NewStart:  newStart,
		Reason:    req.Reason,
	})
	if err != nil {
		var violation *schedule.RuleViolation
		if errors.As(err, &violation) {
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot rejected by rules: booking_id=%d, kind=%s",
				bookingID, violation.Kind)
			handlers.RespondBadRequest(w, violationMessage(violation))
			return
		}

		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrAlreadyTerminal):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Already terminal: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyTerminal)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%d, start=%s",
				bookingID, req.NewStart)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrConfigNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Config not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgConfigNotFound)

		case errors.Is(err, rescheduleBooking.ErrSameSlot):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Same slot: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgSameSlot)

		case errors.Is(err, rescheduleBooking.ErrInvalidTimeSlot):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid time slot: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleBooking.ErrStoreUnavailable):
			h.logger.Error("PATCH /bookings/{id}/reschedule - Store unavailable: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%d, new_id=%d",
		bookingID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// violationMessage возвращает пользовательское сообщение для вида нарушения
func violationMessage(v *schedule.RuleViolation) string {
	switch v.Kind {
	case schedule.ViolationOutsideWorkingHours:
		return msgOutsideHours
	case schedule.ViolationExcluded:
		return msgExcluded
	case schedule.ViolationTooSoon:
		return msgTooSoon
	case schedule.ViolationTooFarAhead:
		return msgTooFarAhead
	default:
		return msgInvalidTimeSlot
	}
}
