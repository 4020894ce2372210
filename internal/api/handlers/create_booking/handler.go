package create_booking

import (
	"errors"
	"net/http"

	"github.com/Julianb233/appointment-service/internal/api/handlers"
	"github.com/Julianb233/appointment-service/internal/schedule"
	createBooking "github.com/Julianb233/appointment-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректное время начала, ожидается RFC 3339"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgConfigNotFound     = "конфигурация заведения не найдена"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgOutsideHours       = "слот вне рабочих часов заведения"
	msgExcluded           = "слот попадает в период недоступности заведения"
	msgTooSoon            = "слишком поздно для бронирования этого слота"
	msgTooFarAhead        = "дата бронирования слишком далеко в будущем"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Нарушение правил расписания несет тип отказа
		var violation *schedule.RuleViolation
		if errors.As(err, &violation) {
			h.logger.Warn("POST /bookings - Slot rejected by rules: facility_id=%d, kind=%s",
				req.FacilityID, violation.Kind)
			handlers.RespondBadRequest(w, violationMessage(violation))
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: facility_id=%d, start=%s", req.FacilityID, req.Start)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrConfigNotFound):
			h.logger.Warn("POST /bookings - Config not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgConfigNotFound)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: facility_id=%d, start=%s", req.FacilityID, req.Start)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: facility_id=%d, error=%v", req.FacilityID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createBooking.ErrStoreUnavailable):
			h.logger.Error("POST /bookings - Store unavailable: facility_id=%d, error=%v", req.FacilityID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: facility_id=%d, error=%v",
				req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, facility_id=%d",
		result.ID, req.FacilityID)
	handlers.RespondJSON(w, http.StatusCreated, response)
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
