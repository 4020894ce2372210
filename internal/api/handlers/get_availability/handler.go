package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Julianb233/appointment-service/internal/api/handlers"
	getAvailability "github.com/Julianb233/appointment-service/internal/usecase/get_availability"
)

const (
	msgInvalidFacilityID = "некорректный ID заведения"
	msgInvalidRange      = "некорректный диапазон, ожидаются параметры from и to в формате RFC 3339"
	msgRangeTooLarge     = "запрошенный диапазон слишком велик"
	msgConfigNotFound    = "конфигурация заведения не найдена"
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

// Handle GET /api/v1/facilities/{facilityId}/availability?from=...&to=...[&serviceType=...]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/availability - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	query := r.URL.Query()
	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/availability - Invalid 'from': %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/availability - Invalid 'to': %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	req := &getAvailability.Request{
		FacilityID: facilityID,
		From:       from,
		To:         to,
	}
	if serviceType := query.Get("serviceType"); serviceType != "" {
		req.ServiceType = &serviceType
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrConfigNotFound):
			h.logger.Warn("GET /facilities/{id}/availability - Config not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgConfigNotFound)

		case errors.Is(err, getAvailability.ErrInvalidRange):
			h.logger.Warn("GET /facilities/{id}/availability - Invalid range: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /facilities/{id}/availability - Invalid input: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailability.ErrStoreUnavailable):
			h.logger.Error("GET /facilities/{id}/availability - Store unavailable: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /facilities/{id}/availability - Failed: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /facilities/{id}/availability - %d slots returned: facility_id=%d",
		len(result.Slots), facilityID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
