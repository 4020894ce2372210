package get_facility_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Julianb233/appointment-service/internal/api/handlers"
	"github.com/Julianb233/appointment-service/internal/service/availability"
)

const (
	msgInvalidFacilityID = "некорректный ID заведения"
	msgConfigNotFound    = "конфигурация заведения не найдена"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/config - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	cfg, err := h.service.GetFacilityConfig(r.Context(), facilityID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrConfigNotFound):
			h.logger.Warn("GET /facilities/{id}/config - Config not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgConfigNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /facilities/{id}/config - Invalid input: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondBadRequest(w, msgInvalidFacilityID)

		case errors.Is(err, availability.ErrStoreUnavailable):
			h.logger.Error("GET /facilities/{id}/config - Store unavailable: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /facilities/{id}/config - Failed: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /facilities/{id}/config - Config retrieved: facility_id=%d, version=%d",
		facilityID, cfg.Version)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
