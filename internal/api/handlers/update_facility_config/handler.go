package update_facility_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Julianb233/appointment-service/internal/api/handlers"
	"github.com/Julianb233/appointment-service/internal/api/middleware"
	"github.com/Julianb233/appointment-service/internal/service/availability"
	"github.com/Julianb233/appointment-service/internal/service/availability/models"
)

const (
	msgInvalidFacilityID  = "некорректный ID заведения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidConfig      = "некорректная конфигурация"
	msgMissingUserID      = "отсутствует ID пользователя"
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

// Handle PUT /api/v1/facilities/{facilityId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /facilities/{id}/config - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	// Администратора идентифицирует внешний шлюз, ID нужен для аудита
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /facilities/{id}/config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /facilities/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	cfg, err := h.service.UpdateFacilityConfig(r.Context(), facilityID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /facilities/{id}/config - Invalid config: facility_id=%d, user_id=%d, error=%v",
				facilityID, userID, err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		case errors.Is(err, availability.ErrStoreUnavailable):
			h.logger.Error("PUT /facilities/{id}/config - Store unavailable: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /facilities/{id}/config - Failed: facility_id=%d, user_id=%d, error=%v",
				facilityID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /facilities/{id}/config - Config updated: facility_id=%d, user_id=%d, version=%d",
		facilityID, userID, cfg.Version)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
