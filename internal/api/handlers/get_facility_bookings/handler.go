package get_facility_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Julianb233/appointment-service/internal/api/handlers"
	"github.com/Julianb233/appointment-service/internal/service/bookings"
	"github.com/Julianb233/appointment-service/internal/service/bookings/models"
)

const (
	msgInvalidFacilityID = "некорректный ID заведения"
	msgInvalidQuery      = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/bookings
// Query: from, to (RFC 3339), status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/bookings - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	req := &models.GetFacilityBookingsRequest{FacilityID: facilityID}

	query := r.URL.Query()
	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.logger.Warn("GET /facilities/{id}/bookings - Invalid 'from': %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.From = &from
	}
	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.logger.Warn("GET /facilities/{id}/bookings - Invalid 'to': %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.To = &to
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if query.Get("includeInactive") == "true" {
		req.IncludeInactive = true
	}

	list, err := h.service.GetFacilityBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /facilities/{id}/bookings - Invalid input: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, bookings.ErrStoreUnavailable):
			h.logger.Error("GET /facilities/{id}/bookings - Store unavailable: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /facilities/{id}/bookings - Failed: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /facilities/{id}/bookings - %d bookings returned: facility_id=%d",
		len(list.Bookings), facilityID)
	handlers.RespondJSON(w, http.StatusOK, list)
}
