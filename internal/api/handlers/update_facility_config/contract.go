package update_facility_config

import (
	"context"

	"github.com/Julianb233/appointment-service/internal/service/availability/models"
)

type ConfigService interface {
	UpdateFacilityConfig(ctx context.Context, facilityID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
