package update_professional_settings

import (
	"context"

	"github.com/primapp/prim-booking-service/internal/service/professionals/models"
)

type ProfessionalService interface {
	UpdateSettings(ctx context.Context, professionalID int64, req *models.UpdateSettingsRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
