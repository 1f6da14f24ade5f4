package get_professional_profile

import (
	"context"

	"github.com/primapp/prim-booking-service/internal/service/professionals/models"
)

type ProfessionalService interface {
	GetProfile(ctx context.Context, professionalID int64) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
