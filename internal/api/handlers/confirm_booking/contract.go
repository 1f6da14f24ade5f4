package confirm_booking

import (
	"context"

	"github.com/primapp/prim-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	ConfirmPayment(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
