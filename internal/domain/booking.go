package domain

import (
	"time"

	"github.com/primapp/prim-booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusPending начальный статус: депозит ещё не подтверждён
	StatusPending BookingStatus = "pending"
	// StatusConfirmed депозит получен, запись подтверждена
	StatusConfirmed BookingStatus = "confirmed"
	// StatusCancelled терминальный статус: запись отменена
	StatusCancelled BookingStatus = "cancelled"
	// StatusCompleted терминальный статус: время записи прошло
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a customer appointment with a professional
type Booking struct {
	ID              int64
	CustomerID      int64
	ProfessionalID  int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64

	// Deposit captured at booking time (minor currency units)
	DepositMinor    int64
	Currency        string
	PaymentIntentID *string

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time
	RefundMinor        *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// EndTime returns the end of the booking interval
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// EndsAt returns the absolute end of the booking
func (b *Booking) EndsAt() (time.Time, error) {
	end, err := b.EndTime()
	if err != nil {
		return time.Time{}, err
	}
	return end.At(b.BookingDate)
}

// ProfessionalBookingsFilter фильтр для получения записей мастера
type ProfessionalBookingsFilter struct {
	ProfessionalID  int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и завершённые записи
}
