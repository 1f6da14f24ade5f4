package domain

// Default booking rules
const (
	DefaultMinNoticeMinutes = 60 // 1 hour
	DefaultMaxAdvanceDays   = 60
	DefaultBufferMinutes    = 0
	DefaultCurrency         = "gbp"
)

// Business validation constants
const (
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxBufferMinutes            = 240 // 4 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, занимающих слот
// Используется при подсчёте конфликтов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы записей, не занимающих слот
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
