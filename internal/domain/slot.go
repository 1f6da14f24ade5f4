package domain

import "github.com/primapp/prim-booking-service/pkg/types"

// Slot represents a candidate bookable time interval
// Производное значение: генерируется на время сессии бронирования
// и никогда не сохраняется
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Deposit         DepositQuote
}

// EndTime returns the end of the slot interval
func (s *Slot) EndTime() (types.TimeString, error) {
	return s.StartTime.AddMinutes(s.DurationMinutes)
}
