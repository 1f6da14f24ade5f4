package get_available_slots

import (
	"github.com/primapp/prim-booking-service/internal/domain"
	getAvailableSlots "github.com/primapp/prim-booking-service/internal/usecase/get_available_slots"
)

// DepositResponse расчёт депозита для слота
type DepositResponse struct {
	AmountMinor       int64  `json:"amountMinor"`
	Currency          string `json:"currency"`
	Refundable        bool   `json:"refundable"`
	RefundWindowHours int    `json:"refundWindowHours"`
}

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string          `json:"startTime"` // "10:00"
	EndTime         string          `json:"endTime"`   // "11:00"
	DurationMinutes int             `json:"durationMinutes"`
	Deposit         DepositResponse `json:"deposit"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string         `json:"date"` // "2026-03-15"
	ProfessionalID int64          `json:"professionalId"`
	ServiceID      int64          `json:"serviceId"`
	Slots          []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Deposit: DepositResponse{
				AmountMinor:       slot.Deposit.AmountMinor,
				Currency:          slot.Deposit.Currency,
				Refundable:        slot.Deposit.Refundable,
				RefundWindowHours: slot.Deposit.RefundWindowHours,
			},
		}
	}

	return &AvailableSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		ProfessionalID: resp.ProfessionalID,
		ServiceID:      resp.ServiceID,
		Slots:          slots,
	}
}
