package cancel_booking

import "time"

// Request модель запроса на отмену записи
type Request struct {
	BookingID int64  // ID записи
	UserID    int64  // ID пользователя, отменяющего запись
	Reason    string // Причина отмены (опционально)
}

// Response модель ответа с результатом отмены
type Response struct {
	ID          int64     // ID записи
	Status      string    // Новый статус (cancelled)
	CancelledAt time.Time // Время отмены

	// Данные возврата депозита
	DepositMinor  int64   // Исходный депозит в минорных единицах
	RefundPercent float64 // Процент возврата по политике отмены
	RefundMinor   int64   // Сумма возврата в минорных единицах
	Currency      string  // Валюта
}
