package create_booking

import (
	"time"

	"github.com/primapp/prim-booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID         int64            // ID клиента
	ProfessionalID int64            // ID мастера
	ServiceID      int64            // ID услуги
	Date           time.Time        // Дата записи (без времени)
	StartTime      types.TimeString // Время начала слота (например, "10:00")
	Notes          *string          // Пожелания клиента (опционально)
}

// DepositInfo данные депозита в составе ответа
type DepositInfo struct {
	AmountMinor int64  // Сумма депозита в минорных единицах
	Currency    string // Валюта
	// ClientSecret секрет платёжного intent для подтверждения оплаты
	// на клиенте. Пустой, если депозит не требуется.
	ClientSecret string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	CustomerID      int64            // ID клиента
	ProfessionalID  int64            // ID мастера
	ServiceID       int64            // ID услуги
	BookingDate     time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время конца
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи

	// Денормализованные данные
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги
	Notes        *string // Пожелания клиента

	Deposit DepositInfo // Депозит

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
