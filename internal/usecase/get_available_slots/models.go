package get_available_slots

import (
	"time"

	"github.com/primapp/prim-booking-service/internal/domain"
	"github.com/primapp/prim-booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProfessionalID int64     // ID мастера
	ServiceID      int64     // ID услуги
	Date           time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date           time.Time // Дата, на которую запрашивались слоты
	ProfessionalID int64     // ID мастера
	ServiceID      int64     // ID услуги
	Slots          []Slot    // Список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString    // Время начала слота (например, "10:00")
	EndTime         types.TimeString    // Время конца слота
	DurationMinutes int                 // Длительность слота в минутах
	Deposit         domain.DepositQuote // Депозит, требуемый для записи на этот слот
}
