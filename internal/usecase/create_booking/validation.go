package create_booking

import (
	"fmt"
	"time"

	"github.com/primapp/prim-booking-service/internal/domain"
	"github.com/primapp/prim-booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи
func validateDate(bookingDate time.Time, now time.Time, maxAdvanceDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// Если maxAdvanceDays = 0, нет ограничений на горизонт
	if maxAdvanceDays == 0 {
		return nil
	}

	// Проверяем, что дата не превышает горизонт записи
	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxAdvanceDays)

	bookingDateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())

	if bookingDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// validateBookingTime проверяет, что запись не нарушает минимальный срок
// Сравнение идёт по абсолютному времени начала: при notice в несколько
// суток проверка работает и для записей на будущие даты
func validateBookingTime(
	bookingDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minNoticeMinutes int,
) error {
	startsAt, err := startTime.At(bookingDate)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve start time: %v", ErrInternal, err)
	}

	earliest := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	if startsAt.Before(earliest) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minNoticeMinutes)
	}

	return nil
}

// validateWithinBusinessHours проверяет, что слот целиком помещается
// в один из открытых интервалов дня (не пересекает перерыв, начало
// или конец рабочего дня)
func validateWithinBusinessHours(day domain.DayHours, startTime types.TimeString, durationMinutes int) error {
	intervals, err := day.OpenIntervals()
	if err != nil {
		return fmt.Errorf("%w: failed to resolve business hours: %v", ErrInternal, err)
	}

	slotEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return ErrOutsideBusinessHours
	}

	for _, interval := range intervals {
		if !startTime.IsBefore(interval.Start) && !slotEnd.IsAfter(interval.End) {
			return nil
		}
	}

	return ErrOutsideBusinessHours
}

// findConflict ищет активную запись, пересекающуюся с запрашиваемым слотом
// Каждая запись занимает интервал [start, end + bufferMinutes)
// Пересечение проверяется строгими неравенствами: граничащие интервалы
// конфликтом не считаются
func findConflict(
	startTime types.TimeString,
	durationMinutes int,
	bookings []*domain.Booking,
	bufferMinutes int,
) *domain.Booking {
	slotStartMin, err := startTime.Minutes()
	if err != nil {
		return nil
	}
	slotEndMin := slotStartMin + durationMinutes

	for _, booking := range bookings {
		// Отменённые и завершённые записи слот не занимают
		if !booking.IsActive() {
			continue
		}

		busyStartMin, err := booking.StartTime.Minutes()
		if err != nil {
			continue
		}
		busyEndMin := busyStartMin + booking.DurationMinutes + bufferMinutes

		if busyStartMin < slotEndMin && busyEndMin > slotStartMin {
			return booking
		}
	}

	return nil
}

// countActive подсчитывает активные записи дня (для лимита записей в день)
func countActive(bookings []*domain.Booking) int {
	count := 0
	for _, booking := range bookings {
		if booking.IsActive() {
			count++
		}
	}
	return count
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
