package get_available_slots

import (
	"time"

	"github.com/primapp/prim-booking-service/internal/domain"
	"github.com/primapp/prim-booking-service/pkg/types"
)

// generateCandidates генерирует все возможные слоты на день
// Слоты шагают с шагом длительности услуги внутри каждого открытого
// интервала (перерыв уже вычтен из интервалов). Слот, не помещающийся
// целиком в интервал, не генерируется - услуга не может пересекать перерыв
// или конец рабочего дня.
func generateCandidates(day domain.DayHours, durationMinutes int) ([]types.TimeString, error) {
	intervals, err := day.OpenIntervals()
	if err != nil {
		return nil, err
	}

	candidates := make([]types.TimeString, 0)

	for _, interval := range intervals {
		current := interval.Start

		for current.IsBefore(interval.End) {
			slotEnd, err := current.AddMinutes(durationMinutes)
			if err != nil {
				// Слот выходит за полночь
				break
			}
			if slotEnd.IsAfter(interval.End) {
				break
			}

			candidates = append(candidates, current)

			current, err = current.AddMinutes(durationMinutes)
			if err != nil {
				break
			}
		}
	}

	return candidates, nil
}

// filterByNotice отфильтровывает слоты, начинающиеся раньше чем через
// minNoticeMinutes от текущего момента
// Сравнение идёт по абсолютному времени: при notice в несколько суток
// фильтр срезает и слоты на будущие даты, а не только сегодняшние
func filterByNotice(
	candidates []types.TimeString,
	date time.Time,
	now time.Time,
	minNoticeMinutes int,
) ([]types.TimeString, error) {
	earliest := now.Add(time.Duration(minNoticeMinutes) * time.Minute)

	filtered := make([]types.TimeString, 0, len(candidates))
	for _, slot := range candidates {
		startsAt, err := slot.At(date)
		if err != nil {
			return nil, err
		}
		if startsAt.Before(earliest) {
			continue
		}
		filtered = append(filtered, slot)
	}

	return filtered, nil
}

// filterConflicts отфильтровывает слоты, пересекающиеся с активными
// записями дня. Каждая запись занимает интервал
// [start, end + bufferMinutes): буфер после записи для уборки и
// подготовки тоже недоступен для новых записей.
//
// Пересечение проверяется строгими неравенствами: слот, начинающийся
// ровно в конце занятого интервала (или заканчивающийся ровно в его
// начале), конфликтом не считается.
//
// Примеры (буфер 0):
// - Слот 11:30-12:00, запись 11:20-11:40 → ЕСТЬ пересечение (11:30-11:40)
// - Слот 11:30-12:00, запись 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, запись 12:00-12:30 → НЕТ пересечения (граничат)
func filterConflicts(
	candidates []types.TimeString,
	durationMinutes int,
	bookings []*domain.Booking,
	bufferMinutes int,
) []types.TimeString {
	filtered := make([]types.TimeString, 0, len(candidates))

	for _, slot := range candidates {
		if !hasConflict(slot, durationMinutes, bookings, bufferMinutes) {
			filtered = append(filtered, slot)
		}
	}

	return filtered
}

// hasConflict проверяет, пересекается ли слот хотя бы с одной активной записью
// Сравнение идёт в минутах от полуночи, чтобы буфер за концом дня не
// ломал арифметику времени
func hasConflict(slotStart types.TimeString, durationMinutes int, bookings []*domain.Booking, bufferMinutes int) bool {
	slotStartMin, err := slotStart.Minutes()
	if err != nil {
		// Некорректный слот безопаснее считать занятым
		return true
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
			return true
		}
	}

	return false
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
