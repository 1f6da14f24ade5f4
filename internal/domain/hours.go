package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/primapp/prim-booking-service/pkg/types"
)

var (
	// ErrOvernightHours возвращается для расписаний, пересекающих полночь
	// Такие конфигурации не поддерживаются и отклоняются при сохранении настроек
	ErrOvernightHours = errors.New("overnight business hours are not supported")

	// ErrInvalidBreak возвращается, когда перерыв выходит за рабочие часы
	ErrInvalidBreak = errors.New("break must fall within business hours")

	// ErrIncompleteHours возвращается, когда у открытого дня не задано время
	ErrIncompleteHours = errors.New("open day requires open and close times")
)

// DayHours расписание работы мастера на один день недели
type DayHours struct {
	IsOpen     bool
	OpenTime   *types.TimeString
	CloseTime  *types.TimeString
	BreakStart *types.TimeString // Опциональный перерыв
	BreakEnd   *types.TimeString
}

// WeeklyHours недельное расписание мастера
type WeeklyHours struct {
	Monday    DayHours
	Tuesday   DayHours
	Wednesday DayHours
	Thursday  DayHours
	Friday    DayHours
	Saturday  DayHours
	Sunday    DayHours
}

// ForWeekday возвращает расписание на указанный день недели
func (w WeeklyHours) ForWeekday(weekday time.Weekday) DayHours {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DayHours{IsOpen: false}
	}
}

// SetForWeekday устанавливает расписание на указанный день недели
func (w *WeeklyHours) SetForWeekday(weekday time.Weekday, hours DayHours) {
	switch weekday {
	case time.Monday:
		w.Monday = hours
	case time.Tuesday:
		w.Tuesday = hours
	case time.Wednesday:
		w.Wednesday = hours
	case time.Thursday:
		w.Thursday = hours
	case time.Friday:
		w.Friday = hours
	case time.Saturday:
		w.Saturday = hours
	case time.Sunday:
		w.Sunday = hours
	}
}

// Validate проверяет корректность всего недельного расписания
func (w WeeklyHours) Validate() error {
	days := []struct {
		name  string
		hours DayHours
	}{
		{"monday", w.Monday},
		{"tuesday", w.Tuesday},
		{"wednesday", w.Wednesday},
		{"thursday", w.Thursday},
		{"friday", w.Friday},
		{"saturday", w.Saturday},
		{"sunday", w.Sunday},
	}

	for _, d := range days {
		if err := d.hours.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return nil
}

// Validate проверяет расписание одного дня
// Отклоняет ночные интервалы (close <= open) и перерывы вне рабочих часов
func (d DayHours) Validate() error {
	if !d.IsOpen {
		return nil
	}

	if d.OpenTime == nil || d.CloseTime == nil {
		return ErrIncompleteHours
	}
	if err := d.OpenTime.Validate(); err != nil {
		return err
	}
	if err := d.CloseTime.Validate(); err != nil {
		return err
	}

	// Ночные часы (пересечение полуночи) не поддерживаются
	if !d.OpenTime.IsBefore(*d.CloseTime) {
		return fmt.Errorf("%w: %s-%s", ErrOvernightHours, *d.OpenTime, *d.CloseTime)
	}

	// Перерыв задаётся либо полностью, либо никак
	if (d.BreakStart == nil) != (d.BreakEnd == nil) {
		return ErrInvalidBreak
	}
	if d.BreakStart != nil {
		if err := d.BreakStart.Validate(); err != nil {
			return err
		}
		if err := d.BreakEnd.Validate(); err != nil {
			return err
		}
		if !d.BreakStart.IsBefore(*d.BreakEnd) {
			return ErrInvalidBreak
		}
		if d.BreakStart.IsBefore(*d.OpenTime) || d.BreakEnd.IsAfter(*d.CloseTime) {
			return ErrInvalidBreak
		}
	}

	return nil
}

// OpenInterval открытый интервал рабочего времени [Start, End)
type OpenInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// OpenIntervals возвращает упорядоченный список открытых интервалов дня
// с вычтенным перерывом. Для закрытого дня возвращает пустой список.
//
// Примеры:
//   - 09:00-17:00 без перерыва    -> [09:00-17:00]
//   - 09:00-17:00, перерыв 12-13  -> [09:00-12:00, 13:00-17:00]
func (d DayHours) OpenIntervals() ([]OpenInterval, error) {
	if !d.IsOpen {
		return []OpenInterval{}, nil
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	whole := OpenInterval{Start: *d.OpenTime, End: *d.CloseTime}

	if d.BreakStart == nil {
		return []OpenInterval{whole}, nil
	}

	intervals := make([]OpenInterval, 0, 2)
	if d.OpenTime.IsBefore(*d.BreakStart) {
		intervals = append(intervals, OpenInterval{Start: *d.OpenTime, End: *d.BreakStart})
	}
	if d.BreakEnd.IsBefore(*d.CloseTime) {
		intervals = append(intervals, OpenInterval{Start: *d.BreakEnd, End: *d.CloseTime})
	}
	return intervals, nil
}
