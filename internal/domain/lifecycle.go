package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition возвращается при недопустимом переходе статуса
var ErrInvalidTransition = errors.New("invalid booking status transition")

// allowedTransitions таблица допустимых переходов жизненного цикла записи
//
//	pending   -> confirmed (депозит получен)
//	pending   -> cancelled (отказ клиента или неуспешная оплата)
//	confirmed -> cancelled (отмена с оценкой возврата депозита)
//	confirmed -> completed (время записи прошло)
//
// Из терминальных статусов (cancelled, completed) переходов нет
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition возвращает true, если переход from -> to допустим
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition переводит запись в новый статус
// Недопустимый переход возвращает ErrInvalidTransition и не меняет запись
func (b *Booking) Transition(to BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	return nil
}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}
