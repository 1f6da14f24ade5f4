package domain

import (
	"fmt"
	"time"
)

// BookingRules правила приёма записей мастера
type BookingRules struct {
	// MinNoticeMinutes минимальный срок до начала, за который можно записаться
	MinNoticeMinutes int
	// MaxAdvanceDays максимальный горизонт записи в днях (0 = без ограничения)
	MaxAdvanceDays int
	// BufferMinutes обязательный перерыв после каждой записи
	BufferMinutes int
	// MaxBookingsPerDay лимит записей в день (0 = без ограничения)
	MaxBookingsPerDay int
	// AllowDoubleBooking разрешает пересекающиеся записи
	// В этом режиме проверка конфликтов и буферы не применяются
	AllowDoubleBooking bool
}

// Validate проверяет правила записи на границе настроек
func (r BookingRules) Validate() error {
	if r.MinNoticeMinutes < MinBookingNoticeMinutes || r.MinNoticeMinutes > MaxBookingNoticeMinutes {
		return fmt.Errorf("min notice must be between %d and %d minutes", MinBookingNoticeMinutes, MaxBookingNoticeMinutes)
	}
	if r.MaxAdvanceDays < MinAdvanceBookingDays || r.MaxAdvanceDays > MaxAdvanceBookingDays {
		return fmt.Errorf("max advance must be between %d and %d days", MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	if r.BufferMinutes < 0 || r.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("buffer must be between 0 and %d minutes", MaxBufferMinutes)
	}
	if r.MaxBookingsPerDay < 0 {
		return fmt.Errorf("max bookings per day must not be negative")
	}
	return nil
}

// Professional represents a beauty/wellness professional on the platform
type Professional struct {
	ID           int64
	UserID       int64
	BusinessName string
	Category     string

	Hours        WeeklyHours
	Rules        BookingRules
	Deposit      DepositPolicy
	Cancellation CancellationPolicy

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет все настройки мастера
// Используется при сохранении настроек: некорректные значения отклоняются
// на границе, а не принимаются молча
func (p *Professional) Validate() error {
	if p.BusinessName == "" {
		return fmt.Errorf("business name is required")
	}
	if err := p.Hours.Validate(); err != nil {
		return fmt.Errorf("business hours: %w", err)
	}
	if err := p.Rules.Validate(); err != nil {
		return fmt.Errorf("booking rules: %w", err)
	}
	if err := p.Deposit.Validate(); err != nil {
		return fmt.Errorf("deposit policy: %w", err)
	}
	if err := p.Cancellation.Validate(); err != nil {
		return fmt.Errorf("cancellation policy: %w", err)
	}
	return nil
}
