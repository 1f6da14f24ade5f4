package domain

import (
	"fmt"
	"time"
)

// Service represents a bookable service offered by a professional
type Service struct {
	ID              int64
	ProfessionalID  int64
	Name            string
	Category        string
	DurationMinutes int
	Price           float64
	Active          bool

	// Опциональное переопределение политики депозита мастера для этой услуги
	DepositOverrideType  *DepositType
	DepositOverrideValue *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет параметры услуги
func (s *Service) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("service name is required")
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("service duration must be positive")
	}
	if s.Price <= 0 {
		return fmt.Errorf("service price must be positive")
	}
	return nil
}

// EffectiveDeposit возвращает политику депозита для этой услуги:
// переопределение услуги поверх политики мастера, если оно задано
func (s *Service) EffectiveDeposit(base DepositPolicy) DepositPolicy {
	if s.DepositOverrideType == nil || s.DepositOverrideValue == nil {
		return base
	}
	return DepositPolicy{
		Require:             true,
		Type:                *s.DepositOverrideType,
		Value:               *s.DepositOverrideValue,
		MinimumBookingValue: base.MinimumBookingValue,
	}
}
