package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/primapp/prim-booking-service/pkg/money"
)

// DepositType способ расчёта депозита
type DepositType string

const (
	// DepositPercentage депозит как процент от цены услуги
	DepositPercentage DepositType = "percentage"
	// DepositFixed фиксированная сумма депозита
	DepositFixed DepositType = "fixed"
)

var (
	// ErrInvalidDepositPolicy возвращается при некорректной политике депозита
	ErrInvalidDepositPolicy = errors.New("invalid deposit policy")

	// ErrInvalidCancellationPolicy возвращается при некорректной политике отмены
	ErrInvalidCancellationPolicy = errors.New("invalid cancellation policy")
)

// DepositPolicy политика депозита мастера
type DepositPolicy struct {
	Require bool
	Type    DepositType
	// Value процент (для percentage) или сумма в основной валюте (для fixed)
	Value float64
	// MinimumBookingValue минимальная цена услуги, с которой требуется депозит
	MinimumBookingValue float64
}

// Validate проверяет политику депозита на границе настроек
func (p DepositPolicy) Validate() error {
	if !p.Require {
		return nil
	}

	switch p.Type {
	case DepositPercentage:
		if p.Value <= 0 || p.Value > 100 {
			return fmt.Errorf("%w: percentage must be in (0, 100], got %v", ErrInvalidDepositPolicy, p.Value)
		}
	case DepositFixed:
		if p.Value <= 0 {
			return fmt.Errorf("%w: fixed amount must be positive, got %v", ErrInvalidDepositPolicy, p.Value)
		}
	default:
		return fmt.Errorf("%w: unknown deposit type %q", ErrInvalidDepositPolicy, p.Type)
	}

	if p.MinimumBookingValue < 0 {
		return fmt.Errorf("%w: minimum booking value must not be negative", ErrInvalidDepositPolicy)
	}
	return nil
}

// QuoteMinor вычисляет депозит для услуги с указанной ценой
// Возвращает сумму в минорных единицах валюты (округление round-half-up)
//
// Правила:
//   - депозит не требуется                      -> 0
//   - цена ниже MinimumBookingValue             -> 0
//   - percentage                                -> round(price * value / 100)
//   - fixed                                     -> min(value, price)
func (p DepositPolicy) QuoteMinor(price float64) int64 {
	if !p.Require {
		return 0
	}
	if price < p.MinimumBookingValue {
		return 0
	}

	priceMinor := money.ToMinor(price)

	switch p.Type {
	case DepositPercentage:
		return money.PercentOf(priceMinor, p.Value)
	case DepositFixed:
		fixedMinor := money.ToMinor(p.Value)
		if fixedMinor > priceMinor {
			// Депозит не может превышать цену услуги
			return priceMinor
		}
		return fixedMinor
	default:
		return 0
	}
}

// RefundTier ступень политики возврата: при отмене не менее чем за
// ThresholdHours до начала возвращается RefundPercent депозита
type RefundTier struct {
	ThresholdHours int
	RefundPercent  float64
}

// CancellationPolicy политика отмены мастера
type CancellationPolicy struct {
	Enabled bool
	// NoticePeriodHours срок, при отмене раньше которого депозит
	// возвращается полностью
	NoticePeriodHours int
	// Tiers дополнительные ступени частичного возврата
	Tiers []RefundTier
}

// Validate проверяет политику отмены на границе настроек
func (c CancellationPolicy) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.NoticePeriodHours < 0 {
		return fmt.Errorf("%w: notice period must not be negative", ErrInvalidCancellationPolicy)
	}
	for _, tier := range c.Tiers {
		if tier.ThresholdHours < 0 {
			return fmt.Errorf("%w: tier threshold must not be negative", ErrInvalidCancellationPolicy)
		}
		if tier.RefundPercent < 0 || tier.RefundPercent > 100 {
			return fmt.Errorf("%w: tier refund percent must be in [0, 100]", ErrInvalidCancellationPolicy)
		}
	}
	return nil
}

// RefundPercent возвращает процент возврата депозита при отмене за
// hoursBeforeStart часов до начала записи
//
// Ступени проверяются от большего порога к меньшему, граница включительна:
// отмена ровно на пороге попадает в более выгодную ступень. Если ни одна
// ступень не подошла - возврат 0%. Выключенная политика означает, что
// мастер не удерживает депозиты: возврат всегда 100%.
func (c CancellationPolicy) RefundPercent(hoursBeforeStart float64) float64 {
	if !c.Enabled {
		return 100
	}

	tiers := c.effectiveTiers()
	for _, tier := range tiers {
		if hoursBeforeStart >= float64(tier.ThresholdHours) {
			return tier.RefundPercent
		}
	}
	return 0
}

// RefundMinor вычисляет сумму возврата для депозита в минорных единицах
func (c CancellationPolicy) RefundMinor(depositMinor int64, hoursBeforeStart float64) int64 {
	return money.PercentOf(depositMinor, c.RefundPercent(hoursBeforeStart))
}

// effectiveTiers объединяет NoticePeriodHours (100% возврат) с
// настроенными ступенями и сортирует по убыванию порога
func (c CancellationPolicy) effectiveTiers() []RefundTier {
	tiers := make([]RefundTier, 0, len(c.Tiers)+1)
	tiers = append(tiers, RefundTier{ThresholdHours: c.NoticePeriodHours, RefundPercent: 100})
	tiers = append(tiers, c.Tiers...)

	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].ThresholdHours > tiers[j].ThresholdHours
	})
	return tiers
}

// DepositQuote расчёт депозита, предлагаемый клиенту при выборе слота
// Производное значение: пересчитывается при подтверждении записи,
// устаревший расчёт никогда не используется для списания
type DepositQuote struct {
	AmountMinor       int64
	Currency          string
	Refundable        bool
	RefundWindowHours int
}

// NewDepositQuote собирает расчёт депозита из политик мастера
func NewDepositQuote(deposit DepositPolicy, cancellation CancellationPolicy, price float64, currency string) DepositQuote {
	return DepositQuote{
		AmountMinor:       deposit.QuoteMinor(price),
		Currency:          currency,
		Refundable:        !cancellation.Enabled || cancellation.NoticePeriodHours > 0 || len(cancellation.Tiers) > 0,
		RefundWindowHours: cancellation.NoticePeriodHours,
	}
}
