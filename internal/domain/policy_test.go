package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepositPolicy_QuoteMinor(t *testing.T) {
	tests := []struct {
		name   string
		policy DepositPolicy
		price  float64
		want   int64
	}{
		{
			name:   "no deposit required",
			policy: DepositPolicy{Require: false},
			price:  100,
			want:   0,
		},
		{
			name:   "percentage of price",
			policy: DepositPolicy{Require: true, Type: DepositPercentage, Value: 20},
			price:  100,
			want:   2000,
		},
		{
			name:   "percentage rounds half up",
			policy: DepositPolicy{Require: true, Type: DepositPercentage, Value: 25},
			price:  0.50,
			want:   13,
		},
		{
			name:   "fixed amount",
			policy: DepositPolicy{Require: true, Type: DepositFixed, Value: 10},
			price:  100,
			want:   1000,
		},
		{
			name:   "fixed amount capped at price",
			policy: DepositPolicy{Require: true, Type: DepositFixed, Value: 50},
			price:  30,
			want:   3000,
		},
		{
			name:   "price below minimum skips deposit",
			policy: DepositPolicy{Require: true, Type: DepositPercentage, Value: 20, MinimumBookingValue: 50},
			price:  40,
			want:   0,
		},
		{
			name:   "price at minimum still charged",
			policy: DepositPolicy{Require: true, Type: DepositPercentage, Value: 20, MinimumBookingValue: 50},
			price:  50,
			want:   1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.QuoteMinor(tt.price))
		})
	}
}

func TestDepositPolicy_Validate(t *testing.T) {
	assert.NoError(t, DepositPolicy{Require: false}.Validate())
	assert.NoError(t, DepositPolicy{Require: true, Type: DepositPercentage, Value: 20}.Validate())
	assert.NoError(t, DepositPolicy{Require: true, Type: DepositFixed, Value: 15}.Validate())

	assert.ErrorIs(t, DepositPolicy{Require: true, Type: DepositPercentage, Value: 0}.Validate(), ErrInvalidDepositPolicy)
	assert.ErrorIs(t, DepositPolicy{Require: true, Type: DepositPercentage, Value: 150}.Validate(), ErrInvalidDepositPolicy)
	assert.ErrorIs(t, DepositPolicy{Require: true, Type: DepositFixed, Value: -5}.Validate(), ErrInvalidDepositPolicy)
	assert.ErrorIs(t, DepositPolicy{Require: true, Type: "weird", Value: 10}.Validate(), ErrInvalidDepositPolicy)
}

func TestCancellationPolicy_RefundPercent(t *testing.T) {
	policy := CancellationPolicy{
		Enabled:           true,
		NoticePeriodHours: 24,
		Tiers: []RefundTier{
			{ThresholdHours: 12, RefundPercent: 50},
		},
	}

	tests := []struct {
		name  string
		hours float64
		want  float64
	}{
		{name: "well in advance", hours: 48, want: 100},
		{name: "exactly at notice period boundary", hours: 24, want: 100},
		{name: "between tiers", hours: 20, want: 50},
		{name: "exactly at tier boundary", hours: 12, want: 50},
		{name: "last minute", hours: 2, want: 0},
		{name: "after start", hours: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.RefundPercent(tt.hours))
		})
	}
}

func TestCancellationPolicy_DisabledRefundsEverything(t *testing.T) {
	policy := CancellationPolicy{Enabled: false}

	assert.Equal(t, 100.0, policy.RefundPercent(0.5))
	assert.Equal(t, int64(2000), policy.RefundMinor(2000, 0.5))
}

func TestCancellationPolicy_RefundMinor(t *testing.T) {
	policy := CancellationPolicy{
		Enabled:           true,
		NoticePeriodHours: 24,
		Tiers: []RefundTier{
			{ThresholdHours: 12, RefundPercent: 50},
		},
	}

	assert.Equal(t, int64(2000), policy.RefundMinor(2000, 48))
	assert.Equal(t, int64(1000), policy.RefundMinor(2000, 15))
	assert.Equal(t, int64(0), policy.RefundMinor(2000, 1))
	// Нечётный депозит: 50% от 2001 = 1000.5 -> 1001
	assert.Equal(t, int64(1001), policy.RefundMinor(2001, 15))
}

func TestNewDepositQuote(t *testing.T) {
	deposit := DepositPolicy{Require: true, Type: DepositPercentage, Value: 20}
	cancellation := CancellationPolicy{Enabled: true, NoticePeriodHours: 24}

	quote := NewDepositQuote(deposit, cancellation, 100, "gbp")

	assert.Equal(t, int64(2000), quote.AmountMinor)
	assert.Equal(t, "gbp", quote.Currency)
	assert.True(t, quote.Refundable)
	assert.Equal(t, 24, quote.RefundWindowHours)

	// Включённая политика без окон возврата - депозит невозвратный
	strict := NewDepositQuote(deposit, CancellationPolicy{Enabled: true}, 100, "gbp")
	assert.False(t, strict.Refundable)
}
