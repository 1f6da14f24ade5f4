// Package payments клиент платёжного провайдера (Stripe)
//
// Депозит за запись списывается через PaymentIntent, возврат при отмене -
// через Refund по сохранённому intent ID. Каждый запрос на создание платежа
// идёт с ключом идемпотентности, чтобы ретраи не создавали дубликаты.
package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// Client клиент для работы со Stripe
type Client struct {
	log Logger
}

// NewClient создает новый экземпляр платёжного клиента
// apiKey устанавливается глобально для stripe-go
func NewClient(apiKey string, log Logger) *Client {
	stripe.Key = apiKey
	return &Client{log: log}
}

// CreateIntent создает платёж на депозит записи
// amountMinor сумма в минорных единицах валюты (пенсы, центы)
func (c *Client) CreateIntent(ctx context.Context, bookingID int64, amountMinor int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	params.AddMetadata("booking_id", strconv.FormatInt(bookingID, 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		c.log.Error("Failed to create payment intent for booking_id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	c.log.Info("Created payment intent %s for booking_id=%d, amount=%d %s",
		pi.ID, bookingID, amountMinor, currency)

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

// GetIntent получает актуальное состояние платежа у провайдера
// Используется при подтверждении записи: переход в confirmed разрешён
// только после фактического списания депозита
func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		c.log.Error("Failed to get payment intent %s: %v", intentID, err)
		return nil, fmt.Errorf("%w: %v", ErrIntentLookupFailed, err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

// CancelIntent отменяет ещё не списанный платёж
// Вызывается при отмене записи до оплаты депозита, чтобы сохранённый
// client_secret нельзя было оплатить после отмены
func (c *Client) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := paymentintent.Cancel(intentID, params); err != nil {
		c.log.Error("Failed to cancel payment intent %s: %v", intentID, err)
		return fmt.Errorf("%w: %v", ErrIntentCancelFailed, err)
	}

	c.log.Info("Cancelled payment intent %s", intentID)
	return nil
}

// Refund возвращает часть депозита по сохранённому intent ID
// amountMinor сумма возврата в минорных единицах; 0 означает, что
// политика отмены не предусматривает возврата - запрос не отправляется
func (c *Client) Refund(ctx context.Context, intentID string, amountMinor int64) (*RefundResult, error) {
	if amountMinor <= 0 {
		return &RefundResult{AmountMinor: 0, Status: "skipped"}, nil
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(amountMinor),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	ref, err := refund.New(params)
	if err != nil {
		c.log.Error("Failed to refund intent=%s amount=%d: %v", intentID, amountMinor, err)
		return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}

	c.log.Info("Created refund %s for intent=%s, amount=%d", ref.ID, intentID, amountMinor)

	return &RefundResult{
		ID:          ref.ID,
		AmountMinor: ref.Amount,
		Status:      string(ref.Status),
	}, nil
}
