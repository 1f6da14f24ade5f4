package payments

import "errors"

var (
	// ErrPaymentFailed возвращается, когда провайдер отклонил создание платежа
	ErrPaymentFailed = errors.New("payments: failed to create payment intent")

	// ErrRefundFailed возвращается, когда провайдер отклонил возврат
	ErrRefundFailed = errors.New("payments: failed to create refund")

	// ErrIntentLookupFailed возвращается, когда не удалось получить
	// состояние платежа у провайдера
	ErrIntentLookupFailed = errors.New("payments: failed to get payment intent")

	// ErrIntentCancelFailed возвращается, когда провайдер отклонил отмену платежа
	ErrIntentCancelFailed = errors.New("payments: failed to cancel payment intent")
)
