package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не может отменить запись
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrCannotCancel возвращается при попытке отменить завершённую
	// или уже отменённую запись
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrRefundFailed возвращается, когда запись отменена, но возврат
	// депозита не прошёл
	ErrRefundFailed = errors.New("cancel_booking: refund failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
