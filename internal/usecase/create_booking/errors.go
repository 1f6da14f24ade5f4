package create_booking

import "errors"

var (
	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("create_booking: professional not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена мастером
	ErrServiceInactive = errors.New("create_booking: service is not active")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт записи
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrProfessionalClosed возвращается, когда мастер не работает в указанную дату
	ErrProfessionalClosed = errors.New("create_booking: professional is closed on this date")

	// ErrOutsideBusinessHours возвращается, когда слот не помещается в рабочие часы
	// (пересекает перерыв, начало или конец рабочего дня)
	ErrOutsideBusinessHours = errors.New("create_booking: slot is outside business hours")

	// ErrTooLateToBook возвращается, когда запись нарушает минимальный срок
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotTaken возвращается, когда выбранный слот уже занят
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrDailyLimitReached возвращается при достижении лимита записей в день
	ErrDailyLimitReached = errors.New("create_booking: daily bookings limit reached")

	// ErrPaymentFailed возвращается, когда не удалось создать платёж на депозит
	ErrPaymentFailed = errors.New("create_booking: payment failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
