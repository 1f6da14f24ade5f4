package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/primapp/prim-booking-service/internal/domain"
	bookingRepo "github.com/primapp/prim-booking-service/internal/infra/storage/booking"
)

// UseCase use case для отмены записи с расчётом возврата депозита
type UseCase struct {
	bookingRepo      BookingRepository
	professionalRepo ProfessionalRepository
	paymentsClient   PaymentsClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	professionalRepo ProfessionalRepository,
	paymentsClient PaymentsClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		professionalRepo: professionalRepo,
		paymentsClient:   paymentsClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case отмены записи
//
// Возврат депозита считается по ступеням политики отмены мастера от
// времени до начала записи. Отмена ровно на пороге ступени попадает в
// более выгодную ступень. Запись без оплаченного депозита отменяется
// без возврата.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, user=%d", req.BookingID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *Response
	var refundIntentID string
	var voidIntentID string
	var refundMinor int64

	// 3. Читаем запись, считаем возврат и отменяем в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3.1. Проверяем права: отменить может клиент или мастер
		prof, err := uc.professionalRepo.GetByID(txCtx, booking.ProfessionalID)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to get professional id=%d: %v", booking.ProfessionalID, err)
			return fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}

		if booking.CustomerID != req.UserID && prof.UserID != req.UserID {
			uc.logger.Warn("CancelBooking: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		// 3.2. Терминальные записи не отменяются
		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d cannot be cancelled, status=%s",
				req.BookingID, booking.Status)
			return ErrCannotCancel
		}

		// 3.3. Считаем возврат по политике отмены
		// Возврат положен только за оплаченный депозит (confirmed);
		// pending-запись депозита ещё не внесла
		var refundPercent float64
		if booking.Status == domain.StatusConfirmed && booking.DepositMinor > 0 {
			startsAt, err := booking.StartTime.At(booking.BookingDate)
			if err != nil {
				return fmt.Errorf("%w: failed to resolve start time: %v", ErrInternal, err)
			}

			hoursBeforeStart := startsAt.Sub(now).Hours()
			refundPercent = prof.Cancellation.RefundPercent(hoursBeforeStart)
			refundMinor = prof.Cancellation.RefundMinor(booking.DepositMinor, hoursBeforeStart)

			uc.logger.Info("CancelBooking: booking id=%d, %.1f hours before start, refund %.0f%% = %d minor units",
				req.BookingID, hoursBeforeStart, refundPercent, refundMinor)
		}

		// 3.4. Отменяем запись. Репозиторий отменяет только активную
		// запись: если статус успел измениться, отмена невозможна
		if err := uc.bookingRepo.Cancel(txCtx, req.BookingID, req.Reason, now, &refundMinor); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				uc.logger.Warn("CancelBooking: booking id=%d changed status concurrently", req.BookingID)
				return ErrCannotCancel
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		if refundMinor > 0 && booking.PaymentIntentID != nil {
			refundIntentID = *booking.PaymentIntentID
		}

		// Депозит pending-записи ещё не списан: intent надо погасить,
		// чтобы client_secret отменённой записи нельзя было оплатить
		if booking.Status == domain.StatusPending && booking.PaymentIntentID != nil {
			voidIntentID = *booking.PaymentIntentID
		}

		result = &Response{
			ID:            booking.ID,
			Status:        string(domain.StatusCancelled),
			CancelledAt:   now,
			DepositMinor:  booking.DepositMinor,
			RefundPercent: refundPercent,
			RefundMinor:   refundMinor,
			Currency:      booking.Currency,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 4. Гасим неоплаченный intent (вне транзакции: внешний вызов не
	// должен держать блокировки БД). Неудача не откатывает отмену -
	// оплатить intent отменённой записи сервис всё равно не подтвердит.
	if voidIntentID != "" {
		if err := uc.paymentsClient.CancelIntent(ctx, voidIntentID); err != nil {
			uc.logger.Error("CancelBooking: failed to void intent %s for booking id=%d: %v",
				voidIntentID, req.BookingID, err)
		} else {
			uc.logger.Info("CancelBooking: voided intent %s for booking id=%d", voidIntentID, req.BookingID)
		}
	}

	// 5. Возвращаем депозит. Отмена уже зафиксирована - неудачный
	// возврат не возвращает запись в активный статус.
	if refundIntentID != "" {
		if _, err := uc.paymentsClient.Refund(ctx, refundIntentID, refundMinor); err != nil {
			uc.logger.Error("CancelBooking: refund failed for booking id=%d, intent=%s: %v",
				req.BookingID, refundIntentID, err)
			return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
		}
		uc.logger.Info("CancelBooking: refunded %d minor units for booking id=%d", refundMinor, req.BookingID)
	}

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%d", req.BookingID)
	return result, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxNotesLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
