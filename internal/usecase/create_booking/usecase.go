package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/primapp/prim-booking-service/internal/domain"
	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	serviceRepo "github.com/primapp/prim-booking-service/internal/infra/storage/service"
	"github.com/primapp/prim-booking-service/pkg/simpletxmanager"
	"github.com/primapp/prim-booking-service/pkg/txmanager"
)

// UseCase use case для создания записи к мастеру
type UseCase struct {
	bookingRepo      BookingRepository
	professionalRepo ProfessionalRepository
	serviceRepo      ServiceRepository
	paymentsClient   PaymentsClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	currency         string
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	professionalRepo ProfessionalRepository,
	serviceRepo ServiceRepository,
	paymentsClient PaymentsClient,
	txManager TransactionManager,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		professionalRepo: professionalRepo,
		serviceRepo:      serviceRepo,
		paymentsClient:   paymentsClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		currency:         currency,
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Проверка конфликтов и вставка идут в сериализуемой транзакции с
// блокировкой записей дня (FOR UPDATE): из двух конкурентных запросов
// на один слот выигрывает первый, второй получает ErrSlotTaken
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, professional=%d, service=%d, date=%s, time=%s",
		req.UserID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера с расписанием, правилами и политиками
	prof, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateBooking: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Услуга должна принадлежать мастеру и быть активной
	if svc.ProfessionalID != req.ProfessionalID {
		uc.logger.Warn("CreateBooking: service id=%d does not belong to professional id=%d",
			req.ServiceID, req.ProfessionalID)
		return nil, ErrServiceNotFound
	}
	if !svc.Active {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 6. Считаем депозит по актуальным политикам
	// Расчёт из выдачи слотов не переиспользуется: между выбором слота
	// и записью мастер мог поменять политику
	deposit := svc.EffectiveDeposit(prof.Deposit)
	depositMinor := deposit.QuoteMinor(svc.Price)

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Валидация даты с учетом горизонта записи
		if err := validateDate(req.Date, now, prof.Rules.MaxAdvanceDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		// 7.2. Получаем расписание на указанный день
		day := prof.Hours.ForWeekday(req.Date.Weekday())
		if !day.IsOpen {
			uc.logger.Warn("CreateBooking: professional id=%d is closed on %s",
				req.ProfessionalID, req.Date.Format(domain.DateFormat))
			return ErrProfessionalClosed
		}

		// 7.3. Слот должен целиком помещаться в рабочие часы
		if err := validateWithinBusinessHours(day, req.StartTime, svc.DurationMinutes); err != nil {
			uc.logger.Warn("CreateBooking: slot %s is outside business hours", req.StartTime)
			return err
		}

		// 7.4. Валидация минимального срока записи
		if err := validateBookingTime(req.Date, req.StartTime, now, prof.Rules.MinNoticeMinutes); err != nil {
			uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
			return err
		}

		// 7.5. Получаем все активные записи дня с блокировкой (FOR UPDATE)
		filter := domain.ProfessionalBookingsFilter{
			ProfessionalID:  req.ProfessionalID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetByProfessionalWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 7.6. Лимит записей в день
		if prof.Rules.MaxBookingsPerDay > 0 && countActive(bookings) >= prof.Rules.MaxBookingsPerDay {
			uc.logger.Warn("CreateBooking: daily limit reached for professional id=%d on %s",
				req.ProfessionalID, req.Date.Format(domain.DateFormat))
			return ErrDailyLimitReached
		}

		// 7.7. Проверяем конфликты с учётом буфера после каждой записи
		// В режиме двойной записи проверка не выполняется
		if !prof.Rules.AllowDoubleBooking {
			if conflict := findConflict(req.StartTime, svc.DurationMinutes, bookings, prof.Rules.BufferMinutes); conflict != nil {
				uc.logger.Warn("CreateBooking: slot %s conflicts with booking id=%d (%s, %d min)",
					req.StartTime, conflict.ID, conflict.StartTime, conflict.DurationMinutes)
				return ErrSlotTaken
			}
		}

		// 7.8. Создаем запись с денормализацией данных услуги
		// Начальный статус всегда pending
		booking := &domain.Booking{
			CustomerID:      req.UserID,
			ProfessionalID:  req.ProfessionalID,
			ServiceID:       req.ServiceID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: svc.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     svc.Name,
			ServicePrice:    svc.Price,
			DepositMinor:    depositMinor,
			Currency:        uc.currency,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 7.9. Запись без депозита подтверждается тут же переходом
		// pending -> confirmed, депозитная ждёт оплаты
		if depositMinor == 0 {
			if err := created.Transition(domain.StatusConfirmed); err != nil {
				return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
			}
			if err := uc.bookingRepo.UpdateStatus(txCtx, created.ID, domain.StatusPending, domain.StatusConfirmed); err != nil {
				uc.logger.Error("CreateBooking: failed to confirm booking id=%d: %v", created.ID, err)
				return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		// Конфликт сериализации означает, что параллельная запись выиграла
		// гонку за тот же день - для клиента это занятый слот
		if errors.Is(err, txmanager.ErrSerializationFailure) || errors.Is(err, simpletxmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization conflict for professional=%d, date=%s",
				req.ProfessionalID, req.Date.Format(domain.DateFormat))
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, status=%s, deposit=%d %s",
		result.ID, result.Status, depositMinor, uc.currency)

	// 8. Создаём платёж на депозит (вне транзакции: внешний вызов не
	// должен держать блокировки БД)
	var clientSecret string
	if depositMinor > 0 {
		intent, err := uc.paymentsClient.CreateIntent(ctx, result.ID, depositMinor, uc.currency)
		if err != nil {
			// Платёж не создан - запись не должна держать слот
			uc.logger.Error("CreateBooking: payment failed for booking id=%d: %v", result.ID, err)
			if cancelErr := uc.bookingRepo.UpdateStatus(ctx, result.ID, domain.StatusPending, domain.StatusCancelled); cancelErr != nil {
				uc.logger.Error("CreateBooking: failed to cancel booking id=%d after payment failure: %v",
					result.ID, cancelErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}

		if err := uc.bookingRepo.SetPaymentIntent(ctx, result.ID, intent.ID); err != nil {
			// Intent не привязан к записи - гасим и платёж, и запись, иначе
			// клиент сможет оплатить слот, который мы не подтвердим
			uc.logger.Error("CreateBooking: failed to store payment intent for booking id=%d: %v", result.ID, err)
			if cancelErr := uc.paymentsClient.CancelIntent(ctx, intent.ID); cancelErr != nil {
				uc.logger.Error("CreateBooking: failed to void intent %s for booking id=%d: %v",
					intent.ID, result.ID, cancelErr)
			}
			if cancelErr := uc.bookingRepo.UpdateStatus(ctx, result.ID, domain.StatusPending, domain.StatusCancelled); cancelErr != nil {
				uc.logger.Error("CreateBooking: failed to cancel booking id=%d: %v", result.ID, cancelErr)
			}
			return nil, fmt.Errorf("%w: failed to store payment intent: %v", ErrInternal, err)
		}

		clientSecret = intent.ClientSecret
		uc.logger.Info("CreateBooking: payment intent %s created for booking id=%d", intent.ID, result.ID)
	}

	endTime, err := result.EndTime()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
	}

	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		ProfessionalID:  result.ProfessionalID,
		ServiceID:       result.ServiceID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		EndTime:         endTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		Deposit: DepositInfo{
			AmountMinor:  depositMinor,
			Currency:     uc.currency,
			ClientSecret: clientSecret,
		},
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}
