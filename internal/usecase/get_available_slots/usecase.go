package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/primapp/prim-booking-service/internal/domain"
	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	serviceRepo "github.com/primapp/prim-booking-service/internal/infra/storage/service"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	bookingRepo      BookingRepository
	professionalRepo ProfessionalRepository
	serviceRepo      ServiceRepository
	timeProvider     TimeProvider
	currency         string
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	professionalRepo ProfessionalRepository,
	serviceRepo ServiceRepository,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		professionalRepo: professionalRepo,
		serviceRepo:      serviceRepo,
		timeProvider:     &RealTimeProvider{},
		currency:         currency,
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%d, service=%d, date=%s",
		req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера с расписанием и правилами
	prof, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Услуга должна принадлежать мастеру и быть активной
	if svc.ProfessionalID != req.ProfessionalID {
		uc.logger.Warn("GetAvailableSlots: service id=%d does not belong to professional id=%d",
			req.ServiceID, req.ProfessionalID)
		return nil, ErrServiceNotFound
	}
	if !svc.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 6. Валидация даты с учетом горизонта записи
	if err := validateDate(req.Date, now, prof.Rules.MaxAdvanceDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем расписание на указанный день недели
	day := prof.Hours.ForWeekday(req.Date.Weekday())
	if !day.IsOpen {
		uc.logger.Info("GetAvailableSlots: professional id=%d is closed on %s",
			req.ProfessionalID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 8. Генерируем кандидатов: шаг равен длительности услуги,
	// слоты не пересекают перерыв и конец рабочего дня
	candidates, err := generateCandidates(day, svc.DurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	// 9. Отсекаем слоты раньше минимального срока записи
	candidates, err = filterByNotice(candidates, req.Date, now, prof.Rules.MinNoticeMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to filter by notice: %v", err)
		return nil, fmt.Errorf("%w: failed to filter by notice: %v", ErrInternal, err)
	}

	// 10. Получаем все активные записи мастера на эту дату
	filter := domain.ProfessionalBookingsFilter{
		ProfessionalID:  req.ProfessionalID,
		StartDate:       &req.Date,
		EndDate:         &req.Date,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetByProfessionalWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 11. Лимит записей в день: если достигнут - свободных слотов нет
	if prof.Rules.MaxBookingsPerDay > 0 && countActive(bookings) >= prof.Rules.MaxBookingsPerDay {
		uc.logger.Info("GetAvailableSlots: daily limit reached for professional id=%d on %s",
			req.ProfessionalID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 12. Отсекаем слоты, пересекающиеся с занятыми интервалами
	// В режиме двойной записи конфликты и буферы не проверяются
	if !prof.Rules.AllowDoubleBooking {
		candidates = filterConflicts(candidates, svc.DurationMinutes, bookings, prof.Rules.BufferMinutes)
	}

	// 13. Считаем депозит для каждого слота
	// Переопределение депозита на уровне услуги имеет приоритет над
	// базовой политикой мастера
	deposit := svc.EffectiveDeposit(prof.Deposit)
	quote := domain.NewDepositQuote(deposit, prof.Cancellation, svc.Price, uc.currency)

	slots := make([]Slot, 0, len(candidates))
	for _, start := range candidates {
		candidate := domain.Slot{
			StartTime:       start,
			DurationMinutes: svc.DurationMinutes,
			Deposit:         quote,
		}
		end, err := candidate.EndTime()
		if err != nil {
			continue
		}
		slots = append(slots, Slot{
			StartTime:       candidate.StartTime,
			EndTime:         end,
			DurationMinutes: candidate.DurationMinutes,
			Deposit:         candidate.Deposit,
		})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for professional=%d, service=%d, date=%s",
		len(slots), req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:           req.Date,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Slots:          slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:           req.Date,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Slots:          []Slot{},
	}
}
