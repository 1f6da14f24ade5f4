package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/primapp/prim-booking-service/internal/domain"
	bookingRepo "github.com/primapp/prim-booking-service/internal/infra/storage/booking"
	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	"github.com/primapp/prim-booking-service/internal/integrations/payments"
	"github.com/primapp/prim-booking-service/internal/service/bookings/models"
)

// Service сервис для работы с записями клиентов
type Service struct {
	bookingRepo      BookingRepository
	professionalRepo ProfessionalRepository
	paymentsClient   PaymentsClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	bookingRepo BookingRepository,
	professionalRepo ProfessionalRepository,
	paymentsClient PaymentsClient,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepo,
		professionalRepo: professionalRepo,
		paymentsClient:   paymentsClient,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - запись видна её клиенту и мастеру, к которому
// сделана запись
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProfessionalBookings получает записи мастера с гибкой фильтрацией
// Доступно только владельцу профиля мастера
//
// Примеры использования:
// - Все активные записи: GetProfessionalBookings(ctx, &GetProfessionalBookingsRequest{ProfessionalID: 123, UserID: 456})
// - Записи на дату: StartDate и EndDate указывают на одну дату
// - Записи за период: StartDate и EndDate указывают на разные даты
// - Включая отменённые и завершённые: IncludeInactive = true
func (s *Service) GetProfessionalBookings(ctx context.Context, req *models.GetProfessionalBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProfessionalBookings: fetching bookings for professional=%d, user=%d",
		req.ProfessionalID, req.UserID)

	// Проверяем права доступа владельца
	if err := s.checkOwnerAccess(ctx, req.ProfessionalID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProfessionalBookings: invalid filter for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	// Получаем записи с фильтрацией
	bookings, err := s.bookingRepo.GetByProfessionalWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProfessionalBookings: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetProfessionalBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProfessionalBookings: successfully fetched %d bookings for professional=%d",
		len(bookings), req.ProfessionalID)
	return models.FromDomainBookingList(bookings), nil
}

// ConfirmPayment переводит запись из pending в confirmed после получения
// депозита. Подтвердить можно только свою запись.
//
// Факт оплаты проверяется у провайдера по сохранённому intent: запись с
// депозитом не подтверждается на слово клиенту. Сам переход выполняется
// условным UPDATE по ожидаемому статусу, так что конкурентная отмена или
// свипер завершения не будут перезаписаны.
func (s *Service) ConfirmPayment(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmPayment: confirming booking id=%d by user=%d", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("ConfirmPayment: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("ConfirmPayment: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
	}

	if booking.CustomerID != userID {
		s.logger.Warn("ConfirmPayment: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, ErrAccessDenied
	}

	// Переход проверяется таблицей жизненного цикла: подтвердить можно
	// только запись в статусе pending
	if err := booking.Transition(domain.StatusConfirmed); err != nil {
		s.logger.Warn("ConfirmPayment: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, booking.Status)
	}

	// Депозитная запись требует списанного платежа
	if booking.DepositMinor > 0 {
		if booking.PaymentIntentID == nil {
			s.logger.Warn("ConfirmPayment: booking id=%d has no payment intent", bookingID)
			return nil, ErrPaymentNotConfirmed
		}

		intent, err := s.paymentsClient.GetIntent(ctx, *booking.PaymentIntentID)
		if err != nil {
			s.logger.Error("ConfirmPayment: failed to get intent %s for booking id=%d: %v",
				*booking.PaymentIntentID, bookingID, err)
			return nil, fmt.Errorf("%w: ConfirmPayment - payment lookup failed: %v", ErrInternal, err)
		}

		if intent.Status != payments.IntentStatusSucceeded {
			s.logger.Warn("ConfirmPayment: intent %s for booking id=%d is %s, not succeeded",
				intent.ID, bookingID, intent.Status)
			return nil, ErrPaymentNotConfirmed
		}
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			// Статус успел измениться между чтением и записью
			s.logger.Warn("ConfirmPayment: booking id=%d changed status concurrently", bookingID)
			return nil, fmt.Errorf("%w: booking status changed", ErrInvalidTransition)
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		default:
			s.logger.Error("ConfirmPayment: repository error for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("ConfirmPayment: successfully confirmed booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// CompleteElapsedBookings переводит подтверждённые записи, чьё время
// прошло, в статус completed
// Вызывается фоновым свипером по таймеру
func (s *Service) CompleteElapsedBookings(ctx context.Context) (int64, error) {
	now := s.timeProvider.Now()

	count, err := s.bookingRepo.CompleteElapsed(ctx, now)
	if err != nil {
		s.logger.Error("CompleteElapsedBookings: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteElapsedBookings - repository error: %v", ErrInternal, err)
	}

	if count > 0 {
		s.logger.Info("CompleteElapsedBookings: completed %d elapsed bookings", count)
	}
	return count, nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// Доступ есть у клиента записи и у владельца профиля мастера
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.CustomerID == userID {
		return nil
	}

	if err := s.checkOwnerAccess(ctx, booking.ProfessionalID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем
// профиля мастера
func (s *Service) checkOwnerAccess(ctx context.Context, professionalID int64, userID int64) error {
	prof, err := s.professionalRepo.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("checkOwnerAccess: professional id=%d not found", professionalID)
			return ErrAccessDenied
		}
		s.logger.Error("checkOwnerAccess: failed to get professional id=%d: %v", professionalID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get professional: %v", ErrInternal, err)
	}

	if prof.UserID != userID {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of professional=%d", userID, professionalID)
		return ErrAccessDenied
	}

	return nil
}
