package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primapp/prim-booking-service/internal/domain"
	bookingRepo "github.com/primapp/prim-booking-service/internal/infra/storage/booking"
	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	"github.com/primapp/prim-booking-service/internal/integrations/payments"
	"github.com/primapp/prim-booking-service/internal/service/bookings/models"
)

type mockBookingRepo struct {
	booking  *domain.Booking
	bookings []*domain.Booking
	getErr   error

	statusUpdates  map[int64]domain.BookingStatus
	updateErr      error
	completedCount int64

	lastFilter domain.ProfessionalBookingsFilter
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{statusUpdates: make(map[int64]domain.BookingStatus)}
}

func (m *mockBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.booking, nil
}

func (m *mockBookingRepo) GetByCustomerID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return m.bookings, nil
}

func (m *mockBookingRepo) GetByProfessionalWithFilter(_ context.Context, filter domain.ProfessionalBookingsFilter) ([]*domain.Booking, error) {
	m.lastFilter = filter
	return m.bookings, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id int64, _ domain.BookingStatus, to domain.BookingStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates[id] = to
	return nil
}

func (m *mockBookingRepo) CompleteElapsed(_ context.Context, _ time.Time) (int64, error) {
	return m.completedCount, nil
}

type mockProfessionalRepo struct {
	prof *domain.Professional
	err  error
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, _ int64) (*domain.Professional, error) {
	return m.prof, m.err
}

type mockPaymentsClient struct {
	intentStatus string
	getErr       error

	lookups []string
}

func (m *mockPaymentsClient) GetIntent(_ context.Context, intentID string) (*payments.Intent, error) {
	m.lookups = append(m.lookups, intentID)
	if m.getErr != nil {
		return nil, m.getErr
	}
	status := m.intentStatus
	if status == "" {
		status = payments.IntentStatusSucceeded
	}
	return &payments.Intent{ID: intentID, AmountMinor: 900, Currency: "gbp", Status: status}, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking() *domain.Booking {
	intentID := "pi_test"
	return &domain.Booking{
		ID:              5,
		CustomerID:      7,
		ProfessionalID:  1,
		ServiceID:       10,
		BookingDate:     time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		StartTime:       "14:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
		DepositMinor:    900,
		Currency:        "gbp",
		PaymentIntentID: &intentID,
	}
}

func newTestService(repo *mockBookingRepo, prof *domain.Professional) *Service {
	return newTestServiceWithPayments(repo, prof, &mockPaymentsClient{})
}

func newTestServiceWithPayments(repo *mockBookingRepo, prof *domain.Professional, pay *mockPaymentsClient) *Service {
	return NewService(
		repo,
		&mockProfessionalRepo{prof: prof},
		pay,
		&fixedTime{now: time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)},
		nopLogger{},
	)
}

func TestGetByID_CustomerSeesOwnBooking(t *testing.T) {
	repo := newMockBookingRepo()
	repo.booking = testBooking()

	svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

	resp, err := svc.GetByID(context.Background(), 5, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "pending", resp.Status)
}

func TestGetByID_OwnerSeesBooking(t *testing.T) {
	repo := newMockBookingRepo()
	repo.booking = testBooking()

	svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

	_, err := svc.GetByID(context.Background(), 5, 100)

	assert.NoError(t, err)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	repo := newMockBookingRepo()
	repo.booking = testBooking()

	svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

	_, err := svc.GetByID(context.Background(), 5, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newMockBookingRepo()
	repo.getErr = bookingRepo.ErrBookingNotFound

	svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

	_, err := svc.GetByID(context.Background(), 5, 7)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirmPayment(t *testing.T) {
	t.Run("pending becomes confirmed after captured payment", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.booking = testBooking()
		pay := &mockPaymentsClient{}

		svc := newTestServiceWithPayments(repo, &domain.Professional{ID: 1, UserID: 100}, pay)

		resp, err := svc.ConfirmPayment(context.Background(), 5, 7)

		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, domain.StatusConfirmed, repo.statusUpdates[5])
		// Факт списания проверен у провайдера
		assert.Equal(t, []string{"pi_test"}, pay.lookups)
	})

	t.Run("uncaptured payment keeps booking pending", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.booking = testBooking()
		pay := &mockPaymentsClient{intentStatus: "requires_payment_method"}

		svc := newTestServiceWithPayments(repo, &domain.Professional{ID: 1, UserID: 100}, pay)

		_, err := svc.ConfirmPayment(context.Background(), 5, 7)

		assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
		assert.Empty(t, repo.statusUpdates)
	})

	t.Run("deposit booking without intent cannot be confirmed", func(t *testing.T) {
		repo := newMockBookingRepo()
		booking := testBooking()
		booking.PaymentIntentID = nil
		repo.booking = booking

		svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

		_, err := svc.ConfirmPayment(context.Background(), 5, 7)

		assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
	})

	t.Run("zero-deposit booking skips payment lookup", func(t *testing.T) {
		repo := newMockBookingRepo()
		booking := testBooking()
		booking.DepositMinor = 0
		booking.PaymentIntentID = nil
		repo.booking = booking
		pay := &mockPaymentsClient{}

		svc := newTestServiceWithPayments(repo, &domain.Professional{ID: 1, UserID: 100}, pay)

		_, err := svc.ConfirmPayment(context.Background(), 5, 7)

		require.NoError(t, err)
		assert.Empty(t, pay.lookups)
	})

	t.Run("concurrent cancellation is not overwritten", func(t *testing.T) {
		// Между чтением pending-записи и записью статуса запись успела
		// отмениться: условное обновление не находит строку
		repo := newMockBookingRepo()
		repo.booking = testBooking()
		repo.updateErr = bookingRepo.ErrStatusConflict

		svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

		_, err := svc.ConfirmPayment(context.Background(), 5, 7)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, repo.statusUpdates)
	})

	t.Run("only the customer may confirm", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.booking = testBooking()

		svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

		// Даже мастер не подтверждает чужую оплату
		_, err := svc.ConfirmPayment(context.Background(), 5, 100)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("confirmed cannot be confirmed again", func(t *testing.T) {
		repo := newMockBookingRepo()
		booking := testBooking()
		booking.Status = domain.StatusConfirmed
		repo.booking = booking

		svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

		_, err := svc.ConfirmPayment(context.Background(), 5, 7)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancelled cannot be confirmed", func(t *testing.T) {
		repo := newMockBookingRepo()
		booking := testBooking()
		booking.Status = domain.StatusCancelled
		repo.booking = booking

		svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

		_, err := svc.ConfirmPayment(context.Background(), 5, 7)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestGetUserBookings_InvalidStatusRejected(t *testing.T) {
	repo := newMockBookingRepo()
	svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

	badStatus := "sideways"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7, Status: &badStatus})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProfessionalBookings_OwnerOnly(t *testing.T) {
	repo := newMockBookingRepo()
	svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

	_, err := svc.GetProfessionalBookings(context.Background(), &models.GetProfessionalBookingsRequest{ProfessionalID: 1, UserID: 999})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetProfessionalBookings_MissingProfessionalDenied(t *testing.T) {
	repo := newMockBookingRepo()
	svc := NewService(
		repo,
		&mockProfessionalRepo{err: professionalRepo.ErrProfessionalNotFound},
		&mockPaymentsClient{},
		&fixedTime{now: time.Now()},
		nopLogger{},
	)

	_, err := svc.GetProfessionalBookings(context.Background(), &models.GetProfessionalBookingsRequest{ProfessionalID: 1, UserID: 100})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCompleteElapsedBookings(t *testing.T) {
	repo := newMockBookingRepo()
	repo.completedCount = 3

	svc := newTestService(repo, &domain.Professional{ID: 1, UserID: 100})

	count, err := svc.CompleteElapsedBookings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
