package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primapp/prim-booking-service/internal/domain"
	bookingRepo "github.com/primapp/prim-booking-service/internal/infra/storage/booking"
	"github.com/primapp/prim-booking-service/internal/integrations/payments"
)

// 2025-10-13 - понедельник
var mondayDate = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

type mockBookingRepo struct {
	booking *domain.Booking
	getErr  error

	cancelled      bool
	cancelReason   string
	cancelledAt    time.Time
	recordedRefund *int64
	cancelErr      error
}

func (m *mockBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.booking, nil
}

func (m *mockBookingRepo) Cancel(_ context.Context, _ int64, reason string, cancelledAt time.Time, refundMinor *int64) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelled = true
	m.cancelReason = reason
	m.cancelledAt = cancelledAt
	m.recordedRefund = refundMinor
	return nil
}

type mockProfessionalRepo struct {
	prof *domain.Professional
	err  error
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, _ int64) (*domain.Professional, error) {
	return m.prof, m.err
}

type mockPaymentsClient struct {
	err error

	calls        int
	lastIntentID string
	lastAmount   int64
	voided       []string
}

func (m *mockPaymentsClient) Refund(_ context.Context, intentID string, amountMinor int64) (*payments.RefundResult, error) {
	m.calls++
	m.lastIntentID = intentID
	m.lastAmount = amountMinor
	if m.err != nil {
		return nil, m.err
	}
	return &payments.RefundResult{ID: "re_test", AmountMinor: amountMinor, Status: "succeeded"}, nil
}

func (m *mockPaymentsClient) CancelIntent(_ context.Context, intentID string) error {
	m.voided = append(m.voided, intentID)
	return nil
}

// fakeTxManager выполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func testProfessional() *domain.Professional {
	return &domain.Professional{
		ID:     1,
		UserID: 100,
		Cancellation: domain.CancellationPolicy{
			Enabled:           true,
			NoticePeriodHours: 24,
			Tiers: []domain.RefundTier{
				{ThresholdHours: 12, RefundPercent: 50},
			},
		},
	}
}

func testBooking() *domain.Booking {
	intentID := "pi_test"
	return &domain.Booking{
		ID:              5,
		CustomerID:      7,
		ProfessionalID:  1,
		ServiceID:       10,
		BookingDate:     mondayDate,
		StartTime:       "14:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		DepositMinor:    2000,
		Currency:        "gbp",
		PaymentIntentID: &intentID,
	}
}

type testEnv struct {
	uc          *UseCase
	bookingRepo *mockBookingRepo
	payments    *mockPaymentsClient
}

func newTestEnv(booking *domain.Booking, prof *domain.Professional, now time.Time) *testEnv {
	repo := &mockBookingRepo{booking: booking}
	pay := &mockPaymentsClient{}

	uc := NewUseCase(
		repo,
		&mockProfessionalRepo{prof: prof},
		pay,
		&fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: now}

	return &testEnv{uc: uc, bookingRepo: repo, payments: pay}
}

func TestExecute_FullRefundBeforeNoticePeriod(t *testing.T) {
	// Отмена за 48 часов до начала (запись в понедельник 14:00)
	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7, Reason: "plans changed"})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 100.0, resp.RefundPercent)
	assert.Equal(t, int64(2000), resp.RefundMinor)

	assert.True(t, env.bookingRepo.cancelled)
	require.NotNil(t, env.bookingRepo.recordedRefund)
	assert.Equal(t, int64(2000), *env.bookingRepo.recordedRefund)

	assert.Equal(t, 1, env.payments.calls)
	assert.Equal(t, "pi_test", env.payments.lastIntentID)
	assert.Equal(t, int64(2000), env.payments.lastAmount)
	// Списанный intent возвращается, а не гасится
	assert.Empty(t, env.payments.voided)
}

func TestExecute_PartialRefundBetweenTiers(t *testing.T) {
	// Отмена за 20 часов: попадает в ступень 12h/50%
	now := mondayDate.Add(14*time.Hour - 20*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.RefundPercent)
	assert.Equal(t, int64(1000), resp.RefundMinor)
	assert.Equal(t, int64(1000), env.payments.lastAmount)
}

func TestExecute_ExactBoundaryGetsBetterTier(t *testing.T) {
	// Ровно 24 часа до начала - граница включительна, возврат 100%
	now := mondayDate.Add(14*time.Hour - 24*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.RefundPercent)
}

func TestExecute_LastMinuteNoRefund(t *testing.T) {
	now := mondayDate.Add(14*time.Hour - 2*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.RefundPercent)
	assert.Equal(t, int64(0), resp.RefundMinor)
	// Возвращать нечего - платёжный клиент не вызывается
	assert.Zero(t, env.payments.calls)
}

func TestExecute_PendingBookingNoRefund(t *testing.T) {
	booking := testBooking()
	booking.Status = domain.StatusPending

	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(booking, testProfessional(), now)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	require.NoError(t, err)
	// Депозит pending-записи ещё не внесён - возврата нет
	assert.Equal(t, int64(0), resp.RefundMinor)
	assert.Zero(t, env.payments.calls)
	assert.True(t, env.bookingRepo.cancelled)
	// Несписанный intent гасится, чтобы client_secret отменённой записи
	// нельзя было оплатить
	assert.Equal(t, []string{"pi_test"}, env.payments.voided)
}

func TestExecute_PendingWithoutIntentNothingToVoid(t *testing.T) {
	booking := testBooking()
	booking.Status = domain.StatusPending
	booking.PaymentIntentID = nil

	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(booking, testProfessional(), now)

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	require.NoError(t, err)
	assert.Empty(t, env.payments.voided)
}

func TestExecute_DisabledPolicyRefundsEverything(t *testing.T) {
	prof := testProfessional()
	prof.Cancellation = domain.CancellationPolicy{Enabled: false}

	// Даже за час до начала возврат полный
	now := mondayDate.Add(14*time.Hour - time.Hour)
	env := newTestEnv(testBooking(), prof, now)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.RefundPercent)
	assert.Equal(t, int64(2000), resp.RefundMinor)
}

func TestExecute_ProfessionalMayCancel(t *testing.T) {
	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)

	// UserID 100 - владелец профиля мастера
	_, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 100})

	assert.NoError(t, err)
}

func TestExecute_StrangerDenied(t *testing.T) {
	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 999})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.False(t, env.bookingRepo.cancelled)
}

func TestExecute_TerminalStatusesCannotBeCancelled(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusCompleted} {
		booking := testBooking()
		booking.Status = status

		now := mondayDate.Add(14*time.Hour - 48*time.Hour)
		env := newTestEnv(booking, testProfessional(), now)

		_, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
		assert.False(t, env.bookingRepo.cancelled)
	}
}

func TestExecute_ConcurrentStatusChangeRejected(t *testing.T) {
	// Запись читается активной, но к моменту условного UPDATE уже
	// завершена или отменена - репозиторий не находит активную строку
	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)
	env.bookingRepo.cancelErr = bookingRepo.ErrStatusConflict

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
	// Возврат не отправляется, если отмена не зафиксирована
	assert.Zero(t, env.payments.calls)
}

func TestExecute_BookingNotFound(t *testing.T) {
	env := newTestEnv(nil, testProfessional(), mondayDate)
	env.bookingRepo.getErr = bookingRepo.ErrBookingNotFound

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_RefundFailureKeepsCancellation(t *testing.T) {
	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(testBooking(), testProfessional(), now)
	env.payments.err = errors.New("stripe is down")

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	assert.ErrorIs(t, err, ErrRefundFailed)
	// Отмена уже зафиксирована и не откатывается
	assert.True(t, env.bookingRepo.cancelled)
}

func TestExecute_NoIntentMeansNoRefundCall(t *testing.T) {
	booking := testBooking()
	booking.PaymentIntentID = nil

	now := mondayDate.Add(14*time.Hour - 48*time.Hour)
	env := newTestEnv(booking, testProfessional(), now)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: 5, UserID: 7})

	require.NoError(t, err)
	assert.Equal(t, int64(2000), resp.RefundMinor)
	assert.Zero(t, env.payments.calls)
}
