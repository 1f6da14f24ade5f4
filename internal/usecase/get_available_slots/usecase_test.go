package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primapp/prim-booking-service/internal/domain"
	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	serviceRepo "github.com/primapp/prim-booking-service/internal/infra/storage/service"
	"github.com/primapp/prim-booking-service/pkg/types"
)

// 2025-10-13 - понедельник
var mondayDate = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

type mockBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (m *mockBookingRepo) GetByProfessionalWithFilter(_ context.Context, _ domain.ProfessionalBookingsFilter) ([]*domain.Booking, error) {
	return m.bookings, m.err
}

type mockProfessionalRepo struct {
	prof *domain.Professional
	err  error
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, _ int64) (*domain.Professional, error) {
	return m.prof, m.err
}

type mockServiceRepo struct {
	svc *domain.Service
	err error
}

func (m *mockServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return m.svc, m.err
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

func ts(s string) *types.TimeString {
	t := types.TimeString(s)
	return &t
}

func testProfessional() *domain.Professional {
	return &domain.Professional{
		ID:     1,
		UserID: 100,
		Hours: domain.WeeklyHours{
			Monday: domain.DayHours{IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00")},
		},
		Rules: domain.BookingRules{
			MinNoticeMinutes: 0,
			MaxAdvanceDays:   60,
		},
	}
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              10,
		ProfessionalID:  1,
		Name:            "Haircut",
		DurationMinutes: 60,
		Price:           45,
		Active:          true,
	}
}

func newTestUseCase(prof *domain.Professional, svc *domain.Service, bookings []*domain.Booking, now time.Time) *UseCase {
	uc := NewUseCase(
		&mockBookingRepo{bookings: bookings},
		&mockProfessionalRepo{prof: prof},
		&mockServiceRepo{svc: svc},
		"gbp",
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func slotStarts(resp *Response) []string {
	starts := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime.String())
	}
	return starts
}

func TestExecute_FullOpenDay(t *testing.T) {
	now := mondayDate.Add(8 * time.Hour) // 08:00 в день записи
	uc := newTestUseCase(testProfessional(), testService(), nil, now)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, slotStarts(resp))
	// Последний слот заканчивается ровно в закрытие
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[len(resp.Slots)-1].EndTime)
}

func TestExecute_BreakSplitsSlots(t *testing.T) {
	prof := testProfessional()
	prof.Hours.Monday.BreakStart = ts("12:00")
	prof.Hours.Monday.BreakEnd = ts("13:00")

	uc := newTestUseCase(prof, testService(), nil, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}, slotStarts(resp))
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	sunday := mondayDate.AddDate(0, 0, -1)
	uc := newTestUseCase(testProfessional(), testService(), nil, sunday.Add(-24*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: sunday})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_MinNoticeFiltersSlots(t *testing.T) {
	prof := testProfessional()
	prof.Rules.MinNoticeMinutes = 120

	// 10:30 + 2 часа notice: первый доступный слот 13:00
	uc := newTestUseCase(prof, testService(), nil, mondayDate.Add(10*time.Hour+30*time.Minute))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	assert.Equal(t, []string{"13:00", "14:00", "15:00", "16:00"}, slotStarts(resp))
}

func TestExecute_BookedSlotExcluded(t *testing.T) {
	bookings := []*domain.Booking{
		{ID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := newTestUseCase(testProfessional(), testService(), bookings, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	assert.NotContains(t, slotStarts(resp), "10:00")
	// Граничащие слоты остаются доступными
	assert.Contains(t, slotStarts(resp), "09:00")
	assert.Contains(t, slotStarts(resp), "11:00")
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	bookings := []*domain.Booking{
		{ID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}
	uc := newTestUseCase(testProfessional(), testService(), bookings, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	assert.Contains(t, slotStarts(resp), "10:00")
}

func TestExecute_BufferExtendsBusyInterval(t *testing.T) {
	prof := testProfessional()
	prof.Rules.BufferMinutes = 30

	bookings := []*domain.Booking{
		{ID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := newTestUseCase(prof, testService(), bookings, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	// Буфер 30 минут после записи 10:00-11:00 закрывает и слот 11:00
	assert.NotContains(t, slotStarts(resp), "10:00")
	assert.NotContains(t, slotStarts(resp), "11:00")
	assert.Contains(t, slotStarts(resp), "12:00")
}

func TestExecute_DoubleBookingIgnoresConflicts(t *testing.T) {
	prof := testProfessional()
	prof.Rules.AllowDoubleBooking = true

	bookings := []*domain.Booking{
		{ID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := newTestUseCase(prof, testService(), bookings, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	assert.Contains(t, slotStarts(resp), "10:00")
}

func TestExecute_DailyLimitReturnsEmpty(t *testing.T) {
	prof := testProfessional()
	prof.Rules.MaxBookingsPerDay = 2

	bookings := []*domain.Booking{
		{ID: 1, StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		{ID: 2, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusPending},
	}
	uc := newTestUseCase(prof, testService(), bookings, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SlotsCarryDepositQuote(t *testing.T) {
	prof := testProfessional()
	prof.Deposit = domain.DepositPolicy{Require: true, Type: domain.DepositPercentage, Value: 20}
	prof.Cancellation = domain.CancellationPolicy{Enabled: true, NoticePeriodHours: 24}

	uc := newTestUseCase(prof, testService(), nil, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	// 20% от 45.00 = 900 минорных единиц
	assert.Equal(t, int64(900), resp.Slots[0].Deposit.AmountMinor)
	assert.Equal(t, "gbp", resp.Slots[0].Deposit.Currency)
	assert.True(t, resp.Slots[0].Deposit.Refundable)
}

func TestExecute_ServiceDepositOverride(t *testing.T) {
	prof := testProfessional()
	prof.Deposit = domain.DepositPolicy{Require: true, Type: domain.DepositPercentage, Value: 20}

	svc := testService()
	fixedType := domain.DepositFixed
	fixedValue := 15.0
	svc.DepositOverrideType = &fixedType
	svc.DepositOverrideValue = &fixedValue

	uc := newTestUseCase(prof, svc, nil, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, int64(1500), resp.Slots[0].Deposit.AmountMinor)
}

func TestExecute_Errors(t *testing.T) {
	now := mondayDate.Add(8 * time.Hour)

	t.Run("professional not found", func(t *testing.T) {
		uc := NewUseCase(
			&mockBookingRepo{},
			&mockProfessionalRepo{err: professionalRepo.ErrProfessionalNotFound},
			&mockServiceRepo{svc: testService()},
			"gbp",
			nopLogger{},
		)
		uc.timeProvider = &fixedTime{now: now}

		_, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})
		assert.ErrorIs(t, err, ErrProfessionalNotFound)
	})

	t.Run("service not found", func(t *testing.T) {
		uc := NewUseCase(
			&mockBookingRepo{},
			&mockProfessionalRepo{prof: testProfessional()},
			&mockServiceRepo{err: serviceRepo.ErrServiceNotFound},
			"gbp",
			nopLogger{},
		)
		uc.timeProvider = &fixedTime{now: now}

		_, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("service of another professional", func(t *testing.T) {
		svc := testService()
		svc.ProfessionalID = 999
		uc := newTestUseCase(testProfessional(), svc, nil, now)

		_, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive service", func(t *testing.T) {
		svc := testService()
		svc.Active = false
		uc := newTestUseCase(testProfessional(), svc, nil, now)

		_, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: mondayDate})
		assert.ErrorIs(t, err, ErrServiceInactive)
	})

	t.Run("date in the past", func(t *testing.T) {
		uc := newTestUseCase(testProfessional(), testService(), nil, now)

		_, err := uc.Execute(context.Background(), &Request{
			ProfessionalID: 1, ServiceID: 10, Date: mondayDate.AddDate(0, 0, -7),
		})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("date beyond advance horizon", func(t *testing.T) {
		uc := newTestUseCase(testProfessional(), testService(), nil, now)

		_, err := uc.Execute(context.Background(), &Request{
			ProfessionalID: 1, ServiceID: 10, Date: mondayDate.AddDate(0, 0, 90),
		})
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})
}

func TestExecute_UnlimitedHorizonWhenZero(t *testing.T) {
	prof := testProfessional()
	prof.Rules.MaxAdvanceDays = 0

	farFuture := mondayDate.AddDate(1, 0, 0)
	// Год вперёд, та же дата может быть не понедельником - найдём понедельник
	for farFuture.Weekday() != time.Monday {
		farFuture = farFuture.AddDate(0, 0, 1)
	}

	uc := newTestUseCase(prof, testService(), nil, mondayDate.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 1, ServiceID: 10, Date: farFuture})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Slots)
}
