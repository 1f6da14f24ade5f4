package professionals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primapp/prim-booking-service/internal/domain"
	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	"github.com/primapp/prim-booking-service/internal/service/professionals/models"
	"github.com/primapp/prim-booking-service/pkg/ptr"
	"github.com/primapp/prim-booking-service/pkg/types"
)

type mockProfessionalRepo struct {
	prof   *domain.Professional
	getErr error

	updated *domain.Professional
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, _ int64) (*domain.Professional, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.prof, nil
}

func (m *mockProfessionalRepo) UpdateSettings(_ context.Context, prof *domain.Professional) error {
	m.updated = prof
	return nil
}

type mockServiceRepo struct {
	services []*domain.Service
}

func (m *mockServiceRepo) ListByProfessional(_ context.Context, _ int64, _ bool) ([]*domain.Service, error) {
	return m.services, nil
}

// fakeTxManager выполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
		ID:           1,
		UserID:       100,
		BusinessName: "Glow Studio",
		Category:     "beauty",
		Hours: domain.WeeklyHours{
			Monday: domain.DayHours{IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00")},
		},
		Rules: domain.BookingRules{
			MinNoticeMinutes: 60,
			MaxAdvanceDays:   60,
		},
	}
}

func newTestService(repo *mockProfessionalRepo, services ...*domain.Service) *Service {
	return NewService(repo, &mockServiceRepo{services: services}, &fakeTxManager{}, nopLogger{})
}

func TestGetProfile(t *testing.T) {
	repo := &mockProfessionalRepo{prof: testProfessional()}
	svc := newTestService(repo, &domain.Service{ID: 10, Name: "Haircut", DurationMinutes: 60, Price: 45})

	profile, err := svc.GetProfile(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Glow Studio", profile.BusinessName)
	require.Len(t, profile.Services, 1)
	assert.Equal(t, "Haircut", profile.Services[0].Name)
	assert.True(t, profile.Hours.Monday.IsOpen)
}

func TestGetProfile_NotFound(t *testing.T) {
	repo := &mockProfessionalRepo{getErr: professionalRepo.ErrProfessionalNotFound}
	svc := newTestService(repo)

	_, err := svc.GetProfile(context.Background(), 1)

	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestUpdateSettings_PartialRulesMerge(t *testing.T) {
	repo := &mockProfessionalRepo{prof: testProfessional()}
	svc := newTestService(repo)

	// Передана только одна секция и одно поле - остальное не трогаем
	resp, err := svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		UserID: 100,
		Rules:  &models.BookingRulesPayload{BufferMinutes: ptr.Ptr(15)},
	})

	require.NoError(t, err)
	assert.Equal(t, 15, resp.Rules.BufferMinutes)
	// Непереданные поля сохраняют прежние значения
	assert.Equal(t, 60, resp.Rules.MinNoticeMinutes)
	assert.Equal(t, 60, resp.Rules.MaxAdvanceDays)
	assert.Equal(t, "Glow Studio", resp.BusinessName)

	require.NotNil(t, repo.updated)
	assert.Equal(t, 15, repo.updated.Rules.BufferMinutes)
}

func TestUpdateSettings_ReplacesPolicies(t *testing.T) {
	repo := &mockProfessionalRepo{prof: testProfessional()}
	svc := newTestService(repo)

	resp, err := svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		UserID: 100,
		Deposit: &models.DepositPolicyPayload{
			Require: true,
			Type:    "percentage",
			Value:   20,
		},
		Cancellation: &models.CancellationPolicyPayload{
			Enabled:           true,
			NoticePeriodHours: 24,
			Tiers:             []models.RefundTierPayload{{ThresholdHours: 12, RefundPercent: 50}},
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Deposit.Require)
	assert.Equal(t, 20.0, resp.Deposit.Value)
	assert.Equal(t, 24, resp.Cancellation.NoticePeriodHours)
	require.Len(t, resp.Cancellation.Tiers, 1)
}

func TestUpdateSettings_AccessDenied(t *testing.T) {
	repo := &mockProfessionalRepo{prof: testProfessional()}
	svc := newTestService(repo)

	_, err := svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		UserID:       999,
		BusinessName: ptr.Ptr("Hijacked"),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.updated)
}

func TestUpdateSettings_InvalidSettingsRejectedWhole(t *testing.T) {
	repo := &mockProfessionalRepo{prof: testProfessional()}
	svc := newTestService(repo)

	// Ночные часы отклоняются валидацией итоговых настроек
	_, err := svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		UserID: 100,
		Hours: &models.WeeklyHoursPayload{
			Monday: models.DayHoursPayload{IsOpen: true, Open: ts("22:00"), Close: ts("02:00")},
		},
	})

	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Nil(t, repo.updated)
}

func TestUpdateSettings_InvalidDepositRejected(t *testing.T) {
	repo := &mockProfessionalRepo{prof: testProfessional()}
	svc := newTestService(repo)

	_, err := svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		UserID: 100,
		Deposit: &models.DepositPolicyPayload{
			Require: true,
			Type:    "percentage",
			Value:   150, // за пределами (0, 100]
		},
	})

	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestUpdateSettings_NotFound(t *testing.T) {
	repo := &mockProfessionalRepo{getErr: professionalRepo.ErrProfessionalNotFound}
	svc := newTestService(repo)

	_, err := svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{UserID: 100})

	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}
