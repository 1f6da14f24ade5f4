package models

import (
	"time"

	"github.com/primapp/prim-booking-service/internal/domain"
	"github.com/primapp/prim-booking-service/pkg/types"
)

// Request модели

// DayHoursPayload расписание одного дня недели
type DayHoursPayload struct {
	IsOpen     bool              `json:"isOpen"`
	Open       *types.TimeString `json:"open,omitempty"`       // "09:00"
	Close      *types.TimeString `json:"close,omitempty"`      // "17:00"
	BreakStart *types.TimeString `json:"breakStart,omitempty"` // Опциональный перерыв
	BreakEnd   *types.TimeString `json:"breakEnd,omitempty"`
}

// WeeklyHoursPayload недельное расписание
type WeeklyHoursPayload struct {
	Monday    DayHoursPayload `json:"monday"`
	Tuesday   DayHoursPayload `json:"tuesday"`
	Wednesday DayHoursPayload `json:"wednesday"`
	Thursday  DayHoursPayload `json:"thursday"`
	Friday    DayHoursPayload `json:"friday"`
	Saturday  DayHoursPayload `json:"saturday"`
	Sunday    DayHoursPayload `json:"sunday"`
}

// BookingRulesPayload правила приёма записей
type BookingRulesPayload struct {
	MinNoticeMinutes   *int  `json:"minNoticeMinutes,omitempty"`
	MaxAdvanceDays     *int  `json:"maxAdvanceDays,omitempty"`
	BufferMinutes      *int  `json:"bufferMinutes,omitempty"`
	MaxBookingsPerDay  *int  `json:"maxBookingsPerDay,omitempty"`
	AllowDoubleBooking *bool `json:"allowDoubleBooking,omitempty"`
}

// DepositPolicyPayload политика депозита
type DepositPolicyPayload struct {
	Require             bool    `json:"require"`
	Type                string  `json:"type"` // "percentage" или "fixed"
	Value               float64 `json:"value"`
	MinimumBookingValue float64 `json:"minimumBookingValue"`
}

// RefundTierPayload ступень частичного возврата депозита
type RefundTierPayload struct {
	ThresholdHours int     `json:"thresholdHours"`
	RefundPercent  float64 `json:"refundPercent"`
}

// CancellationPolicyPayload политика отмены
type CancellationPolicyPayload struct {
	Enabled           bool                `json:"enabled"`
	NoticePeriodHours int                 `json:"noticePeriodHours"`
	Tiers             []RefundTierPayload `json:"tiers,omitempty"`
}

// UpdateSettingsRequest запрос на обновление настроек мастера
// Все секции опциональны - обновляются только переданные
type UpdateSettingsRequest struct {
	UserID       int64                      `json:"userId"`
	BusinessName *string                    `json:"businessName,omitempty"`
	Category     *string                    `json:"category,omitempty"`
	Hours        *WeeklyHoursPayload        `json:"hours,omitempty"`
	Rules        *BookingRulesPayload       `json:"rules,omitempty"`
	Deposit      *DepositPolicyPayload      `json:"deposit,omitempty"`
	Cancellation *CancellationPolicyPayload `json:"cancellation,omitempty"`
}

// ApplyToProfessional применяет обновления к настройкам мастера
// Обновляются только переданные секции
func (r *UpdateSettingsRequest) ApplyToProfessional(prof *domain.Professional) {
	if r.BusinessName != nil {
		prof.BusinessName = *r.BusinessName
	}
	if r.Category != nil {
		prof.Category = *r.Category
	}
	if r.Hours != nil {
		prof.Hours = r.Hours.ToDomain()
	}
	if r.Rules != nil {
		if r.Rules.MinNoticeMinutes != nil {
			prof.Rules.MinNoticeMinutes = *r.Rules.MinNoticeMinutes
		}
		if r.Rules.MaxAdvanceDays != nil {
			prof.Rules.MaxAdvanceDays = *r.Rules.MaxAdvanceDays
		}
		if r.Rules.BufferMinutes != nil {
			prof.Rules.BufferMinutes = *r.Rules.BufferMinutes
		}
		if r.Rules.MaxBookingsPerDay != nil {
			prof.Rules.MaxBookingsPerDay = *r.Rules.MaxBookingsPerDay
		}
		if r.Rules.AllowDoubleBooking != nil {
			prof.Rules.AllowDoubleBooking = *r.Rules.AllowDoubleBooking
		}
	}
	if r.Deposit != nil {
		prof.Deposit = domain.DepositPolicy{
			Require:             r.Deposit.Require,
			Type:                domain.DepositType(r.Deposit.Type),
			Value:               r.Deposit.Value,
			MinimumBookingValue: r.Deposit.MinimumBookingValue,
		}
	}
	if r.Cancellation != nil {
		tiers := make([]domain.RefundTier, 0, len(r.Cancellation.Tiers))
		for _, t := range r.Cancellation.Tiers {
			tiers = append(tiers, domain.RefundTier{
				ThresholdHours: t.ThresholdHours,
				RefundPercent:  t.RefundPercent,
			})
		}
		prof.Cancellation = domain.CancellationPolicy{
			Enabled:           r.Cancellation.Enabled,
			NoticePeriodHours: r.Cancellation.NoticePeriodHours,
			Tiers:             tiers,
		}
	}
}

// ToDomain конвертирует недельное расписание в domain модель
func (w *WeeklyHoursPayload) ToDomain() domain.WeeklyHours {
	return domain.WeeklyHours{
		Monday:    w.Monday.toDomain(),
		Tuesday:   w.Tuesday.toDomain(),
		Wednesday: w.Wednesday.toDomain(),
		Thursday:  w.Thursday.toDomain(),
		Friday:    w.Friday.toDomain(),
		Saturday:  w.Saturday.toDomain(),
		Sunday:    w.Sunday.toDomain(),
	}
}

func (d DayHoursPayload) toDomain() domain.DayHours {
	return domain.DayHours{
		IsOpen:     d.IsOpen,
		OpenTime:   d.Open,
		CloseTime:  d.Close,
		BreakStart: d.BreakStart,
		BreakEnd:   d.BreakEnd,
	}
}

// Response модели

// ServiceResponse услуга в составе профиля мастера
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// ProfileResponse публичный профиль мастера
type ProfileResponse struct {
	ID           int64                     `json:"id"`
	BusinessName string                    `json:"businessName"`
	Category     string                    `json:"category"`
	Hours        WeeklyHoursPayload        `json:"hours"`
	Rules        BookingRulesResponse      `json:"rules"`
	Deposit      DepositPolicyPayload      `json:"deposit"`
	Cancellation CancellationPolicyPayload `json:"cancellation"`
	Services     []ServiceResponse         `json:"services"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

// BookingRulesResponse правила записи в ответе профиля
type BookingRulesResponse struct {
	MinNoticeMinutes   int  `json:"minNoticeMinutes"`
	MaxAdvanceDays     int  `json:"maxAdvanceDays"`
	BufferMinutes      int  `json:"bufferMinutes"`
	MaxBookingsPerDay  int  `json:"maxBookingsPerDay"`
	AllowDoubleBooking bool `json:"allowDoubleBooking"`
}

// Методы конвертации

// FromDomainProfessional конвертирует domain модель в DTO профиля
func FromDomainProfessional(p *domain.Professional, services []*domain.Service) *ProfileResponse {
	if p == nil {
		return nil
	}

	serviceResponses := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		serviceResponses = append(serviceResponses, ServiceResponse{
			ID:              svc.ID,
			Name:            svc.Name,
			Category:        svc.Category,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}

	tiers := make([]RefundTierPayload, 0, len(p.Cancellation.Tiers))
	for _, t := range p.Cancellation.Tiers {
		tiers = append(tiers, RefundTierPayload{
			ThresholdHours: t.ThresholdHours,
			RefundPercent:  t.RefundPercent,
		})
	}

	return &ProfileResponse{
		ID:           p.ID,
		BusinessName: p.BusinessName,
		Category:     p.Category,
		Hours:        fromDomainHours(p.Hours),
		Rules: BookingRulesResponse{
			MinNoticeMinutes:   p.Rules.MinNoticeMinutes,
			MaxAdvanceDays:     p.Rules.MaxAdvanceDays,
			BufferMinutes:      p.Rules.BufferMinutes,
			MaxBookingsPerDay:  p.Rules.MaxBookingsPerDay,
			AllowDoubleBooking: p.Rules.AllowDoubleBooking,
		},
		Deposit: DepositPolicyPayload{
			Require:             p.Deposit.Require,
			Type:                string(p.Deposit.Type),
			Value:               p.Deposit.Value,
			MinimumBookingValue: p.Deposit.MinimumBookingValue,
		},
		Cancellation: CancellationPolicyPayload{
			Enabled:           p.Cancellation.Enabled,
			NoticePeriodHours: p.Cancellation.NoticePeriodHours,
			Tiers:             tiers,
		},
		Services:  serviceResponses,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromDomainHours(h domain.WeeklyHours) WeeklyHoursPayload {
	return WeeklyHoursPayload{
		Monday:    fromDomainDay(h.Monday),
		Tuesday:   fromDomainDay(h.Tuesday),
		Wednesday: fromDomainDay(h.Wednesday),
		Thursday:  fromDomainDay(h.Thursday),
		Friday:    fromDomainDay(h.Friday),
		Saturday:  fromDomainDay(h.Saturday),
		Sunday:    fromDomainDay(h.Sunday),
	}
}

func fromDomainDay(d domain.DayHours) DayHoursPayload {
	return DayHoursPayload{
		IsOpen:     d.IsOpen,
		Open:       d.OpenTime,
		Close:      d.CloseTime,
		BreakStart: d.BreakStart,
		BreakEnd:   d.BreakEnd,
	}
}
