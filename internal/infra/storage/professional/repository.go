package professional

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/primapp/prim-booking-service/internal/domain"
	"github.com/primapp/prim-booking-service/pkg/dbmetrics"
	"github.com/primapp/prim-booking-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с мастерами и их настройками
//
// Профиль мастера хранится в трёх таблицах:
//   - professionals        - профиль, правила записи и политики
//   - business_hours       - недельное расписание (до 7 строк, weekday 0=воскресенье)
//   - cancellation_tiers   - ступени частичного возврата депозита
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает мастера со всеми настройками по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"user_id",
		"business_name",
		"category",
		"min_notice_minutes",
		"max_advance_days",
		"buffer_minutes",
		"max_bookings_per_day",
		"allow_double_booking",
		"deposit_require",
		"deposit_type",
		"deposit_value",
		"deposit_min_booking_value",
		"cancellation_enabled",
		"cancellation_notice_hours",
		"created_at",
		"updated_at",
	).
		From("professionals").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var prof domain.Professional
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&prof.ID,
		&prof.UserID,
		&prof.BusinessName,
		&prof.Category,
		&prof.Rules.MinNoticeMinutes,
		&prof.Rules.MaxAdvanceDays,
		&prof.Rules.BufferMinutes,
		&prof.Rules.MaxBookingsPerDay,
		&prof.Rules.AllowDoubleBooking,
		&prof.Deposit.Require,
		&prof.Deposit.Type,
		&prof.Deposit.Value,
		&prof.Deposit.MinimumBookingValue,
		&prof.Cancellation.Enabled,
		&prof.Cancellation.NoticePeriodHours,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan professional: %v", ErrScanRow, err)
	}

	prof.CreatedAt = createdAt.Time
	prof.UpdatedAt = updatedAt.Time

	if prof.Hours, err = r.loadHours(ctx, id); err != nil {
		return nil, err
	}
	if prof.Cancellation.Tiers, err = r.loadTiers(ctx, id); err != nil {
		return nil, err
	}

	return &prof, nil
}

// UpdateSettings сохраняет настройки мастера: правила записи, политики
// и недельное расписание
//
// Расписание и ступени возврата перезаписываются целиком (delete + insert),
// поэтому вызов обязан идти внутри транзакции.
func (r *Repository) UpdateSettings(ctx context.Context, prof *domain.Professional) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("professionals").
		Set("business_name", prof.BusinessName).
		Set("category", prof.Category).
		Set("min_notice_minutes", prof.Rules.MinNoticeMinutes).
		Set("max_advance_days", prof.Rules.MaxAdvanceDays).
		Set("buffer_minutes", prof.Rules.BufferMinutes).
		Set("max_bookings_per_day", prof.Rules.MaxBookingsPerDay).
		Set("allow_double_booking", prof.Rules.AllowDoubleBooking).
		Set("deposit_require", prof.Deposit.Require).
		Set("deposit_type", prof.Deposit.Type).
		Set("deposit_value", prof.Deposit.Value).
		Set("deposit_min_booking_value", prof.Deposit.MinimumBookingValue).
		Set("cancellation_enabled", prof.Cancellation.Enabled).
		Set("cancellation_notice_hours", prof.Cancellation.NoticePeriodHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": prof.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrProfessionalNotFound
	}

	if err := r.replaceHours(ctx, prof.ID, prof.Hours); err != nil {
		return err
	}
	return r.replaceTiers(ctx, prof.ID, prof.Cancellation.Tiers)
}

// loadHours загружает недельное расписание мастера
func (r *Repository) loadHours(ctx context.Context, professionalID int64) (domain.WeeklyHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var hours domain.WeeklyHours

	query, args, err := psqlbuilder.Select(
		"weekday",
		"is_open",
		"open_time",
		"close_time",
		"break_start",
		"break_end",
	).
		From("business_hours").
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return hours, fmt.Errorf("%w: loadHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return hours, fmt.Errorf("%w: loadHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day domain.DayHours

		err := rows.Scan(
			&weekday,
			&day.IsOpen,
			&day.OpenTime,
			&day.CloseTime,
			&day.BreakStart,
			&day.BreakEnd,
		)
		if err != nil {
			return hours, fmt.Errorf("%w: loadHours - scan row: %v", ErrScanRow, err)
		}

		hours.SetForWeekday(time.Weekday(weekday), day)
	}

	if err := rows.Err(); err != nil {
		return hours, fmt.Errorf("%w: loadHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// loadTiers загружает ступени возврата депозита
func (r *Repository) loadTiers(ctx context.Context, professionalID int64) ([]domain.RefundTier, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"threshold_hours",
		"refund_percent",
	).
		From("cancellation_tiers").
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("threshold_hours DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadTiers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadTiers - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	tiers := make([]domain.RefundTier, 0)
	for rows.Next() {
		var tier domain.RefundTier
		if err := rows.Scan(&tier.ThresholdHours, &tier.RefundPercent); err != nil {
			return nil, fmt.Errorf("%w: loadTiers - scan row: %v", ErrScanRow, err)
		}
		tiers = append(tiers, tier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadTiers - rows error: %v", ErrScanRow, err)
	}

	return tiers, nil
}

// replaceHours перезаписывает недельное расписание мастера
func (r *Repository) replaceHours(ctx context.Context, professionalID int64, hours domain.WeeklyHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("business_hours").
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceHours - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceHours - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("business_hours").
		Columns(
			"professional_id",
			"weekday",
			"is_open",
			"open_time",
			"close_time",
			"break_start",
			"break_end",
		)

	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day := hours.ForWeekday(weekday)
		insertBuilder = insertBuilder.Values(
			professionalID,
			int(weekday),
			day.IsOpen,
			day.OpenTime,
			day.CloseTime,
			day.BreakStart,
			day.BreakEnd,
		)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceHours - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// replaceTiers перезаписывает ступени возврата депозита
func (r *Repository) replaceTiers(ctx context.Context, professionalID int64, tiers []domain.RefundTier) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("cancellation_tiers").
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceTiers - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceTiers - execute delete: %v", ErrExecQuery, err)
	}

	if len(tiers) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("cancellation_tiers").
		Columns("professional_id", "threshold_hours", "refund_percent")

	for _, tier := range tiers {
		insertBuilder = insertBuilder.Values(professionalID, tier.ThresholdHours, tier.RefundPercent)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceTiers - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceTiers - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
