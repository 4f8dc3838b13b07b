package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixpoint/internal/domain"
)

type CalendarRepo struct {
	db *pgxpool.Pool
}

func NewCalendarRepository(db *pgxpool.Pool) CalendarRepository {
	return &CalendarRepo{db: db}
}

func (r *CalendarRepo) UpsertBusinessHours(ctx context.Context, hours domain.BusinessHours) error {
	query := `
		INSERT INTO business_hours (day_of_week, is_active, open_time, close_time, break_start, break_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (day_of_week) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			updated_at = NOW()
	`

	_, err := r.db.Exec(
		ctx,
		query,
		hours.DayOfWeek,
		hours.IsActive,
		hours.OpenTime,
		hours.CloseTime,
		hours.BreakStart,
		hours.BreakEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert business hours: %w", err)
	}

	return nil
}

func (r *CalendarRepo) GetBusinessHours(ctx context.Context, dayOfWeek int) (*domain.BusinessHours, error) {
	query := `
		SELECT day_of_week, is_active,
		       TO_CHAR(open_time, 'HH24:MI'), TO_CHAR(close_time, 'HH24:MI'),
		       TO_CHAR(break_start, 'HH24:MI'), TO_CHAR(break_end, 'HH24:MI'),
		       created_at, updated_at
		FROM business_hours
		WHERE day_of_week = $1
	`

	var hours domain.BusinessHours
	err := r.db.QueryRow(ctx, query, dayOfWeek).Scan(
		&hours.DayOfWeek,
		&hours.IsActive,
		&hours.OpenTime,
		&hours.CloseTime,
		&hours.BreakStart,
		&hours.BreakEnd,
		&hours.CreatedAt,
		&hours.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get business hours: %w", err)
	}

	return &hours, nil
}

func (r *CalendarRepo) ListBusinessHours(ctx context.Context) ([]domain.BusinessHours, error) {
	query := `
		SELECT day_of_week, is_active,
		       TO_CHAR(open_time, 'HH24:MI'), TO_CHAR(close_time, 'HH24:MI'),
		       TO_CHAR(break_start, 'HH24:MI'), TO_CHAR(break_end, 'HH24:MI'),
		       created_at, updated_at
		FROM business_hours
		ORDER BY day_of_week
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list business hours: %w", err)
	}
	defer rows.Close()

	var result []domain.BusinessHours
	for rows.Next() {
		var hours domain.BusinessHours
		if err := rows.Scan(
			&hours.DayOfWeek,
			&hours.IsActive,
			&hours.OpenTime,
			&hours.CloseTime,
			&hours.BreakStart,
			&hours.BreakEnd,
			&hours.CreatedAt,
			&hours.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan business hours row: %w", err)
		}
		result = append(result, hours)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate business hours rows: %w", err)
	}

	return result, nil
}

func (r *CalendarRepo) UpsertSpecialDate(ctx context.Context, special domain.SpecialDate) error {
	query := `
		INSERT INTO special_dates (date, type, open_time, close_time, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (date) DO UPDATE SET
			type = EXCLUDED.type,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			reason = EXCLUDED.reason,
			updated_at = NOW()
	`

	_, err := r.db.Exec(
		ctx,
		query,
		special.Date,
		special.Type,
		special.OpenTime,
		special.CloseTime,
		special.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert special date: %w", err)
	}

	return nil
}

func (r *CalendarRepo) GetSpecialDate(ctx context.Context, date time.Time) (*domain.SpecialDate, error) {
	query := `
		SELECT date, type,
		       TO_CHAR(open_time, 'HH24:MI'), TO_CHAR(close_time, 'HH24:MI'),
		       reason, created_at, updated_at
		FROM special_dates
		WHERE date = $1
	`

	var special domain.SpecialDate
	err := r.db.QueryRow(ctx, query, date).Scan(
		&special.Date,
		&special.Type,
		&special.OpenTime,
		&special.CloseTime,
		&special.Reason,
		&special.CreatedAt,
		&special.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get special date: %w", err)
	}

	return &special, nil
}

func (r *CalendarRepo) ListSpecialDates(ctx context.Context, start, end time.Time) ([]domain.SpecialDate, error) {
	query := `
		SELECT date, type,
		       TO_CHAR(open_time, 'HH24:MI'), TO_CHAR(close_time, 'HH24:MI'),
		       reason, created_at, updated_at
		FROM special_dates
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list special dates: %w", err)
	}
	defer rows.Close()

	var result []domain.SpecialDate
	for rows.Next() {
		var special domain.SpecialDate
		if err := rows.Scan(
			&special.Date,
			&special.Type,
			&special.OpenTime,
			&special.CloseTime,
			&special.Reason,
			&special.CreatedAt,
			&special.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan special date row: %w", err)
		}
		result = append(result, special)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate special date rows: %w", err)
	}

	return result, nil
}

func (r *CalendarRepo) DeleteSpecialDate(ctx context.Context, date time.Time) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM special_dates WHERE date = $1`, date)
	if err != nil {
		return fmt.Errorf("failed to delete special date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
