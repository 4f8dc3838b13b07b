package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixpoint/internal/domain"
)

type SlotRepo struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &SlotRepo{db: db}
}

const slotColumns = `
	id, date, TO_CHAR(start_time, 'HH24:MI'), TO_CHAR(end_time, 'HH24:MI'),
	duration_minutes, staff_id, is_available, max_capacity, current_capacity,
	appointment_id, created_at, updated_at
`

func scanSlot(row pgx.Row) (*domain.Slot, error) {
	var slot domain.Slot
	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.DurationMinutes,
		&slot.StaffID,
		&slot.IsAvailable,
		&slot.MaxCapacity,
		&slot.CurrentCapacity,
		&slot.AppointmentID,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepo) BulkUpsert(ctx context.Context, slots []domain.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	// Generation for an already-populated date must be a no-op, so existing
	// rows keyed on (date, start_time, staff_id) are left untouched.
	query := `
		INSERT INTO appointment_slots (
			date, start_time, end_time, duration_minutes, staff_id,
			is_available, max_capacity, current_capacity, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, TRUE, $6, 0, NOW(), NOW())
		ON CONFLICT (date, start_time, staff_key) DO NOTHING
	`

	inserted := 0
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, slot := range slots {
		tag, err := tx.Exec(
			ctx,
			query,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.DurationMinutes,
			slot.StaffID,
			slot.MaxCapacity,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert slot: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit slot generation: %w", err)
	}

	return inserted, nil
}

func (r *SlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	return slot, nil
}

func (r *SlotRepo) List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE 1=1`

	var args []interface{}
	argPos := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}

	if filter.StaffID != nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argPos)
		args = append(args, *filter.StaffID)
		argPos++
	}

	if filter.OnlyAvailable {
		query += " AND is_available = TRUE AND current_capacity < max_capacity"
	}

	query += " ORDER BY date, start_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot row: %w", err)
		}
		slots = append(slots, *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slot rows: %w", err)
	}

	return slots, nil
}

func (r *SlotRepo) Reserve(ctx context.Context, slotID, appointmentID int64) (bool, error) {
	// Compare-and-increment: the guard predicate makes concurrent
	// reservations of the last capacity unit lose with zero rows affected.
	query := `
		UPDATE appointment_slots
		SET current_capacity = current_capacity + 1,
		    is_available = (current_capacity + 1 < max_capacity),
		    appointment_id = $2,
		    updated_at = NOW()
		WHERE id = $1 AND is_available = TRUE AND current_capacity < max_capacity
	`

	tag, err := r.db.Exec(ctx, query, slotID, appointmentID)
	if err != nil {
		return false, fmt.Errorf("failed to reserve slot: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *SlotRepo) Release(ctx context.Context, slotID int64) error {
	query := `
		UPDATE appointment_slots
		SET current_capacity = GREATEST(current_capacity - 1, 0),
		    is_available = TRUE,
		    appointment_id = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *SlotRepo) SetAvailability(ctx context.Context, slotID int64, available bool) error {
	query := `UPDATE appointment_slots SET is_available = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, slotID, available)
	if err != nil {
		return fmt.Errorf("failed to update slot availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
