package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixpoint/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) AppointmentRepository {
	return &AppointmentRepo{db: db}
}

const appointmentColumns = `
	id, appointment_number, customer_id, device_id, customer_device_id,
	scheduled_date, TO_CHAR(scheduled_time, 'HH24:MI'), duration_minutes,
	service_ids, estimated_cost, status, issues, description, urgency, source,
	notes, slot_id, confirmation_sent_at, reminder_sent_at, confirmed_at,
	arrived_at, converted_to_ticket_id, cancellation_reason, created_by,
	assigned_to, created_at, updated_at
`

// startMinutesExpr converts the scheduled_time column to minutes since
// midnight; paired with duration_minutes it gives half-open intervals for the
// overlap predicate.
const startMinutesExpr = `(EXTRACT(HOUR FROM scheduled_time) * 60 + EXTRACT(MINUTE FROM scheduled_time))::int`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.AppointmentNumber,
		&a.CustomerID,
		&a.DeviceID,
		&a.CustomerDeviceID,
		&a.ScheduledDate,
		&a.ScheduledTime,
		&a.DurationMinutes,
		&a.ServiceIDs,
		&a.EstimatedCost,
		&a.Status,
		&a.Issues,
		&a.Description,
		&a.Urgency,
		&a.Source,
		&a.Notes,
		&a.SlotID,
		&a.ConfirmationSentAt,
		&a.ReminderSentAt,
		&a.ConfirmedAt,
		&a.ArrivedAt,
		&a.ConvertedToTicketID,
		&a.CancellationReason,
		&a.CreatedBy,
		&a.AssignedTo,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// findOverlapping looks for an active appointment on the date whose half-open
// interval intersects [startMin, endMin). Runs inside the caller's
// transaction so the check and the subsequent write are isolated together.
func findOverlapping(ctx context.Context, tx pgx.Tx, date time.Time, startMin, endMin int, excludeID *int64) (string, error) {
	query := `
		SELECT appointment_number
		FROM appointments
		WHERE scheduled_date = $1
		  AND status IN ('scheduled', 'confirmed')
		  AND ` + startMinutesExpr + ` < $3
		  AND $2 < ` + startMinutesExpr + ` + COALESCE(NULLIF(duration_minutes, 0), 30)
	`
	args := []interface{}{date, startMin, endMin}

	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}
	query += " ORDER BY scheduled_time LIMIT 1"

	var number string
	err := tx.QueryRow(ctx, query, args...).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to check for overlaps: %w", err)
	}

	return number, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, a *domain.Appointment) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	startMin := a.StartMinutes()
	colliding, err := findOverlapping(ctx, tx, a.ScheduledDate, startMin, startMin+a.DurationMinutes, nil)
	if err != nil {
		return 0, err
	}
	if colliding != "" {
		return 0, &domain.ConflictError{AppointmentNumber: colliding}
	}

	query := `
		INSERT INTO appointments (
			appointment_number, customer_id, device_id, customer_device_id,
			scheduled_date, scheduled_time, duration_minutes, service_ids,
			estimated_cost, status, issues, description, urgency, source,
			notes, slot_id, created_by, assigned_to, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(
		ctx,
		query,
		a.AppointmentNumber,
		a.CustomerID,
		a.DeviceID,
		a.CustomerDeviceID,
		a.ScheduledDate,
		a.ScheduledTime,
		a.DurationMinutes,
		a.ServiceIDs,
		a.EstimatedCost,
		a.Status,
		a.Issues,
		a.Description,
		a.Urgency,
		a.Source,
		a.Notes,
		a.SlotID,
		a.CreatedBy,
		a.AssignedTo,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert appointment: %w", err)
	}

	if a.SlotID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE appointment_slots
			SET current_capacity = current_capacity + 1,
			    is_available = (current_capacity + 1 < max_capacity),
			    appointment_id = $2,
			    updated_at = NOW()
			WHERE id = $1 AND is_available = TRUE AND current_capacity < max_capacity
		`, *a.SlotID, id)
		if err != nil {
			return 0, fmt.Errorf("failed to reserve slot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return 0, &domain.ConflictError{Message: "slot is no longer available"}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit appointment creation: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return a, nil
}

func (r *AppointmentRepo) GetByNumber(ctx context.Context, number string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE appointment_number = $1`

	a, err := scanAppointment(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment by number: %w", err)
	}

	return a, nil
}

func appointmentFilterConditions(filter domain.AppointmentFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *filter.CustomerID)
		argPos++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("scheduled_date >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("scheduled_date <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	where, args := appointmentFilterConditions(filter)
	query := `SELECT ` + appointmentColumns + ` FROM appointments` + where +
		` ORDER BY scheduled_date DESC, scheduled_time DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		appointments = append(appointments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointment rows: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	where, args := appointmentFilterConditions(filter)

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	return count, nil
}

func (r *AppointmentRepo) ListActiveByDate(ctx context.Context, date time.Time, excludeID *int64) ([]domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE scheduled_date = $1 AND status IN ('scheduled', 'confirmed')
	`
	args := []interface{}{date}

	if excludeID != nil {
		query += " AND id != $2"
		args = append(args, *excludeID)
	}
	query += " ORDER BY scheduled_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active appointments: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		appointments = append(appointments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointment rows: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) Confirm(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE appointments
		SET status = 'confirmed', confirmed_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'scheduled'
	`

	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to confirm appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) MarkArrived(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE appointments
		SET status = 'arrived', arrived_at = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'confirmed')
	`

	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark appointment arrived: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) MarkNoShow(ctx context.Context, id int64) error {
	query := `
		UPDATE appointments
		SET status = 'no_show', updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'confirmed', 'arrived')
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark appointment no-show: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE appointments
		SET status = 'cancelled', cancellation_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'confirmed')
		RETURNING slot_id
	`

	var slotID *int64
	err = tx.QueryRow(ctx, query, id, reason).Scan(&slotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	if slotID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE appointment_slots
			SET current_capacity = GREATEST(current_capacity - 1, 0),
			    is_available = TRUE,
			    appointment_id = NULL,
			    updated_at = NOW()
			WHERE id = $1
		`, *slotID)
		if err != nil {
			return fmt.Errorf("failed to release slot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) SetConfirmationSent(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE appointments SET confirmation_sent_at = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to record confirmation send: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) Reschedule(ctx context.Context, id int64, date time.Time, startTime string, durationMinutes int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return domain.NewValidationError("scheduled_time", "expected HH:MM")
	}
	startMin := t.Hour()*60 + t.Minute()

	colliding, err := findOverlapping(ctx, tx, date, startMin, startMin+durationMinutes, &id)
	if err != nil {
		return err
	}
	if colliding != "" {
		return &domain.ConflictError{AppointmentNumber: colliding}
	}

	query := `
		UPDATE appointments
		SET scheduled_date = $2, scheduled_time = $3, duration_minutes = $4, updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'confirmed')
	`

	tag, err := tx.Exec(ctx, query, id, date, startTime, durationMinutes)
	if err != nil {
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reschedule: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) Convert(ctx context.Context, appointmentID int64, ticket domain.Ticket, items []domain.TicketLineItem) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status domain.AppointmentStatus
	err = tx.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1 FOR UPDATE`, appointmentID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("failed to lock appointment: %w", err)
	}

	if status.Terminal() {
		return 0, &domain.InvalidTransitionError{From: status, To: domain.AppointmentStatusConverted}
	}

	var ticketID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO tickets (
			ticket_number, customer_id, device_id, customer_device_id,
			serial_number, imei, issues, description, estimated_cost,
			priority, status, appointment_id, assigned_to, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id
	`,
		ticket.TicketNumber,
		ticket.CustomerID,
		ticket.DeviceID,
		ticket.CustomerDeviceID,
		ticket.SerialNumber,
		ticket.IMEI,
		ticket.Issues,
		ticket.Description,
		ticket.EstimatedCost,
		ticket.Priority,
		ticket.Status,
		ticket.AppointmentID,
		ticket.AssignedTo,
	).Scan(&ticketID)
	if err != nil {
		return 0, &domain.DependencyError{Op: "ticket creation", Err: err}
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO ticket_items (ticket_id, service_id, name, unit_price, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, ticketID, item.ServiceID, item.Name, item.UnitPrice, item.Quantity)
		if err != nil {
			return 0, &domain.DependencyError{Op: "ticket line item creation", Err: err}
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = 'converted', converted_to_ticket_id = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'confirmed', 'arrived')
	`, appointmentID, ticketID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark appointment converted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, &domain.InvalidTransitionError{From: status, To: domain.AppointmentStatusConverted}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit conversion: %w", err)
	}

	return ticketID, nil
}
