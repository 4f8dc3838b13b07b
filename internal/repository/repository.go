package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fixpoint/internal/domain"
)

type Repositories struct {
	Calendar    CalendarRepository
	Slot        SlotRepository
	Appointment AppointmentRepository
	Customer    CustomerRepository
	Device      DeviceRepository
	Service     ServiceRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Calendar:    NewCalendarRepository(db),
		Slot:        NewSlotRepository(db),
		Appointment: NewAppointmentRepository(db),
		Customer:    NewCustomerRepository(db),
		Device:      NewDeviceRepository(db),
		Service:     NewServiceRepository(db),
	}
}

type CalendarRepository interface {
	UpsertBusinessHours(ctx context.Context, hours domain.BusinessHours) error
	GetBusinessHours(ctx context.Context, dayOfWeek int) (*domain.BusinessHours, error)
	ListBusinessHours(ctx context.Context) ([]domain.BusinessHours, error)

	UpsertSpecialDate(ctx context.Context, special domain.SpecialDate) error
	GetSpecialDate(ctx context.Context, date time.Time) (*domain.SpecialDate, error)
	ListSpecialDates(ctx context.Context, start, end time.Time) ([]domain.SpecialDate, error)
	DeleteSpecialDate(ctx context.Context, date time.Time) error
}

type SlotRepository interface {
	// BulkUpsert inserts slots keyed on (date, start_time, staff_id); rows
	// that already exist are left untouched. Returns the number inserted.
	BulkUpsert(ctx context.Context, slots []domain.Slot) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error)

	// Reserve is a compare-and-increment: it succeeds only if the slot was
	// available immediately prior. false means the guard did not match.
	Reserve(ctx context.Context, slotID, appointmentID int64) (bool, error)
	Release(ctx context.Context, slotID int64) error
	SetAvailability(ctx context.Context, slotID int64, available bool) error
}

type AppointmentRepository interface {
	// Create runs the overlap re-check, the insert and the optional slot
	// reservation inside one serializable transaction.
	Create(ctx context.Context, appointment *domain.Appointment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByNumber(ctx context.Context, number string) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)

	// ListActiveByDate returns appointments on the date still occupying
	// their interval (scheduled or confirmed), optionally excluding one id.
	ListActiveByDate(ctx context.Context, date time.Time, excludeID *int64) ([]domain.Appointment, error)

	Confirm(ctx context.Context, id int64, at time.Time) error
	MarkArrived(ctx context.Context, id int64, at time.Time) error
	MarkNoShow(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64, reason string) error
	SetConfirmationSent(ctx context.Context, id int64, at time.Time) error

	// Reschedule re-runs the overlap check (excluding the appointment
	// itself) and updates the schedule in one serializable transaction.
	Reschedule(ctx context.Context, id int64, date time.Time, startTime string, durationMinutes int) error

	// Convert creates the ticket with its line items and flips the
	// appointment to converted in a single transaction. If any step fails
	// the appointment keeps its previous status.
	Convert(ctx context.Context, appointmentID int64, ticket domain.Ticket, items []domain.TicketLineItem) (int64, error)
}

type CustomerRepository interface {
	FindOrCreate(ctx context.Context, name, email, phone string) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type DeviceRepository interface {
	LinkOrCreate(ctx context.Context, customerID int64, attrs domain.DeviceAttrsDTO) (*domain.CustomerDevice, error)
	GetByID(ctx context.Context, id int64) (*domain.CustomerDevice, error)
}

type ServiceRepository interface {
	ListByIDs(ctx context.Context, ids []int64) ([]domain.RepairService, error)
}
