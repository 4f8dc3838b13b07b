package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fixpoint/config"
	"fixpoint/internal/cache"
	"fixpoint/internal/domain"
	"fixpoint/internal/repository"
)

type Deps struct {
	Repos    *repository.Repositories
	Cache    *cache.CalendarCache
	Notifier NotificationDispatcher
	Logger   *zap.Logger
	Config   *config.Config
}

type Services struct {
	Calendar     CalendarService
	Availability AvailabilityService
	Conflict     ConflictService
	Slot         SlotService
	Appointment  AppointmentService
}

func NewServices(deps Deps) *Services {
	conflict := NewConflictService(deps.Repos.Appointment)
	availability := NewAvailabilityService(deps.Repos.Calendar, deps.Repos.Slot, deps.Cache, deps.Logger)

	return &Services{
		Calendar:     NewCalendarService(deps.Repos.Calendar, deps.Cache, deps.Logger),
		Availability: availability,
		Conflict:     conflict,
		Slot:         NewSlotService(deps.Repos.Slot, availability, deps.Logger, deps.Config.Scheduling),
		Appointment: NewAppointmentService(
			deps.Repos.Appointment,
			deps.Repos.Customer,
			deps.Repos.Device,
			deps.Repos.Service,
			deps.Repos.Slot,
			conflict,
			deps.Notifier,
			deps.Logger,
			deps.Config.Scheduling,
		),
	}
}

type CalendarService interface {
	UpsertBusinessHours(ctx context.Context, dto domain.UpsertBusinessHoursDTO) error
	ListBusinessHours(ctx context.Context) ([]domain.BusinessHours, error)
	UpsertSpecialDate(ctx context.Context, dto domain.UpsertSpecialDateDTO) error
	ListSpecialDates(ctx context.Context, start, end time.Time) ([]domain.SpecialDate, error)
	DeleteSpecialDate(ctx context.Context, date time.Time) error
}

type AvailabilityService interface {
	ResolveDay(ctx context.Context, date time.Time) (*domain.DayAvailability, error)
	ResolveRange(ctx context.Context, start, end time.Time) (map[string]domain.DayAvailability, error)
}

type ConflictService interface {
	// Check returns every active appointment whose half-open interval
	// overlaps the candidate. Empty result means the time is free.
	Check(ctx context.Context, date time.Time, startTime string, durationMinutes int, excludeID *int64) ([]domain.Appointment, error)
}

type SlotService interface {
	GenerateForDate(ctx context.Context, date time.Time, durationMinutes int, staffID *int64, maxCapacity int) (int, error)
	GenerateForRange(ctx context.Context, start, end time.Time, durationMinutes int, staffID *int64, maxCapacity int) (int, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error)
	Reserve(ctx context.Context, slotID, appointmentID int64) error
	Release(ctx context.Context, slotID int64) error
	SetAvailability(ctx context.Context, slotID int64, available bool) error
}

type AppointmentService interface {
	Create(ctx context.Context, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByNumber(ctx context.Context, number string) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	Confirm(ctx context.Context, id int64) error
	MarkArrived(ctx context.Context, id int64) error
	MarkNoShow(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64, reason string) error
	Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) error
	ConvertToTicket(ctx context.Context, id int64, overrides domain.ConvertAppointmentDTO) (int64, error)
}

func PointerTo[T any](v T) *T {
	return &v
}
