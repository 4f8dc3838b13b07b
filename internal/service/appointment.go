package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fixpoint/config"
	"fixpoint/internal/domain"
	"fixpoint/internal/repository"
)

type AppointmentServiceImpl struct {
	repo         repository.AppointmentRepository
	customerRepo repository.CustomerRepository
	deviceRepo   repository.DeviceRepository
	serviceRepo  repository.ServiceRepository
	slotRepo     repository.SlotRepository
	conflict     ConflictService
	notifier     NotificationDispatcher
	logger       *zap.Logger
	cfg          config.SchedulingConfig
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	customerRepo repository.CustomerRepository,
	deviceRepo repository.DeviceRepository,
	serviceRepo repository.ServiceRepository,
	slotRepo repository.SlotRepository,
	conflict ConflictService,
	notifier NotificationDispatcher,
	logger *zap.Logger,
	cfg config.SchedulingConfig,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:         repo,
		customerRepo: customerRepo,
		deviceRepo:   deviceRepo,
		serviceRepo:  serviceRepo,
		slotRepo:     slotRepo,
		conflict:     conflict,
		notifier:     notifier,
		logger:       logger,
		cfg:          cfg,
	}
}

func (s *AppointmentServiceImpl) Create(ctx context.Context, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	date, err := time.Parse("2006-01-02", dto.ScheduledDate)
	if err != nil {
		return nil, domain.NewValidationError("scheduled_date", "expected YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", dto.ScheduledTime); err != nil {
		return nil, domain.NewValidationError("scheduled_time", "expected HH:MM")
	}

	duration := dto.DurationMinutes
	if duration <= 0 {
		duration = s.cfg.DefaultAppointmentDuration
	}
	if duration <= 0 {
		duration = DefaultAppointmentDuration
	}

	// Fast pre-check before touching collaborators; the repository re-runs
	// it inside the insert transaction to close the race window.
	conflicts, err := s.conflict.Check(ctx, date, dto.ScheduledTime, duration, nil)
	if err != nil {
		s.logger.Error("conflict check failed", zap.Error(err))
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &domain.ConflictError{AppointmentNumber: conflicts[0].AppointmentNumber}
	}

	customer, err := s.customerRepo.FindOrCreate(ctx, dto.CustomerName, dto.CustomerEmail, dto.CustomerPhone)
	if err != nil {
		s.logger.Error("customer resolution failed", zap.String("email", dto.CustomerEmail), zap.Error(err))
		return nil, &domain.DependencyError{Op: "customer resolution", Err: err}
	}

	appointment := domain.Appointment{
		AppointmentNumber: NewAppointmentNumber(time.Now()),
		CustomerID:        &customer.ID,
		ScheduledDate:     date,
		ScheduledTime:     dto.ScheduledTime,
		DurationMinutes:   duration,
		ServiceIDs:        dto.ServiceIDs,
		EstimatedCost:     dto.EstimatedCost,
		Status:            domain.AppointmentStatusScheduled,
		Issues:            dto.Issues,
		Description:       dto.Description,
		Urgency:           dto.Urgency,
		Source:            dto.Source,
		Notes:             dto.Notes,
		SlotID:            dto.SlotID,
	}
	if appointment.Urgency == "" {
		appointment.Urgency = domain.UrgencyNormal
	}
	if appointment.Source == "" {
		appointment.Source = domain.SourceOnline
	}

	if dto.Device != nil {
		device, err := s.deviceRepo.LinkOrCreate(ctx, customer.ID, *dto.Device)
		if err != nil {
			s.logger.Error("device link failed", zap.Int64("customer_id", customer.ID), zap.Error(err))
			return nil, &domain.DependencyError{Op: "device registration", Err: err}
		}
		appointment.CustomerDeviceID = &device.ID
		appointment.DeviceID = device.DeviceID
	}

	id, err := s.repo.Create(ctx, &appointment)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment created",
		zap.Int64("id", id),
		zap.String("number", created.AppointmentNumber),
		zap.String("date", dto.ScheduledDate),
		zap.String("time", dto.ScheduledTime),
	)

	s.notifyAsync(created, NotificationAppointmentConfirmation, "")

	return created, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentServiceImpl) GetByNumber(ctx context.Context, number string) (*domain.Appointment, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list appointments", zap.Error(err))
		return nil, 0, err
	}

	count, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count appointments", zap.Error(err))
		return appointments, len(appointments), nil
	}

	return appointments, count, nil
}

func (s *AppointmentServiceImpl) Confirm(ctx context.Context, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if appointment.Status != domain.AppointmentStatusScheduled {
		return &domain.InvalidTransitionError{From: appointment.Status, To: domain.AppointmentStatusConfirmed}
	}

	if err := s.repo.Confirm(ctx, id, time.Now()); err != nil {
		return err
	}

	s.notifyAsync(appointment, NotificationAppointmentConfirmation, "")

	return nil
}

func (s *AppointmentServiceImpl) MarkArrived(ctx context.Context, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch appointment.Status {
	case domain.AppointmentStatusScheduled, domain.AppointmentStatusConfirmed:
	default:
		return &domain.InvalidTransitionError{From: appointment.Status, To: domain.AppointmentStatusArrived}
	}

	return s.repo.MarkArrived(ctx, id, time.Now())
}

func (s *AppointmentServiceImpl) MarkNoShow(ctx context.Context, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if appointment.Status.Terminal() {
		return &domain.InvalidTransitionError{From: appointment.Status, To: domain.AppointmentStatusNoShow}
	}

	return s.repo.MarkNoShow(ctx, id)
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64, reason string) error {
	if reason == "" {
		return domain.NewValidationError("reason", "cancellation reason is required")
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch appointment.Status {
	case domain.AppointmentStatusScheduled, domain.AppointmentStatusConfirmed:
	default:
		return &domain.InvalidTransitionError{From: appointment.Status, To: domain.AppointmentStatusCancelled}
	}

	// Repository releases the reserved slot in the same transaction.
	if err := s.repo.Cancel(ctx, id, reason); err != nil {
		return err
	}

	s.logger.Info("appointment cancelled", zap.Int64("id", id), zap.String("reason", reason))

	s.notifyAsync(appointment, NotificationAppointmentCancellation, reason)

	return nil
}

func (s *AppointmentServiceImpl) Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch appointment.Status {
	case domain.AppointmentStatusScheduled, domain.AppointmentStatusConfirmed:
	default:
		return &domain.InvalidTransitionError{From: appointment.Status, To: appointment.Status}
	}

	date, err := time.Parse("2006-01-02", dto.ScheduledDate)
	if err != nil {
		return domain.NewValidationError("scheduled_date", "expected YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", dto.ScheduledTime); err != nil {
		return domain.NewValidationError("scheduled_time", "expected HH:MM")
	}

	duration := appointment.DurationMinutes
	if dto.DurationMinutes != nil {
		duration = *dto.DurationMinutes
	}
	if duration <= 0 {
		duration = DefaultAppointmentDuration
	}

	conflicts, err := s.conflict.Check(ctx, date, dto.ScheduledTime, duration, &id)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{AppointmentNumber: conflicts[0].AppointmentNumber}
	}

	return s.repo.Reschedule(ctx, id, date, dto.ScheduledTime, duration)
}

func (s *AppointmentServiceImpl) ConvertToTicket(ctx context.Context, id int64, overrides domain.ConvertAppointmentDTO) (int64, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if !ConvertibleStatuses[appointment.Status] {
		return 0, &domain.InvalidTransitionError{From: appointment.Status, To: domain.AppointmentStatusConverted}
	}

	var device *domain.CustomerDevice
	if appointment.CustomerDeviceID != nil {
		device, err = s.deviceRepo.GetByID(ctx, *appointment.CustomerDeviceID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return 0, &domain.DependencyError{Op: "device lookup", Err: err}
		}
	}

	services, err := s.serviceRepo.ListByIDs(ctx, appointment.ServiceIDs)
	if err != nil {
		return 0, &domain.DependencyError{Op: "service lookup", Err: err}
	}

	ticket, items := BuildTicketFromAppointment(appointment, device, services, overrides)

	ticketID, err := s.repo.Convert(ctx, id, ticket, items)
	if err != nil {
		s.logger.Error("conversion failed", zap.Int64("appointment_id", id), zap.Error(err))
		return 0, err
	}

	s.logger.Info("appointment converted",
		zap.Int64("appointment_id", id),
		zap.Int64("ticket_id", ticketID),
		zap.String("ticket_number", ticket.TicketNumber),
	)

	return ticketID, nil
}

// notifyAsync fires the notification outside the request transaction; a
// delivery failure is logged and swallowed.
func (s *AppointmentServiceImpl) notifyAsync(appointment *domain.Appointment, kind NotificationKind, reason string) {
	if s.notifier == nil || appointment.CustomerID == nil {
		return
	}

	id := appointment.ID
	customerID := *appointment.CustomerID
	payload := NotificationPayload{
		AppointmentNumber: appointment.AppointmentNumber,
		ScheduledDate:     appointment.ScheduledDate.Format("2006-01-02"),
		ScheduledTime:     appointment.ScheduledTime,
		Reason:            reason,
	}

	timeout := s.cfg.NotifyTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		customer, err := s.customerRepo.GetByID(ctx, customerID)
		if err != nil {
			s.logger.Warn("notification skipped, customer lookup failed",
				zap.Int64("customer_id", customerID), zap.Error(err))
			return
		}
		payload.CustomerName = customer.Name

		if err := s.notifier.Send(ctx, kind, customer.Email, payload); err != nil {
			s.logger.Warn("notification send failed",
				zap.String("kind", string(kind)),
				zap.Int64("appointment_id", id),
				zap.Error(err))
			return
		}

		if kind == NotificationAppointmentConfirmation {
			if err := s.repo.SetConfirmationSent(ctx, id, time.Now()); err != nil {
				s.logger.Warn("failed to record confirmation send", zap.Int64("appointment_id", id), zap.Error(err))
			}
		}
	}()
}
