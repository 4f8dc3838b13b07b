package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fixpoint/config"
	"fixpoint/internal/domain"
	"fixpoint/internal/repository"
)

type SlotServiceImpl struct {
	repo         repository.SlotRepository
	availability AvailabilityService
	logger       *zap.Logger
	cfg          config.SchedulingConfig
}

func NewSlotService(
	repo repository.SlotRepository,
	availability AvailabilityService,
	logger *zap.Logger,
	cfg config.SchedulingConfig,
) *SlotServiceImpl {
	return &SlotServiceImpl{
		repo:         repo,
		availability: availability,
		logger:       logger,
		cfg:          cfg,
	}
}

func (s *SlotServiceImpl) GenerateForDate(ctx context.Context, date time.Time, durationMinutes int, staffID *int64, maxCapacity int) (int, error) {
	day, err := s.availability.ResolveDay(ctx, date)
	if err != nil {
		return 0, err
	}

	if !day.IsOpen {
		return 0, nil
	}

	slots := buildSlots(*day, s.normalizeDuration(durationMinutes), staffID, s.normalizeCapacity(maxCapacity))
	if len(slots) == 0 {
		return 0, nil
	}

	created, err := s.repo.BulkUpsert(ctx, slots)
	if err != nil {
		s.logger.Error("slot generation failed", zap.Time("date", date), zap.Error(err))
		return 0, fmt.Errorf("failed to generate slots: %w", err)
	}

	s.logger.Info("slots generated",
		zap.String("date", day.Date.Format("2006-01-02")),
		zap.Int("created", created),
		zap.Int("requested", len(slots)),
	)

	return created, nil
}

func (s *SlotServiceImpl) GenerateForRange(ctx context.Context, start, end time.Time, durationMinutes int, staffID *int64, maxCapacity int) (int, error) {
	days, err := s.availability.ResolveRange(ctx, start, end)
	if err != nil {
		return 0, err
	}

	duration := s.normalizeDuration(durationMinutes)
	capacity := s.normalizeCapacity(maxCapacity)

	var all []domain.Slot
	for _, day := range days {
		if !day.IsOpen {
			continue
		}
		all = append(all, buildSlots(day, duration, staffID, capacity)...)
	}

	if len(all) == 0 {
		return 0, nil
	}

	created, err := s.repo.BulkUpsert(ctx, all)
	if err != nil {
		s.logger.Error("range slot generation failed", zap.Error(err))
		return 0, fmt.Errorf("failed to generate slots: %w", err)
	}

	return created, nil
}

func (s *SlotServiceImpl) List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error) {
	return s.repo.List(ctx, filter)
}

func (s *SlotServiceImpl) Reserve(ctx context.Context, slotID, appointmentID int64) error {
	reserved, err := s.repo.Reserve(ctx, slotID, appointmentID)
	if err != nil {
		return err
	}
	if !reserved {
		return &domain.ConflictError{Message: "slot is no longer available"}
	}

	return nil
}

func (s *SlotServiceImpl) Release(ctx context.Context, slotID int64) error {
	return s.repo.Release(ctx, slotID)
}

func (s *SlotServiceImpl) SetAvailability(ctx context.Context, slotID int64, available bool) error {
	return s.repo.SetAvailability(ctx, slotID, available)
}

func (s *SlotServiceImpl) normalizeDuration(minutes int) int {
	if minutes > 0 {
		return minutes
	}
	if s.cfg.SlotDurationMinutes > 0 {
		return s.cfg.SlotDurationMinutes
	}
	return 30
}

func (s *SlotServiceImpl) normalizeCapacity(capacity int) int {
	if capacity > 0 {
		return capacity
	}
	if s.cfg.SlotMaxCapacity > 0 {
		return s.cfg.SlotMaxCapacity
	}
	return 1
}

// buildSlots walks the open window in fixed steps, skipping any slot that
// would overlap the break. A slot must end by closing time to be produced.
func buildSlots(day domain.DayAvailability, durationMinutes int, staffID *int64, maxCapacity int) []domain.Slot {
	open, err := parseMinutes(day.OpenTime)
	if err != nil {
		return nil
	}
	closeAt, err := parseMinutes(day.CloseTime)
	if err != nil || closeAt <= open {
		return nil
	}

	breakStart, breakEnd := -1, -1
	if day.BreakStart != nil && day.BreakEnd != nil {
		if bs, err := parseMinutes(*day.BreakStart); err == nil {
			if be, err := parseMinutes(*day.BreakEnd); err == nil && be > bs {
				breakStart, breakEnd = bs, be
			}
		}
	}

	var slots []domain.Slot
	for start := open; start+durationMinutes <= closeAt; start += durationMinutes {
		end := start + durationMinutes

		if breakStart >= 0 && start < breakEnd && breakStart < end {
			continue
		}

		slots = append(slots, domain.Slot{
			Date:            day.Date,
			StartTime:       formatMinutes(start),
			EndTime:         formatMinutes(end),
			DurationMinutes: durationMinutes,
			StaffID:         staffID,
			IsAvailable:     true,
			MaxCapacity:     maxCapacity,
		})
	}

	return slots
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
