package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fixpoint/internal/cache"
	"fixpoint/internal/domain"
	"fixpoint/internal/repository"
)

type AvailabilityServiceImpl struct {
	calendarRepo repository.CalendarRepository
	slotRepo     repository.SlotRepository
	cache        *cache.CalendarCache
	logger       *zap.Logger
}

func NewAvailabilityService(
	calendarRepo repository.CalendarRepository,
	slotRepo repository.SlotRepository,
	calendarCache *cache.CalendarCache,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		calendarRepo: calendarRepo,
		slotRepo:     slotRepo,
		cache:        calendarCache,
		logger:       logger,
	}
}

func (s *AvailabilityServiceImpl) ResolveDay(ctx context.Context, date time.Time) (*domain.DayAvailability, error) {
	date = truncateToDate(date)

	hoursByDay, err := s.loadBusinessHours(ctx)
	if err != nil {
		return nil, err
	}

	special, err := s.calendarRepo.GetSpecialDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve special date: %w", err)
	}

	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{
		StartDate:     &date,
		EndDate:       &date,
		OnlyAvailable: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	day := buildDayAvailability(date, hoursByDay, special, slots)
	return &day, nil
}

// ResolveRange issues exactly three batched reads (business hours, special
// dates, slots) and assembles the per-day results in memory, so the query
// count stays constant regardless of the range length.
func (s *AvailabilityServiceImpl) ResolveRange(ctx context.Context, start, end time.Time) (map[string]domain.DayAvailability, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)

	if end.Before(start) {
		return nil, domain.NewValidationError("end_date", "must not precede start_date")
	}

	hoursByDay, err := s.loadBusinessHours(ctx)
	if err != nil {
		return nil, err
	}

	specials, err := s.calendarRepo.ListSpecialDates(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load special dates: %w", err)
	}

	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{
		StartDate:     &start,
		EndDate:       &end,
		OnlyAvailable: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	specialByDate := make(map[string]domain.SpecialDate, len(specials))
	for _, sp := range specials {
		specialByDate[sp.Date.Format("2006-01-02")] = sp
	}

	slotsByDate := make(map[string][]domain.Slot)
	for _, slot := range slots {
		key := slot.Date.Format("2006-01-02")
		slotsByDate[key] = append(slotsByDate[key], slot)
	}

	result := make(map[string]domain.DayAvailability)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")

		var special *domain.SpecialDate
		if sp, ok := specialByDate[key]; ok {
			special = &sp
		}

		result[key] = buildDayAvailability(d, hoursByDay, special, slotsByDate[key])
	}

	return result, nil
}

func (s *AvailabilityServiceImpl) loadBusinessHours(ctx context.Context) (map[int]domain.BusinessHours, error) {
	if cached, ok := s.cache.GetBusinessHours(ctx); ok {
		return indexBusinessHours(cached), nil
	}

	hours, err := s.calendarRepo.ListBusinessHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business hours: %w", err)
	}

	s.cache.SetBusinessHours(ctx, hours)

	return indexBusinessHours(hours), nil
}

func indexBusinessHours(hours []domain.BusinessHours) map[int]domain.BusinessHours {
	byDay := make(map[int]domain.BusinessHours, len(hours))
	for _, h := range hours {
		byDay[h.DayOfWeek] = h
	}
	return byDay
}

// buildDayAvailability merges the calendar rules and the slots for one date.
// Precedence: closure > special hours > weekday rule > closed.
func buildDayAvailability(date time.Time, hoursByDay map[int]domain.BusinessHours, special *domain.SpecialDate, slots []domain.Slot) domain.DayAvailability {
	day := domain.DayAvailability{
		Date:      date,
		DayOfWeek: int(date.Weekday()),
		Slots:     []domain.Slot{},
	}

	if special != nil && special.Type == domain.SpecialDateClosure {
		return day
	}

	weekday, hasWeekday := hoursByDay[day.DayOfWeek]

	switch {
	case special != nil && special.Type == domain.SpecialDateSpecialHours && special.OpenTime != nil && special.CloseTime != nil:
		day.IsOpen = true
		day.OpenTime = *special.OpenTime
		day.CloseTime = *special.CloseTime
	case hasWeekday && weekday.IsActive:
		day.IsOpen = true
		day.OpenTime = weekday.OpenTime
		day.CloseTime = weekday.CloseTime
		day.BreakStart = weekday.BreakStart
		day.BreakEnd = weekday.BreakEnd
	default:
		return day
	}

	if len(slots) > 0 {
		day.Slots = slots
	}

	return day
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
