package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fixpoint/internal/cache"
	"fixpoint/internal/domain"
	"fixpoint/internal/repository"
	"fixpoint/pkg/validator"
)

type CalendarServiceImpl struct {
	repo   repository.CalendarRepository
	cache  *cache.CalendarCache
	logger *zap.Logger
}

func NewCalendarService(repo repository.CalendarRepository, calendarCache *cache.CalendarCache, logger *zap.Logger) *CalendarServiceImpl {
	return &CalendarServiceImpl{
		repo:   repo,
		cache:  calendarCache,
		logger: logger,
	}
}

func (s *CalendarServiceImpl) UpsertBusinessHours(ctx context.Context, dto domain.UpsertBusinessHoursDTO) error {
	if dto.DayOfWeek < 0 || dto.DayOfWeek > 6 {
		return domain.NewValidationError("day_of_week", "must be between 0 and 6")
	}

	open, err := validator.ParseTimeOfDay(dto.OpenTime)
	if err != nil {
		return domain.NewValidationError("open_time", "expected HH:MM")
	}
	closeAt, err := validator.ParseTimeOfDay(dto.CloseTime)
	if err != nil {
		return domain.NewValidationError("close_time", "expected HH:MM")
	}
	if closeAt <= open {
		return domain.NewValidationError("close_time", "must be after open_time")
	}

	if (dto.BreakStart == nil) != (dto.BreakEnd == nil) {
		return domain.NewValidationError("break_start", "break requires both start and end")
	}
	if dto.BreakStart != nil {
		bs, err := validator.ParseTimeOfDay(*dto.BreakStart)
		if err != nil {
			return domain.NewValidationError("break_start", "expected HH:MM")
		}
		be, err := validator.ParseTimeOfDay(*dto.BreakEnd)
		if err != nil {
			return domain.NewValidationError("break_end", "expected HH:MM")
		}
		if be <= bs || bs <= open || be >= closeAt {
			return domain.NewValidationError("break_start", "break must lie strictly within opening hours")
		}
	}

	err = s.repo.UpsertBusinessHours(ctx, domain.BusinessHours{
		DayOfWeek:  dto.DayOfWeek,
		IsActive:   dto.IsActive,
		OpenTime:   dto.OpenTime,
		CloseTime:  dto.CloseTime,
		BreakStart: dto.BreakStart,
		BreakEnd:   dto.BreakEnd,
	})
	if err != nil {
		s.logger.Error("failed to upsert business hours", zap.Int("day_of_week", dto.DayOfWeek), zap.Error(err))
		return fmt.Errorf("failed to save business hours: %w", err)
	}

	s.cache.Invalidate(ctx)

	return nil
}

func (s *CalendarServiceImpl) ListBusinessHours(ctx context.Context) ([]domain.BusinessHours, error) {
	hours, err := s.repo.ListBusinessHours(ctx)
	if err != nil {
		s.logger.Error("failed to list business hours", zap.Error(err))
		return nil, fmt.Errorf("failed to list business hours: %w", err)
	}
	return hours, nil
}

func (s *CalendarServiceImpl) UpsertSpecialDate(ctx context.Context, dto domain.UpsertSpecialDateDTO) error {
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return domain.NewValidationError("date", "expected YYYY-MM-DD")
	}

	if dto.Type == domain.SpecialDateSpecialHours {
		if dto.OpenTime == nil || dto.CloseTime == nil {
			return domain.NewValidationError("open_time", "special hours require open and close times")
		}
		open, err := validator.ParseTimeOfDay(*dto.OpenTime)
		if err != nil {
			return domain.NewValidationError("open_time", "expected HH:MM")
		}
		closeAt, err := validator.ParseTimeOfDay(*dto.CloseTime)
		if err != nil {
			return domain.NewValidationError("close_time", "expected HH:MM")
		}
		if closeAt <= open {
			return domain.NewValidationError("close_time", "must be after open_time")
		}
	}

	special := domain.SpecialDate{
		Date:   date,
		Type:   dto.Type,
		Reason: dto.Reason,
	}
	if dto.Type == domain.SpecialDateSpecialHours {
		special.OpenTime = dto.OpenTime
		special.CloseTime = dto.CloseTime
	}

	if err := s.repo.UpsertSpecialDate(ctx, special); err != nil {
		s.logger.Error("failed to upsert special date", zap.String("date", dto.Date), zap.Error(err))
		return fmt.Errorf("failed to save special date: %w", err)
	}

	return nil
}

func (s *CalendarServiceImpl) ListSpecialDates(ctx context.Context, start, end time.Time) ([]domain.SpecialDate, error) {
	specials, err := s.repo.ListSpecialDates(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to list special dates", zap.Error(err))
		return nil, fmt.Errorf("failed to list special dates: %w", err)
	}
	return specials, nil
}

func (s *CalendarServiceImpl) DeleteSpecialDate(ctx context.Context, date time.Time) error {
	if err := s.repo.DeleteSpecialDate(ctx, date); err != nil {
		return err
	}
	return nil
}
