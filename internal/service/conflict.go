package service

import (
	"context"
	"time"

	"fixpoint/internal/domain"
	"fixpoint/internal/repository"
)

// DefaultAppointmentDuration is assumed when an appointment was stored
// without an explicit duration.
const DefaultAppointmentDuration = 30

type ConflictServiceImpl struct {
	repo repository.AppointmentRepository
}

func NewConflictService(repo repository.AppointmentRepository) *ConflictServiceImpl {
	return &ConflictServiceImpl{repo: repo}
}

// Check compares the candidate against every scheduled or confirmed
// appointment on the date using half-open intervals in minutes since
// midnight. Intervals that merely touch (one ends exactly when the other
// begins) do not conflict.
func (s *ConflictServiceImpl) Check(ctx context.Context, date time.Time, startTime string, durationMinutes int, excludeID *int64) ([]domain.Appointment, error) {
	start, err := parseMinutes(startTime)
	if err != nil {
		return nil, domain.NewValidationError("start_time", "expected HH:MM")
	}

	if durationMinutes <= 0 {
		durationMinutes = DefaultAppointmentDuration
	}
	end := start + durationMinutes

	existing, err := s.repo.ListActiveByDate(ctx, date, excludeID)
	if err != nil {
		return nil, err
	}

	var conflicts []domain.Appointment
	for _, appt := range existing {
		aptStart := appt.StartMinutes()
		aptDuration := appt.DurationMinutes
		if aptDuration <= 0 {
			aptDuration = DefaultAppointmentDuration
		}
		aptEnd := aptStart + aptDuration

		if start < aptEnd && aptStart < end {
			conflicts = append(conflicts, appt)
		}
	}

	return conflicts, nil
}

func parseMinutes(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
