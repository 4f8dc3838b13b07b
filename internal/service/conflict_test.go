package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint/internal/domain"
)

func activeAppointment(id int64, startTime string, duration int) domain.Appointment {
	return domain.Appointment{
		ID:                id,
		AppointmentNumber: "APT-20240603-existing",
		ScheduledDate:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		ScheduledTime:     startTime,
		DurationMinutes:   duration,
		Status:            domain.AppointmentStatusScheduled,
	}
}

func TestConflictCheck(t *testing.T) {
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		existing  []domain.Appointment
		startTime string
		duration  int
		conflicts int
	}{
		{
			name:      "identical interval conflicts",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 60)},
			startTime: "10:00",
			duration:  60,
			conflicts: 1,
		},
		{
			name:      "candidate starts inside existing",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 60)},
			startTime: "10:30",
			duration:  30,
			conflicts: 1,
		},
		{
			name:      "quarter hour offset against a thirty minute booking",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 30)},
			startTime: "10:15",
			duration:  30,
			conflicts: 1,
		},
		{
			name:      "candidate overlaps the start",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 60)},
			startTime: "09:30",
			duration:  60,
			conflicts: 1,
		},
		{
			name:      "candidate ending exactly at existing start is free",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 60)},
			startTime: "09:00",
			duration:  60,
			conflicts: 0,
		},
		{
			name:      "candidate starting exactly at existing end is free",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 60)},
			startTime: "11:00",
			duration:  30,
			conflicts: 0,
		},
		{
			name:      "existing without duration defaults to thirty minutes",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 0)},
			startTime: "10:15",
			duration:  30,
			conflicts: 1,
		},
		{
			name:      "default duration does not stretch past thirty minutes",
			existing:  []domain.Appointment{activeAppointment(1, "10:00", 0)},
			startTime: "10:30",
			duration:  30,
			conflicts: 0,
		},
		{
			name: "multiple overlaps are all reported",
			existing: []domain.Appointment{
				activeAppointment(1, "10:00", 60),
				activeAppointment(2, "10:30", 60),
			},
			startTime: "10:15",
			duration:  90,
			conflicts: 2,
		},
		{
			name:      "empty schedule",
			existing:  nil,
			startTime: "10:00",
			duration:  30,
			conflicts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockAppointmentRepo()
			repo.active = tt.existing

			svc := NewConflictService(repo)
			conflicts, err := svc.Check(context.Background(), date, tt.startTime, tt.duration, nil)
			require.NoError(t, err)
			assert.Len(t, conflicts, tt.conflicts)
		})
	}
}

func TestConflictCheckZeroCandidateDuration(t *testing.T) {
	repo := newMockAppointmentRepo()
	repo.active = []domain.Appointment{activeAppointment(1, "10:15", 30)}

	svc := NewConflictService(repo)

	// A zero duration falls back to thirty minutes, reaching into 10:15.
	conflicts, err := svc.Check(context.Background(), time.Now(), "10:00", 0, nil)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}

func TestConflictCheckExcludesAppointment(t *testing.T) {
	repo := newMockAppointmentRepo()
	repo.active = []domain.Appointment{activeAppointment(5, "10:00", 60)}

	svc := NewConflictService(repo)

	exclude := int64(5)
	conflicts, err := svc.Check(context.Background(), time.Now(), "10:00", 60, &exclude)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	require.NotNil(t, repo.listActiveExclude)
	assert.Equal(t, int64(5), *repo.listActiveExclude)
}

func TestConflictCheckRejectsMalformedTime(t *testing.T) {
	svc := NewConflictService(newMockAppointmentRepo())

	_, err := svc.Check(context.Background(), time.Now(), "25:99", 30, nil)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "start_time", validationErr.Field)
}
