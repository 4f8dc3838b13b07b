package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixpoint/config"
	"fixpoint/internal/domain"
)

func testSchedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		SlotDurationMinutes:        30,
		DefaultAppointmentDuration: 30,
		SlotMaxCapacity:            1,
	}
}

func openDay(date time.Time, open, close string) domain.DayAvailability {
	return domain.DayAvailability{
		Date:      date,
		DayOfWeek: int(date.Weekday()),
		IsOpen:    true,
		OpenTime:  open,
		CloseTime: close,
		Slots:     []domain.Slot{},
	}
}

func TestGenerateForDateFullDay(t *testing.T) {
	repo := newMockSlotRepo()
	availability := &mockAvailability{days: map[string]domain.DayAvailability{
		"2024-06-03": openDay(monday, "09:00", "17:00"),
	}}

	svc := NewSlotService(repo, availability, zap.NewNop(), testSchedulingConfig())

	created, err := svc.GenerateForDate(context.Background(), monday, 30, nil, 1)
	require.NoError(t, err)

	// Eight open hours at thirty minutes each.
	assert.Equal(t, 16, created)
	require.Len(t, repo.upserts, 1)

	generated := repo.upserts[0]
	require.Len(t, generated, 16)
	assert.Equal(t, "09:00", generated[0].StartTime)
	assert.Equal(t, "09:30", generated[0].EndTime)
	assert.Equal(t, "16:30", generated[15].StartTime)
	assert.Equal(t, "17:00", generated[15].EndTime)

	for _, slot := range generated {
		assert.True(t, slot.IsAvailable)
		assert.Equal(t, 30, slot.DurationMinutes)
		assert.Equal(t, 1, slot.MaxCapacity)
		assert.Equal(t, 0, slot.CurrentCapacity)
	}
}

func TestGenerateForDateSkipsBreak(t *testing.T) {
	day := openDay(monday, "09:00", "17:00")
	day.BreakStart = PointerTo("12:00")
	day.BreakEnd = PointerTo("13:00")

	repo := newMockSlotRepo()
	availability := &mockAvailability{days: map[string]domain.DayAvailability{"2024-06-03": day}}

	svc := NewSlotService(repo, availability, zap.NewNop(), testSchedulingConfig())

	created, err := svc.GenerateForDate(context.Background(), monday, 30, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 14, created)

	for _, slot := range repo.upserts[0] {
		assert.NotEqual(t, "12:00", slot.StartTime)
		assert.NotEqual(t, "12:30", slot.StartTime)
	}
}

func TestGenerateForDateSlotMustEndByClose(t *testing.T) {
	repo := newMockSlotRepo()
	availability := &mockAvailability{days: map[string]domain.DayAvailability{
		"2024-06-03": openDay(monday, "09:00", "09:50"),
	}}

	svc := NewSlotService(repo, availability, zap.NewNop(), testSchedulingConfig())

	created, err := svc.GenerateForDate(context.Background(), monday, 30, nil, 1)
	require.NoError(t, err)

	// Only 09:00-09:30 fits; a 09:30 slot would run past closing.
	assert.Equal(t, 1, created)
}

func TestGenerateForDateClosedDay(t *testing.T) {
	repo := newMockSlotRepo()
	availability := &mockAvailability{}

	svc := NewSlotService(repo, availability, zap.NewNop(), testSchedulingConfig())

	created, err := svc.GenerateForDate(context.Background(), monday, 30, nil, 1)
	require.NoError(t, err)

	assert.Zero(t, created)
	assert.Empty(t, repo.upserts, "no writes for a closed day")
}

func TestGenerateForDateDefaultsFromConfig(t *testing.T) {
	repo := newMockSlotRepo()
	availability := &mockAvailability{days: map[string]domain.DayAvailability{
		"2024-06-03": openDay(monday, "09:00", "11:00"),
	}}

	cfg := testSchedulingConfig()
	cfg.SlotDurationMinutes = 60
	cfg.SlotMaxCapacity = 3

	svc := NewSlotService(repo, availability, zap.NewNop(), cfg)

	created, err := svc.GenerateForDate(context.Background(), monday, 0, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, created)
	assert.Equal(t, 60, repo.upserts[0][0].DurationMinutes)
	assert.Equal(t, 3, repo.upserts[0][0].MaxCapacity)
}

func TestGenerateForRangeSkipsClosedDays(t *testing.T) {
	repo := newMockSlotRepo()
	availability := &mockAvailability{days: map[string]domain.DayAvailability{
		"2024-06-03": openDay(monday, "09:00", "10:00"),
		"2024-06-05": openDay(monday.AddDate(0, 0, 2), "09:00", "10:00"),
	}}

	svc := NewSlotService(repo, availability, zap.NewNop(), testSchedulingConfig())

	created, err := svc.GenerateForRange(context.Background(), monday, monday.AddDate(0, 0, 2), 30, nil, 1)
	require.NoError(t, err)

	// Two slots per open day, the closed Tuesday contributes nothing, and
	// the whole range lands in one write.
	assert.Equal(t, 4, created)
	require.Len(t, repo.upserts, 1)
}

func TestGenerateForDateStaffScoped(t *testing.T) {
	repo := newMockSlotRepo()
	availability := &mockAvailability{days: map[string]domain.DayAvailability{
		"2024-06-03": openDay(monday, "09:00", "10:00"),
	}}

	svc := NewSlotService(repo, availability, zap.NewNop(), testSchedulingConfig())

	staffID := int64(42)
	_, err := svc.GenerateForDate(context.Background(), monday, 30, &staffID, 1)
	require.NoError(t, err)

	for _, slot := range repo.upserts[0] {
		require.NotNil(t, slot.StaffID)
		assert.Equal(t, int64(42), *slot.StaffID)
	}
}

func TestReserveUnavailableSlot(t *testing.T) {
	repo := newMockSlotRepo()
	repo.reserveOK = false

	svc := NewSlotService(repo, &mockAvailability{}, zap.NewNop(), testSchedulingConfig())

	err := svc.Reserve(context.Background(), 1, 10)

	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Empty(t, conflictErr.AppointmentNumber)
}

func TestReserveAvailableSlot(t *testing.T) {
	repo := newMockSlotRepo()

	svc := NewSlotService(repo, &mockAvailability{}, zap.NewNop(), testSchedulingConfig())

	require.NoError(t, svc.Reserve(context.Background(), 1, 10))
	assert.Equal(t, []int64{1}, repo.reserved)
}
