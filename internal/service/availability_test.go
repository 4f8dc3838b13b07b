package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixpoint/internal/domain"
)

func weekdayHours(day int, open, close string) domain.BusinessHours {
	return domain.BusinessHours{
		DayOfWeek: day,
		IsActive:  true,
		OpenTime:  open,
		CloseTime: close,
	}
}

// 2024-06-03 is a Monday.
var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func newAvailability(calendar *mockCalendarRepo, slots *mockSlotRepo) *AvailabilityServiceImpl {
	return NewAvailabilityService(calendar, slots, nil, zap.NewNop())
}

func TestResolveDayWeekdayRule(t *testing.T) {
	calendar := newMockCalendarRepo()
	calendar.hours = []domain.BusinessHours{weekdayHours(1, "09:00", "17:00")}

	svc := newAvailability(calendar, newMockSlotRepo())

	day, err := svc.ResolveDay(context.Background(), monday)
	require.NoError(t, err)

	assert.True(t, day.IsOpen)
	assert.Equal(t, "09:00", day.OpenTime)
	assert.Equal(t, "17:00", day.CloseTime)
	assert.Equal(t, 1, day.DayOfWeek)

	// Open with no generated slots is still open; the slot list is just empty.
	assert.NotNil(t, day.Slots)
	assert.Empty(t, day.Slots)
}

func TestResolveDayClosureOverridesWeekdayRule(t *testing.T) {
	calendar := newMockCalendarRepo()
	calendar.hours = []domain.BusinessHours{weekdayHours(1, "09:00", "17:00")}
	calendar.specials["2024-06-03"] = domain.SpecialDate{
		Date: monday,
		Type: domain.SpecialDateClosure,
	}

	slots := newMockSlotRepo()
	slots.slots = []domain.Slot{{ID: 1, Date: monday, StartTime: "09:00", EndTime: "09:30", IsAvailable: true}}

	svc := newAvailability(calendar, slots)

	day, err := svc.ResolveDay(context.Background(), monday)
	require.NoError(t, err)

	assert.False(t, day.IsOpen)
	assert.Empty(t, day.Slots, "a closed day exposes no slots even if some were generated")
}

func TestResolveDaySpecialHoursOverrideWeekdayRule(t *testing.T) {
	calendar := newMockCalendarRepo()
	calendar.hours = []domain.BusinessHours{weekdayHours(1, "09:00", "17:00")}
	calendar.specials["2024-06-03"] = domain.SpecialDate{
		Date:      monday,
		Type:      domain.SpecialDateSpecialHours,
		OpenTime:  PointerTo("10:00"),
		CloseTime: PointerTo("14:00"),
	}

	svc := newAvailability(calendar, newMockSlotRepo())

	day, err := svc.ResolveDay(context.Background(), monday)
	require.NoError(t, err)

	assert.True(t, day.IsOpen)
	assert.Equal(t, "10:00", day.OpenTime)
	assert.Equal(t, "14:00", day.CloseTime)
}

func TestResolveDayNoRuleMeansClosed(t *testing.T) {
	svc := newAvailability(newMockCalendarRepo(), newMockSlotRepo())

	day, err := svc.ResolveDay(context.Background(), monday)
	require.NoError(t, err)

	assert.False(t, day.IsOpen)
}

func TestResolveDayInactiveRuleMeansClosed(t *testing.T) {
	calendar := newMockCalendarRepo()
	calendar.hours = []domain.BusinessHours{{
		DayOfWeek: 1,
		IsActive:  false,
		OpenTime:  "09:00",
		CloseTime: "17:00",
	}}

	svc := newAvailability(calendar, newMockSlotRepo())

	day, err := svc.ResolveDay(context.Background(), monday)
	require.NoError(t, err)

	assert.False(t, day.IsOpen)
}

func TestResolveDayAttachesAvailableSlots(t *testing.T) {
	calendar := newMockCalendarRepo()
	calendar.hours = []domain.BusinessHours{weekdayHours(1, "09:00", "17:00")}

	slots := newMockSlotRepo()
	slots.slots = []domain.Slot{
		{ID: 1, Date: monday, StartTime: "09:00", EndTime: "09:30", IsAvailable: true},
		{ID: 2, Date: monday, StartTime: "09:30", EndTime: "10:00", IsAvailable: false},
	}

	svc := newAvailability(calendar, slots)

	day, err := svc.ResolveDay(context.Background(), monday)
	require.NoError(t, err)

	require.Len(t, day.Slots, 1)
	assert.Equal(t, int64(1), day.Slots[0].ID)
}

func TestResolveRangeBatchesReads(t *testing.T) {
	calendar := newMockCalendarRepo()
	calendar.hours = []domain.BusinessHours{
		weekdayHours(1, "09:00", "17:00"),
		weekdayHours(2, "09:00", "17:00"),
		weekdayHours(3, "09:00", "17:00"),
	}
	calendar.specials["2024-06-04"] = domain.SpecialDate{
		Date: monday.AddDate(0, 0, 1),
		Type: domain.SpecialDateClosure,
	}

	slots := newMockSlotRepo()

	svc := newAvailability(calendar, slots)

	result, err := svc.ResolveRange(context.Background(), monday, monday.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.True(t, result["2024-06-03"].IsOpen)
	assert.False(t, result["2024-06-04"].IsOpen, "closure applies inside a range")
	assert.True(t, result["2024-06-05"].IsOpen)

	// The query count must not grow with the range length.
	assert.Equal(t, 1, calendar.listHoursCalls)
	assert.Equal(t, 1, calendar.listSpecialsCalls)
	assert.Equal(t, 0, calendar.getSpecialCalls)
	assert.Equal(t, 1, slots.listCalls)
}

func TestResolveRangeMatchesResolveDay(t *testing.T) {
	calendar := newMockCalendarRepo()
	calendar.hours = []domain.BusinessHours{weekdayHours(1, "09:00", "17:00")}
	calendar.specials["2024-06-04"] = domain.SpecialDate{
		Date:      monday.AddDate(0, 0, 1),
		Type:      domain.SpecialDateSpecialHours,
		OpenTime:  PointerTo("11:00"),
		CloseTime: PointerTo("15:00"),
	}

	svc := newAvailability(calendar, newMockSlotRepo())

	ranged, err := svc.ResolveRange(context.Background(), monday, monday.AddDate(0, 0, 2))
	require.NoError(t, err)

	for offset := 0; offset < 3; offset++ {
		date := monday.AddDate(0, 0, offset)
		single, err := svc.ResolveDay(context.Background(), date)
		require.NoError(t, err)

		got := ranged[date.Format("2006-01-02")]
		assert.Equal(t, single.IsOpen, got.IsOpen, date.Format("2006-01-02"))
		assert.Equal(t, single.OpenTime, got.OpenTime)
		assert.Equal(t, single.CloseTime, got.CloseTime)
	}
}

func TestResolveRangeRejectsInvertedRange(t *testing.T) {
	svc := newAvailability(newMockCalendarRepo(), newMockSlotRepo())

	_, err := svc.ResolveRange(context.Background(), monday, monday.AddDate(0, 0, -1))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
