package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckWeek_EmptyWeek(t *testing.T) {
	validator := NewWeeklyHoursValidator(NewShiftIndex(nil))

	check := validator.CheckWeek("emp-1", date(2025, 3, 12), 40, 0)
	assert.True(t, check.Valid)
	assert.Zero(t, check.CurrentHours)
	assert.Equal(t, 40.0, check.MaxHours)
}

func TestCheckWeek_SumsWithBreaksAndMidnight(t *testing.T) {
	index := NewShiftIndex([]Shift{
		// 8.5h minus 30min break = 8h
		shiftAt("s1", "emp-1", date(2025, 3, 10), "08:00", "16:30", 30),
		// Crosses midnight: 23:00-07:00 = 8h
		shiftAt("s2", "emp-1", date(2025, 3, 12), "23:00", "07:00", 0),
	})
	validator := NewWeeklyHoursValidator(index)

	check := validator.CheckWeek("emp-1", date(2025, 3, 12), 40, 0)
	assert.True(t, check.Valid)
	assert.InDelta(t, 16.0, check.CurrentHours, 0.001)
}

func TestCheckWeek_OnlyCountsMondayThroughSunday(t *testing.T) {
	index := NewShiftIndex([]Shift{
		// Sunday of the previous week
		shiftAt("before", "emp-1", date(2025, 3, 9), "08:00", "16:00", 0),
		// Monday and Sunday of the reference week, both inclusive
		shiftAt("monday", "emp-1", date(2025, 3, 10), "08:00", "16:00", 0),
		shiftAt("sunday", "emp-1", date(2025, 3, 16), "08:00", "16:00", 0),
		// Monday of the next week
		shiftAt("after", "emp-1", date(2025, 3, 17), "08:00", "16:00", 0),
	})
	validator := NewWeeklyHoursValidator(index)

	check := validator.CheckWeek("emp-1", date(2025, 3, 12), 40, 0)
	assert.InDelta(t, 16.0, check.CurrentHours, 0.001)
}

func TestCheckWeek_ProspectiveHoursExceedCap(t *testing.T) {
	// 36h already scheduled, 8h prospective shift, 40h cap: invalid, with
	// the current total reported before the addition
	index := NewShiftIndex([]Shift{
		shiftAt("s1", "emp-1", date(2025, 3, 10), "08:00", "17:00", 0),
		shiftAt("s2", "emp-1", date(2025, 3, 11), "08:00", "17:00", 0),
		shiftAt("s3", "emp-1", date(2025, 3, 12), "08:00", "17:00", 0),
		shiftAt("s4", "emp-1", date(2025, 3, 13), "08:00", "17:00", 0),
	})
	validator := NewWeeklyHoursValidator(index)

	check := validator.CheckWeek("emp-1", date(2025, 3, 14), 40, 8)
	assert.False(t, check.Valid)
	assert.InDelta(t, 36.0, check.CurrentHours, 0.001)
	assert.Equal(t, 40.0, check.MaxHours)
}

func TestCheckWeek_AdditionalHoursExactlyAtCap(t *testing.T) {
	index := NewShiftIndex([]Shift{
		shiftAt("s1", "emp-1", date(2025, 3, 10), "08:00", "16:00", 0),
	})
	validator := NewWeeklyHoursValidator(index)

	check := validator.CheckWeek("emp-1", date(2025, 3, 12), 16, 8)
	assert.True(t, check.Valid, "reaching the cap exactly is allowed")
}

func TestCheckWeek_ReferenceDateAnywhereInWeek(t *testing.T) {
	index := NewShiftIndex([]Shift{
		shiftAt("s1", "emp-1", date(2025, 3, 10), "08:00", "16:00", 0),
	})
	validator := NewWeeklyHoursValidator(index)

	for _, day := range []time.Time{date(2025, 3, 10), date(2025, 3, 13), date(2025, 3, 16)} {
		check := validator.CheckWeek("emp-1", day, 40, 0)
		assert.InDelta(t, 8.0, check.CurrentHours, 0.001, "week total for reference %s", day)
	}
}
