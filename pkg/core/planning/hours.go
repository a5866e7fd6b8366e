package planning

import "time"

// WeekCheck is the structured outcome of a weekly-hours check.
// CurrentHours is reported before the prospective addition.
type WeekCheck struct {
	Valid        bool
	CurrentHours float64
	MaxHours     float64
}

// WeeklyHoursValidator sums an employee's scheduled hours within the
// Monday-Sunday week containing a reference date and compares against the
// employee's weekly cap
type WeeklyHoursValidator struct {
	shifts ShiftSource
}

// NewWeeklyHoursValidator creates a validator reading from the given snapshot
func NewWeeklyHoursValidator(shifts ShiftSource) *WeeklyHoursValidator {
	return &WeeklyHoursValidator{shifts: shifts}
}

// CheckWeek sums the hours of all shifts whose start date falls within the
// Monday-Sunday week containing date. additionalHours tests a prospective
// shift before it is committed: the check passes only if the current total
// plus the addition stays within maxHoursPerWeek.
func (v *WeeklyHoursValidator) CheckWeek(employeeID string, date time.Time, maxHoursPerWeek, additionalHours float64) WeekCheck {
	monday, sunday := WeekBounds(date)

	var total float64
	for _, shift := range v.shifts.ShiftsForEmployeeBetween(employeeID, monday, sunday) {
		total += shift.Hours()
	}

	return WeekCheck{
		Valid:        total+additionalHours <= maxHoursPerWeek,
		CurrentHours: total,
		MaxHours:     maxHoursPerWeek,
	}
}
