package planning

import (
	"fmt"
	"math"
	"time"
)

// RestViolation describes the first existing shift found too close to a
// candidate shift window
type RestViolation struct {
	ShiftID    string
	ShiftStart time.Time
	ShiftEnd   time.Time
	RestHours  float64
	Message    string
}

// RestCheck is the structured outcome of a rest-period check.
// A violation is data for the caller to interpret, never an error: the shift
// edit path treats it as a hard block, the ranker as a score penalty.
type RestCheck struct {
	Valid     bool
	Violation *RestViolation
}

// RestHoursBetween computes the rest in hours between a candidate shift
// window and an existing shift. Both the candidate end and the existing
// shift's end must already be midnight-normalized.
//
// The minimum of the two differences is taken because a violation can come
// from either side: the candidate starting too soon after the existing shift
// ends, or ending too close before the existing shift starts.
func RestHoursBetween(candStart, candEnd time.Time, existing Shift) float64 {
	afterExisting := math.Abs(candStart.Sub(existing.NormalizedEnd()).Hours())
	beforeExisting := math.Abs(existing.Start.Sub(candEnd).Hours())
	return math.Min(afterExisting, beforeExisting)
}

// RestPeriodValidator checks candidate shift windows against the mandatory
// minimum rest period between shifts of the same employee
type RestPeriodValidator struct {
	shifts       ShiftSource
	minRestHours float64
}

// NewRestPeriodValidator creates a validator reading from the given snapshot
func NewRestPeriodValidator(shifts ShiftSource, minRestHours float64) *RestPeriodValidator {
	return &RestPeriodValidator{
		shifts:       shifts,
		minRestHours: minRestHours,
	}
}

// CheckRest determines whether a candidate shift window for the employee on
// the given date violates the minimum rest period against any neighboring
// shift on the previous, same, or next day. excludeShiftID skips one shift,
// used when validating an edit to an existing shift.
//
// The check stops at the first violating shift; conflicts are not aggregated.
func (v *RestPeriodValidator) CheckRest(employeeID string, date time.Time, startTime, endTime, excludeShiftID string) (RestCheck, error) {
	day := DateOf(date)

	start, err := At(day, startTime)
	if err != nil {
		return RestCheck{}, err
	}
	end, err := At(day, endTime)
	if err != nil {
		return RestCheck{}, err
	}
	if end.Before(start) {
		// Candidate crosses midnight
		end = end.AddDate(0, 0, 1)
	}

	neighbors := v.shifts.ShiftsForEmployeeBetween(employeeID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	for _, existing := range neighbors {
		if existing.ID == excludeShiftID {
			continue
		}

		rest := RestHoursBetween(start, end, existing)
		if rest < v.minRestHours {
			return RestCheck{
				Valid: false,
				Violation: &RestViolation{
					ShiftID:    existing.ID,
					ShiftStart: existing.Start,
					ShiftEnd:   existing.NormalizedEnd(),
					RestHours:  rest,
					Message: fmt.Sprintf("only %.1fh rest against shift on %s (%s - %s), minimum is %.0fh",
						rest,
						existing.Start.Format("2006-01-02"),
						existing.Start.Format("15:04"),
						existing.NormalizedEnd().Format("15:04"),
						v.minRestHours),
				},
			}, nil
		}
	}

	return RestCheck{Valid: true}, nil
}
