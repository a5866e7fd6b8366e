package planning

import (
	"sort"
	"time"
)

// ShiftIndex is an immutable in-memory snapshot of shifts, keyed for the
// lookups the engine performs. It replaces per-employee round trips with one
// batched fetch: the services layer loads every shift in the relevant window
// once and the engine resolves all neighbor and coverage queries from memory.
type ShiftIndex struct {
	byEmployee map[string][]Shift
	covered    map[string]map[string]bool
}

// NewShiftIndex builds a snapshot from the given shifts.
// Shifts are indexed per employee (sorted by start time) and per
// (assignment, date) pair. Open shifts still count as coverage.
func NewShiftIndex(shifts []Shift) *ShiftIndex {
	ix := &ShiftIndex{
		byEmployee: make(map[string][]Shift),
		covered:    make(map[string]map[string]bool),
	}

	for _, shift := range shifts {
		if shift.EmployeeID != "" {
			ix.byEmployee[shift.EmployeeID] = append(ix.byEmployee[shift.EmployeeID], shift)
		}

		if shift.AssignmentID != "" {
			days, ok := ix.covered[shift.AssignmentID]
			if !ok {
				days = make(map[string]bool)
				ix.covered[shift.AssignmentID] = days
			}
			days[dateKey(shift.Date())] = true
		}
	}

	for _, shifts := range ix.byEmployee {
		sort.Slice(shifts, func(i, j int) bool {
			return shifts[i].Start.Before(shifts[j].Start)
		})
	}

	return ix
}

// ShiftsForEmployeeOn returns the employee's shifts starting on the given day
func (ix *ShiftIndex) ShiftsForEmployeeOn(employeeID string, date time.Time) []Shift {
	return ix.ShiftsForEmployeeBetween(employeeID, date, date)
}

// ShiftsForEmployeeBetween returns the employee's shifts whose start date
// falls in [from, to] inclusive, ordered by start time
func (ix *ShiftIndex) ShiftsForEmployeeBetween(employeeID string, from, to time.Time) []Shift {
	fromDay := DateOf(from)
	toDay := DateOf(to)

	var result []Shift
	for _, shift := range ix.byEmployee[employeeID] {
		day := shift.Date()
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		result = append(result, shift)
	}
	return result
}

// HasShift reports whether any shift is recorded for the assignment on the
// given day
func (ix *ShiftIndex) HasShift(assignmentID string, date time.Time) bool {
	return ix.covered[assignmentID][dateKey(DateOf(date))]
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
