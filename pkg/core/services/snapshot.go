package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkuiper/guardplan/pkg/core/planning"
	"github.com/mkuiper/guardplan/pkg/db"
)

// planningSnapshot holds everything the engine needs for one request:
// employees and assignments as of read time, plus a shift index covering the
// requested range widened to the surrounding week and rest-period neighbors.
// The engine never writes, so a snapshot is safe to share across goroutines.
type planningSnapshot struct {
	employees   []planning.Employee
	assignments []planning.Assignment
	index       *planning.ShiftIndex
}

// loadSnapshot fetches all inputs for gap detection or ranking over
// [start, end] in one pass. The shift window is widened so weekly-hour sums
// (Monday through Sunday) and rest checks (one day either side) resolve from
// memory without further queries.
func loadSnapshot(ctx context.Context, store db.PlanningStore, logger *zap.Logger, start, end time.Time) (*planningSnapshot, error) {
	employees, err := store.GetEmployeesByStatus(ctx, string(planning.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	assignments, err := store.GetAssignmentsByStatus(ctx, string(planning.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	from, to := snapshotWindow(start, end)
	shiftRecords, err := store.GetShiftsByDateRange(ctx, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}

	shifts := make([]planning.Shift, 0, len(shiftRecords))
	for _, rec := range shiftRecords {
		shift, err := toShift(rec)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	logger.Debug("Planning snapshot loaded",
		zap.Int("employees", len(employees)),
		zap.Int("assignments", len(assignments)),
		zap.Int("shifts", len(shifts)),
		zap.String("window_from", from.Format("2006-01-02")),
		zap.String("window_to", to.Format("2006-01-02")))

	return &planningSnapshot{
		employees:   mapEmployees(employees),
		assignments: mapAssignments(assignments),
		index:       planning.NewShiftIndex(shifts),
	}, nil
}

// snapshotWindow widens [start, end] to cover the Monday of start's week,
// the Sunday of end's week, and one extra day on each side for rest checks
func snapshotWindow(start, end time.Time) (from, to time.Time) {
	monday, _ := planning.WeekBounds(start)
	_, sunday := planning.WeekBounds(end)

	from = monday
	if dayBefore := planning.DateOf(start).AddDate(0, 0, -1); dayBefore.Before(from) {
		from = dayBefore
	}
	to = sunday
	if dayAfter := planning.DateOf(end).AddDate(0, 0, 1); dayAfter.After(to) {
		to = dayAfter
	}
	return from, to
}

func mapEmployees(records []db.Employee) []planning.Employee {
	employees := make([]planning.Employee, 0, len(records))
	for _, rec := range records {
		employees = append(employees, toEmployee(rec))
	}
	return employees
}

func mapAssignments(records []db.Assignment) []planning.Assignment {
	assignments := make([]planning.Assignment, 0, len(records))
	for _, rec := range records {
		assignments = append(assignments, toAssignment(rec))
	}
	return assignments
}

func toEmployee(rec db.Employee) planning.Employee {
	return planning.Employee{
		ID:              rec.ID,
		Name:            rec.Name,
		HomeAddress:     rec.HomeAddress,
		CAOType:         rec.CAOType,
		MaxHoursPerDay:  rec.MaxHoursPerDay,
		MaxHoursPerWeek: rec.MaxHoursPerWeek,
		Badge:           planning.BadgeTier(rec.BadgeType),
		IsFlexible:      rec.IsFlexible,
		Status:          planning.Status(rec.Status),
	}
}

func toAssignment(rec db.Assignment) planning.Assignment {
	return planning.Assignment{
		ID:            rec.ID,
		Name:          rec.Name,
		Address:       rec.Address,
		ClientID:      rec.ClientID,
		ClientName:    rec.ClientName,
		Status:        planning.Status(rec.Status),
		CoverageRule:  rec.CoverageRule,
		ExpectedStart: rec.ExpectedStart,
		ExpectedEnd:   rec.ExpectedEnd,
	}
}

func toShift(rec db.Shift) (planning.Shift, error) {
	date, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		return planning.Shift{}, fmt.Errorf("invalid date on shift %s: %w", rec.ID, err)
	}
	start, err := planning.At(date, rec.StartTime)
	if err != nil {
		return planning.Shift{}, fmt.Errorf("shift %s: %w", rec.ID, err)
	}
	// End stays on the start date; NormalizedEnd applies the midnight rule
	end, err := planning.At(date, rec.EndTime)
	if err != nil {
		return planning.Shift{}, fmt.Errorf("shift %s: %w", rec.ID, err)
	}

	return planning.Shift{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		AssignmentID: rec.AssignmentID,
		Start:        start,
		End:          end,
		BreakMinutes: rec.BreakMinutes,
	}, nil
}
