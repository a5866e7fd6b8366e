package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkuiper/guardplan/pkg/core/planning"
	"github.com/mkuiper/guardplan/pkg/db"
)

// ShiftValidationRequest describes a prospective shift to validate before a
// planner commits it. ShiftID is set when editing an existing shift, so the
// shift's current version is excluded from its own checks.
type ShiftValidationRequest struct {
	ShiftID      string
	EmployeeID   string
	Date         time.Time
	StartTime    string
	EndTime      string
	BreakMinutes int
}

// ShiftValidationResult is the hard-block outcome of validating a shift.
// A violation here blocks the action; the same underlying computations only
// lower rank in gap suggestions.
type ShiftValidationResult struct {
	Valid            bool     `json:"valid"`
	Violations       []string `json:"violations"`
	RestHours        *float64 `json:"rest_hours,omitempty"`
	ShiftHours       float64  `json:"shift_hours"`
	CurrentWeekHours float64  `json:"current_week_hours"`
	MaxWeekHours     float64  `json:"max_week_hours"`
}

// ValidateShift checks a prospective shift against the employee's rest
// period, daily maximum, and weekly cap. Business-rule violations come back
// in the result, never as an error; errors are reserved for infrastructure
// failures and unknown references.
func ValidateShift(ctx context.Context, store db.PlanningStore, logger *zap.Logger, params planning.Params, req ShiftValidationRequest) (*ShiftValidationResult, error) {
	employee, err := store.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("no employee with id %s", req.EmployeeID)
	}

	day := planning.DateOf(req.Date)

	// One fetch covers both the rest neighbors and the weekly window
	monday, sunday := planning.WeekBounds(day)
	from := monday
	if dayBefore := day.AddDate(0, 0, -1); dayBefore.Before(from) {
		from = dayBefore
	}
	to := sunday
	if dayAfter := day.AddDate(0, 0, 1); dayAfter.After(to) {
		to = dayAfter
	}

	records, err := store.GetShiftsForEmployee(ctx, req.EmployeeID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee shifts: %w", err)
	}

	shifts := make([]planning.Shift, 0, len(records))
	for _, rec := range records {
		// The edited shift is replaced by the candidate values, so its
		// stored version must not count toward any check
		if rec.ID == req.ShiftID && req.ShiftID != "" {
			continue
		}
		shift, err := toShift(rec)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	index := planning.NewShiftIndex(shifts)

	candidate, err := candidateShift(day, req)
	if err != nil {
		return nil, err
	}
	shiftHours := candidate.Hours()

	result := &ShiftValidationResult{
		Valid:      true,
		Violations: []string{},
		ShiftHours: shiftHours,
	}

	restValidator := planning.NewRestPeriodValidator(index, params.MinRestHours)
	rest, err := restValidator.CheckRest(req.EmployeeID, day, req.StartTime, req.EndTime, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if !rest.Valid {
		result.Valid = false
		result.Violations = append(result.Violations, rest.Violation.Message)
		result.RestHours = &rest.Violation.RestHours
	}

	if employee.MaxHoursPerDay > 0 && shiftHours > employee.MaxHoursPerDay {
		result.Valid = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("shift of %.1fh exceeds daily maximum of %.1fh", shiftHours, employee.MaxHoursPerDay))
	}

	week := planning.NewWeeklyHoursValidator(index).CheckWeek(req.EmployeeID, day, employee.MaxHoursPerWeek, shiftHours)
	result.CurrentWeekHours = week.CurrentHours
	result.MaxWeekHours = week.MaxHours
	if !week.Valid {
		result.Valid = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("weekly maximum exceeded: %.1fh scheduled plus %.1fh over cap of %.1fh",
				week.CurrentHours, shiftHours, week.MaxHours))
	}

	logger.Info("Shift validated",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", day.Format("2006-01-02")),
		zap.Bool("valid", result.Valid),
		zap.Int("violations", len(result.Violations)))

	return result, nil
}

func candidateShift(day time.Time, req ShiftValidationRequest) (planning.Shift, error) {
	start, err := planning.At(day, req.StartTime)
	if err != nil {
		return planning.Shift{}, err
	}
	end, err := planning.At(day, req.EndTime)
	if err != nil {
		return planning.Shift{}, err
	}
	return planning.Shift{
		ID:           req.ShiftID,
		EmployeeID:   req.EmployeeID,
		Start:        start,
		End:          end,
		BreakMinutes: req.BreakMinutes,
	}, nil
}
