package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mkuiper/guardplan/pkg/db"
)

// GetShiftsByDateRange retrieves all shifts whose start date falls in
// [from, to] inclusive. Dates are "2006-01-02" strings.
func (d *DB) GetShiftsByDateRange(ctx context.Context, from, to string) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, employee_id, assignment_id, shift_date, start_time, end_time, break_minutes
		FROM shift
		WHERE shift_date BETWEEN $1 AND $2
		ORDER BY shift_date, start_time
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

// GetShiftsForEmployee retrieves one employee's shifts whose start date
// falls in [from, to] inclusive
func (d *DB) GetShiftsForEmployee(ctx context.Context, employeeID, from, to string) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, employee_id, assignment_id, shift_date, start_time, end_time, break_minutes
		FROM shift
		WHERE employee_id = $1 AND shift_date BETWEEN $2 AND $3
		ORDER BY shift_date, start_time
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee shifts: %w", err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

func collectShifts(rows pgx.Rows) ([]db.Shift, error) {
	var shifts []db.Shift
	for rows.Next() {
		var s db.Shift
		var employeeID *string
		var shiftDate time.Time
		if err := rows.Scan(&s.ID, &employeeID, &s.AssignmentID, &shiftDate,
			&s.StartTime, &s.EndTime, &s.BreakMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		if employeeID != nil {
			s.EmployeeID = *employeeID
		}
		s.Date = shiftDate.Format("2006-01-02")
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}
