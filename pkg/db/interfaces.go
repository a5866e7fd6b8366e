package db

import "context"

// PlanningStore defines the read-only database operations the planning
// engine needs. The postgres.DB implementation satisfies this interface.
type PlanningStore interface {
	// GetEmployeesByStatus returns employees with the given status,
	// ordered by name
	GetEmployeesByStatus(ctx context.Context, status string) ([]Employee, error)

	// GetEmployee returns a single employee by ID
	GetEmployee(ctx context.Context, id string) (*Employee, error)

	// GetAssignmentsByStatus returns assignments with the given status,
	// with the client name joined in, ordered by name
	GetAssignmentsByStatus(ctx context.Context, status string) ([]Assignment, error)

	// GetShiftsByDateRange returns all shifts whose start date falls in
	// [from, to] inclusive (dates as "2006-01-02")
	GetShiftsByDateRange(ctx context.Context, from, to string) ([]Shift, error)

	// GetShiftsForEmployee returns one employee's shifts whose start date
	// falls in [from, to] inclusive
	GetShiftsForEmployee(ctx context.Context, employeeID, from, to string) ([]Shift, error)
}
