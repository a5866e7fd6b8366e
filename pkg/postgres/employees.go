package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mkuiper/guardplan/pkg/db"
)

// GetEmployeesByStatus retrieves all employees with the given status,
// ordered by name
func (d *DB) GetEmployeesByStatus(ctx context.Context, status string) ([]db.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, home_address, cao_type, max_hours_per_day,
		       max_hours_per_week, badge_type, is_flexible, status
		FROM employee
		WHERE status = $1
		ORDER BY name
	`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []db.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetEmployee retrieves a single employee by ID. Returns nil when no
// employee exists with that ID.
func (d *DB) GetEmployee(ctx context.Context, id string) (*db.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, home_address, cao_type, max_hours_per_day,
		       max_hours_per_week, badge_type, is_flexible, status
		FROM employee
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to query employee: %w", err)
		}
		return nil, nil
	}

	emp, err := scanEmployee(rows)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func scanEmployee(rows pgx.Rows) (db.Employee, error) {
	var emp db.Employee
	var homeAddress *string
	if err := rows.Scan(&emp.ID, &emp.Name, &homeAddress, &emp.CAOType,
		&emp.MaxHoursPerDay, &emp.MaxHoursPerWeek, &emp.BadgeType,
		&emp.IsFlexible, &emp.Status); err != nil {
		return db.Employee{}, fmt.Errorf("failed to scan employee: %w", err)
	}
	if homeAddress != nil {
		emp.HomeAddress = *homeAddress
	}
	return emp, nil
}
