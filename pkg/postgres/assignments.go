package postgres

import (
	"context"
	"fmt"

	"github.com/mkuiper/guardplan/pkg/db"
)

// GetAssignmentsByStatus retrieves all assignments with the given status,
// with the client name joined in, ordered by name
func (d *DB) GetAssignmentsByStatus(ctx context.Context, status string) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.name, a.address, a.client_id, c.name,
		       a.status, a.coverage_rule, a.expected_start, a.expected_end
		FROM assignment a
		JOIN client c ON c.id = a.client_id
		WHERE a.status = $1
		ORDER BY a.name
	`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		var asg db.Assignment
		if err := rows.Scan(&asg.ID, &asg.Name, &asg.Address, &asg.ClientID,
			&asg.ClientName, &asg.Status, &asg.CoverageRule,
			&asg.ExpectedStart, &asg.ExpectedEnd); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, asg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}
