package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkuiper/guardplan/pkg/clients/distanceclient"
	"github.com/mkuiper/guardplan/pkg/core/planning"
	"github.com/mkuiper/guardplan/pkg/db"
)

// mockStore serves canned records, filtering the way the real queries do
type mockStore struct {
	employees   []db.Employee
	assignments []db.Assignment
	shifts      []db.Shift
	err         error
}

func (m *mockStore) GetEmployeesByStatus(_ context.Context, status string) ([]db.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []db.Employee
	for _, emp := range m.employees {
		if emp.Status == status {
			result = append(result, emp)
		}
	}
	return result, nil
}

func (m *mockStore) GetEmployee(_ context.Context, id string) (*db.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, emp := range m.employees {
		if emp.ID == id {
			return &emp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetAssignmentsByStatus(_ context.Context, status string) ([]db.Assignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []db.Assignment
	for _, asg := range m.assignments {
		if asg.Status == status {
			result = append(result, asg)
		}
	}
	return result, nil
}

func (m *mockStore) GetShiftsByDateRange(_ context.Context, from, to string) ([]db.Shift, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []db.Shift
	for _, shift := range m.shifts {
		if shift.Date >= from && shift.Date <= to {
			result = append(result, shift)
		}
	}
	return result, nil
}

func (m *mockStore) GetShiftsForEmployee(_ context.Context, employeeID, from, to string) ([]db.Shift, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []db.Shift
	for _, shift := range m.shifts {
		if shift.EmployeeID == employeeID && shift.Date >= from && shift.Date <= to {
			result = append(result, shift)
		}
	}
	return result, nil
}

func noDistance(t *testing.T) planning.DistanceService {
	t.Helper()
	client, err := distanceclient.NewClient("", time.Second, 0, zap.NewNop())
	require.NoError(t, err)
	return client
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func guardEmployee(id, name string) db.Employee {
	return db.Employee{
		ID:              id,
		Name:            name,
		CAOType:         "particuliere beveiliging",
		MaxHoursPerDay:  12,
		MaxHoursPerWeek: 40,
		BadgeType:       "none",
		Status:          "active",
	}
}

func TestDetectGaps_EndToEnd(t *testing.T) {
	store := &mockStore{
		employees: []db.Employee{
			guardEmployee("emp-1", "Anna"),
			guardEmployee("emp-2", "Ben"),
		},
		assignments: []db.Assignment{
			{ID: "asg-a", Name: "Site A", Address: "A St 1", ClientID: "c1", ClientName: "Acme", Status: "active"},
		},
		shifts: []db.Shift{
			{ID: "s1", EmployeeID: "emp-1", AssignmentID: "asg-a", Date: "2025-03-11", StartTime: "08:00", EndTime: "16:00"},
		},
	}

	report, err := DetectGaps(context.Background(), store, noDistance(t), zap.NewNop(), planning.DefaultParams(),
		day(2025, 3, 11), day(2025, 3, 12))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-11", report.StartDate)
	assert.Equal(t, "2025-03-12", report.EndDate)
	require.Len(t, report.Gaps, 1)

	gap := report.Gaps[0]
	assert.Equal(t, "asg-a", gap.AssignmentID)
	assert.Equal(t, "Site A", gap.LocationName)
	assert.Equal(t, "Acme", gap.ClientName)
	assert.Equal(t, "2025-03-12", gap.Date)

	// Ben has no shifts and outranks Anna, who worked the day before
	require.Len(t, gap.SuggestedEmployees, 2)
	assert.Equal(t, "emp-2", gap.SuggestedEmployees[0].ID)
	assert.Equal(t, "emp-1", gap.SuggestedEmployees[1].ID)
	assert.Contains(t, gap.SuggestedEmployees[1].Reasons, "16.0h rest after previous shift")
}

func TestDetectGaps_SkipsInactiveRecords(t *testing.T) {
	inactive := guardEmployee("emp-gone", "Old")
	inactive.Status = "inactive"
	store := &mockStore{
		employees: []db.Employee{guardEmployee("emp-1", "Anna"), inactive},
		assignments: []db.Assignment{
			{ID: "asg-a", Name: "Site A", Status: "active"},
			{ID: "asg-closed", Name: "Closed", Status: "inactive"},
		},
	}

	report, err := DetectGaps(context.Background(), store, noDistance(t), zap.NewNop(), planning.DefaultParams(),
		day(2025, 3, 11), day(2025, 3, 11))
	require.NoError(t, err)
	require.Len(t, report.Gaps, 1)
	assert.Equal(t, "asg-a", report.Gaps[0].AssignmentID)
	require.Len(t, report.Gaps[0].SuggestedEmployees, 1)
	assert.Equal(t, "emp-1", report.Gaps[0].SuggestedEmployees[0].ID)
}

func TestDetectGaps_StoreErrorPropagates(t *testing.T) {
	store := &mockStore{err: errors.New("connection refused")}

	_, err := DetectGaps(context.Background(), store, noDistance(t), zap.NewNop(), planning.DefaultParams(),
		day(2025, 3, 11), day(2025, 3, 11))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch employees")
}

func TestSuggestCandidates_RanksForOneAssignment(t *testing.T) {
	store := &mockStore{
		employees: []db.Employee{guardEmployee("emp-1", "Anna")},
		assignments: []db.Assignment{
			{ID: "asg-a", Name: "Site A", Status: "active"},
		},
	}

	candidates, err := SuggestCandidates(context.Background(), store, noDistance(t), zap.NewNop(), planning.DefaultParams(),
		"asg-a", day(2025, 3, 11))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "emp-1", candidates[0].ID)
	assert.Equal(t, 110, candidates[0].Score)
}

func TestSuggestCandidates_UnknownAssignment(t *testing.T) {
	store := &mockStore{
		assignments: []db.Assignment{{ID: "asg-a", Name: "Site A", Status: "active"}},
	}

	_, err := SuggestCandidates(context.Background(), store, noDistance(t), zap.NewNop(), planning.DefaultParams(),
		"asg-missing", day(2025, 3, 11))
	require.Error(t, err)

	var unknown *UnknownAssignmentError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "asg-missing", unknown.ID)
}

func TestValidateShift_CleanShiftPasses(t *testing.T) {
	store := &mockStore{employees: []db.Employee{guardEmployee("emp-1", "Anna")}}

	result, err := ValidateShift(context.Background(), store, zap.NewNop(), planning.DefaultParams(), ShiftValidationRequest{
		EmployeeID:   "emp-1",
		Date:         day(2025, 3, 12),
		StartTime:    "08:00",
		EndTime:      "16:00",
		BreakMinutes: 30,
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
	assert.InDelta(t, 7.5, result.ShiftHours, 0.001)
	assert.Zero(t, result.CurrentWeekHours)
	assert.Equal(t, 40.0, result.MaxWeekHours)
	assert.Nil(t, result.RestHours)
}

func TestValidateShift_RestViolationBlocks(t *testing.T) {
	store := &mockStore{
		employees: []db.Employee{guardEmployee("emp-1", "Anna")},
		shifts: []db.Shift{
			{ID: "s1", EmployeeID: "emp-1", AssignmentID: "asg-a", Date: "2025-03-11", StartTime: "14:00", EndTime: "22:00"},
		},
	}

	result, err := ValidateShift(context.Background(), store, zap.NewNop(), planning.DefaultParams(), ShiftValidationRequest{
		EmployeeID: "emp-1",
		Date:       day(2025, 3, 12),
		StartTime:  "06:00",
		EndTime:    "14:00",
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "8.0h")
	require.NotNil(t, result.RestHours)
	assert.InDelta(t, 8.0, *result.RestHours, 0.001)
}

func TestValidateShift_DailyMaximum(t *testing.T) {
	employee := guardEmployee("emp-1", "Anna")
	employee.MaxHoursPerDay = 8
	store := &mockStore{employees: []db.Employee{employee}}

	result, err := ValidateShift(context.Background(), store, zap.NewNop(), planning.DefaultParams(), ShiftValidationRequest{
		EmployeeID: "emp-1",
		Date:       day(2025, 3, 12),
		StartTime:  "08:00",
		EndTime:    "20:00",
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "daily maximum")
}

func TestValidateShift_WeeklyMaximum(t *testing.T) {
	store := &mockStore{
		employees: []db.Employee{guardEmployee("emp-1", "Anna")},
		shifts: []db.Shift{
			{ID: "s1", EmployeeID: "emp-1", Date: "2025-03-10", StartTime: "08:00", EndTime: "17:00"},
			{ID: "s2", EmployeeID: "emp-1", Date: "2025-03-11", StartTime: "08:00", EndTime: "17:00"},
			{ID: "s3", EmployeeID: "emp-1", Date: "2025-03-12", StartTime: "08:00", EndTime: "17:00"},
			{ID: "s4", EmployeeID: "emp-1", Date: "2025-03-13", StartTime: "08:00", EndTime: "17:00"},
		},
	}

	result, err := ValidateShift(context.Background(), store, zap.NewNop(), planning.DefaultParams(), ShiftValidationRequest{
		EmployeeID: "emp-1",
		Date:       day(2025, 3, 15),
		StartTime:  "08:00",
		EndTime:    "16:00",
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "weekly maximum exceeded")
	assert.InDelta(t, 36.0, result.CurrentWeekHours, 0.001)
}

func TestValidateShift_EditExcludesStoredVersion(t *testing.T) {
	store := &mockStore{
		employees: []db.Employee{guardEmployee("emp-1", "Anna")},
		shifts: []db.Shift{
			{ID: "s1", EmployeeID: "emp-1", Date: "2025-03-12", StartTime: "08:00", EndTime: "16:00"},
		},
	}

	result, err := ValidateShift(context.Background(), store, zap.NewNop(), planning.DefaultParams(), ShiftValidationRequest{
		ShiftID:    "s1",
		EmployeeID: "emp-1",
		Date:       day(2025, 3, 12),
		StartTime:  "09:00",
		EndTime:    "17:00",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Zero(t, result.CurrentWeekHours, "the stored version of the edited shift must not count")
}

func TestValidateShift_UnknownEmployee(t *testing.T) {
	store := &mockStore{}

	_, err := ValidateShift(context.Background(), store, zap.NewNop(), planning.DefaultParams(), ShiftValidationRequest{
		EmployeeID: "emp-missing",
		Date:       day(2025, 3, 12),
		StartTime:  "08:00",
		EndTime:    "16:00",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emp-missing")
}

func TestSnapshotWindow_WidensToWeekAndNeighbors(t *testing.T) {
	// Wednesday through Thursday: the window runs from that week's Monday
	// through its Sunday, which already covers the rest-check neighbors
	from, to := snapshotWindow(day(2025, 3, 12), day(2025, 3, 13))
	assert.Equal(t, day(2025, 3, 10), from)
	assert.Equal(t, day(2025, 3, 16), to)

	// A Monday start needs the preceding Sunday for the rest check
	from, to = snapshotWindow(day(2025, 3, 10), day(2025, 3, 16))
	assert.Equal(t, day(2025, 3, 9), from)
	assert.Equal(t, day(2025, 3, 17), to)
}
