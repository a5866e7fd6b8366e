package planning

import (
	"context"
	"time"
)

// BadgeTier is the security-clearance ranking of an employee.
// It is a suitability signal during ranking, not a hard eligibility filter.
type BadgeTier string

const (
	BadgeNone  BadgeTier = "none"
	BadgeGrey  BadgeTier = "grey"
	BadgeGreen BadgeTier = "green"
)

// Status marks whether an employee or assignment participates in planning
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Employee is a worker as seen by the planning engine.
// Records are created and edited elsewhere; the engine only reads them.
type Employee struct {
	ID          string
	Name        string
	HomeAddress string
	CAOType     string

	// MaxHoursPerDay and MaxHoursPerWeek come from the employee's CAO type
	MaxHoursPerDay  float64
	MaxHoursPerWeek float64

	Badge      BadgeTier
	IsFlexible bool
	Status     Status
}

// Assignment is a client site that needs daily coverage
type Assignment struct {
	ID         string
	Name       string
	Address    string
	ClientID   string
	ClientName string
	Status     Status

	// CoverageRule is an optional rrule describing which days require coverage.
	// Empty means coverage is required every calendar day.
	CoverageRule string

	// ExpectedStart and ExpectedEnd ("HH:MM") override the configured assumed
	// shift boundaries for this site when set
	ExpectedStart string
	ExpectedEnd   string
}

// Shift is a single scheduled (or open) shift.
// Start is the full start timestamp. End is the end timestamp on the same
// calendar day as entered by the planner; shifts that cross midnight have
// End before Start and must be read through NormalizedEnd.
type Shift struct {
	ID           string
	EmployeeID   string // empty for open shifts
	AssignmentID string
	Start        time.Time
	End          time.Time
	BreakMinutes int
}

// Date returns the calendar day the shift starts on
func (s Shift) Date() time.Time {
	return DateOf(s.Start)
}

// NormalizedEnd returns the effective end timestamp, shifted to the next
// calendar day when the shift crosses midnight
func (s Shift) NormalizedEnd() time.Time {
	if s.End.Before(s.Start) {
		return s.End.AddDate(0, 0, 1)
	}
	return s.End
}

// Hours returns the worked hours of the shift: normalized duration minus break
func (s Shift) Hours() float64 {
	return s.NormalizedEnd().Sub(s.Start).Hours() - float64(s.BreakMinutes)/60
}

// Gap identifies an (assignment, date) pair with no recorded shift coverage.
// Gaps are derived per request and never persisted.
type Gap struct {
	AssignmentID       string           `json:"assignment_id"`
	LocationName       string           `json:"location_name"`
	LocationAddress    string           `json:"location_address"`
	ClientName         string           `json:"client_name"`
	Date               string           `json:"date"`
	SuggestedEmployees []CandidateScore `json:"suggested_employees"`
}

// CandidateScore is one employee's ranked suitability for filling a gap.
// Scores start at the baseline and are unbounded in either direction.
type CandidateScore struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CAOType     string   `json:"cao_type"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	Warnings    []string `json:"warnings"`
	DistanceKm  *float64 `json:"distance_km"`
	TravelCosts *float64 `json:"travel_costs"`
}

// ShiftSource provides the shifts the validators and ranker need.
// Implementations are read-only; the services layer backs this with an
// in-memory snapshot built from one batched store query.
type ShiftSource interface {
	// ShiftsForEmployeeOn returns the employee's shifts starting on the given day
	ShiftsForEmployeeOn(employeeID string, date time.Time) []Shift

	// ShiftsForEmployeeBetween returns the employee's shifts starting on any
	// day in [from, to] inclusive
	ShiftsForEmployeeBetween(employeeID string, from, to time.Time) []Shift
}

// DistanceService resolves one-way commute distances and derives travel cost.
// Resolve never fails: missing configuration, provider errors and timeouts
// all surface as ok=false and the caller degrades gracefully.
type DistanceService interface {
	// Resolve returns the one-way distance in kilometres between two addresses
	Resolve(ctx context.Context, origin, destination string) (km float64, ok bool)

	// TravelCost returns the round-trip travel cost for a one-way distance
	TravelCost(km float64) float64
}
