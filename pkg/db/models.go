package db

// Employee represents a database employee record
type Employee struct {
	ID              string
	Name            string
	HomeAddress     string
	CAOType         string
	MaxHoursPerDay  float64
	MaxHoursPerWeek float64
	BadgeType       string
	IsFlexible      bool
	Status          string
}

// Client represents a database client record
type Client struct {
	ID   string
	Name string
}

// Assignment represents a database assignment (client site) record.
// ClientName is joined in from the client table on read.
type Assignment struct {
	ID            string
	Name          string
	Address       string
	ClientID      string
	ClientName    string
	Status        string
	CoverageRule  string
	ExpectedStart string
	ExpectedEnd   string
}

// Shift represents a database shift record.
// Date is the start date ("2006-01-02"); StartTime and EndTime are "HH:MM"
// clock times. An EndTime before StartTime means the shift crosses midnight.
// An empty EmployeeID is an open shift.
type Shift struct {
	ID           string
	EmployeeID   string
	AssignmentID string
	Date         string
	StartTime    string
	EndTime      string
	BreakMinutes int
}
