package planning

import (
	"fmt"
	"time"
)

// DateOf truncates a timestamp to midnight of its calendar day
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// At combines a calendar day with an "HH:MM" clock time
func At(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

// WeekBounds returns the Monday and Sunday of the week containing date.
// Weeks always run Monday through Sunday regardless of locale.
func WeekBounds(date time.Time) (monday, sunday time.Time) {
	d := DateOf(date)
	dow := int(d.Weekday())
	if dow == 0 {
		// Sunday belongs to the week that started six days earlier
		monday = d.AddDate(0, 0, -6)
	} else {
		monday = d.AddDate(0, 0, -(dow - 1))
	}
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}
