package attendance

import (
	"time"
)

const (
	StatusPresent = "Present"
	StatusHalfDay = "Half-day"
	StatusAbsent  = "Absent"
	StatusLeave   = "Leave"
)

// Attendance is a single day's check-in/check-out entry. Date is stored as
// "YYYY-MM-DD" so month matching is a plain prefix comparison.
type Attendance struct {
	ID           string
	EmployeeID   string
	Date         string
	ClockIn      *time.Time
	ClockOut     *time.Time
	WorkingHours *float64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkedHours returns the stored working hours, or the clock difference when
// none is stored. ok is false when the clock difference is negative.
func (a Attendance) WorkedHours() (hours float64, ok bool) {
	if a.WorkingHours != nil {
		return *a.WorkingHours, true
	}
	if a.ClockIn == nil || a.ClockOut == nil {
		return 0, true
	}
	diff := a.ClockOut.Sub(*a.ClockIn)
	if diff < 0 {
		return 0, false
	}
	return diff.Hours(), true
}
