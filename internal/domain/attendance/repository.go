package attendance

import (
	"context"
)

// AttendanceRepository defines the read access payroll needs over attendance.
type AttendanceRepository interface {
	// ListByEmployeeMonth returns entries with status Present whose date
	// starts with yearMonth ("YYYY-MM").
	ListByEmployeeMonth(ctx context.Context, employeeID string, yearMonth string) ([]Attendance, error)
}
