package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// ListByEmployeeMonth returns the employee's Present entries dated within yearMonth ("YYYY-MM").
func (a *attendanceRepositoryImpl) ListByEmployeeMonth(ctx context.Context, employeeID string, yearMonth string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, to_char(date, 'YYYY-MM-DD'), clock_in, clock_out,
			working_hours::float8, status, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1
			AND to_char(date, 'YYYY-MM') = $2
			AND status = $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, yearMonth, attendance.StatusPresent)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	var entries []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut,
			&att.WorkingHours, &att.Status, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		entries = append(entries, att)
	}

	return entries, rows.Err()
}
