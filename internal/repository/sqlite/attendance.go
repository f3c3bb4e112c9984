package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
)

type attendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByEmployeeMonth(ctx context.Context, employeeID string, yearMonth string) ([]attendance.Attendance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, employee_id, date, clock_in, clock_out, working_hours, status, created_at, updated_at
		FROM attendances
		WHERE employee_id = ? AND substr(date, 1, 7) = ? AND status = ?
		ORDER BY date
	`, employeeID, yearMonth, attendance.StatusPresent)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	var entries []attendance.Attendance
	for rows.Next() {
		var (
			att                  attendance.Attendance
			clockIn, clockOut    sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &clockIn, &clockOut,
			&att.WorkingHours, &att.Status, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		if att.ClockIn, err = parseTimePtr(clockIn); err != nil {
			return nil, fmt.Errorf("invalid clock_in for attendance %s: %w", att.ID, err)
		}
		if att.ClockOut, err = parseTimePtr(clockOut); err != nil {
			return nil, fmt.Errorf("invalid clock_out for attendance %s: %w", att.ID, err)
		}
		if att.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if att.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, att)
	}
	return entries, rows.Err()
}
