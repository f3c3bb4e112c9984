package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	db *sql.DB
}

func NewLeaveRequestRepository(db *sql.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

// ListApprovedPaidByEmployeeMonth matches on the start date only.
func (r *leaveRequestRepository) ListApprovedPaidByEmployeeMonth(ctx context.Context, employeeID string, yearMonth string) ([]leave.LeaveRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, employee_id, leave_type, status, start_date, end_date, reason, created_at, updated_at
		FROM leave_requests
		WHERE employee_id = ? AND status = ? AND leave_type = ? AND substr(start_date, 1, 7) = ?
		ORDER BY start_date
	`, employeeID, leave.LeaveRequestStatusApproved, leave.LeaveTypePaid, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var (
			req                  leave.LeaveRequest
			reason               sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Type, &req.Status, &req.StartDate, &req.EndDate,
			&reason, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		if reason.Valid {
			req.Reason = &reason.String
		}
		if req.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if req.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
