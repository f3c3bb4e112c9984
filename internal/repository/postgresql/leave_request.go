package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// ListApprovedPaidByEmployeeMonth matches on the start date only; a span that
// begins in the previous month is not returned.
func (l *leaveRequestRepositoryImpl) ListApprovedPaidByEmployeeMonth(ctx context.Context, employeeID string, yearMonth string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, employee_id, leave_type, status,
			to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
			reason, created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1
			AND status = $2
			AND leave_type = $3
			AND to_char(start_date, 'YYYY-MM') = $4
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.LeaveRequestStatusApproved, leave.LeaveTypePaid, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var req leave.LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Type, &req.Status,
			&req.StartDate, &req.EndDate,
			&req.Reason, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
