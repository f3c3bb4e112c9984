package leave

import (
	"context"
)

// LeaveRequestRepository - read access to leave_requests for payroll
type LeaveRequestRepository interface {
	// ListApprovedPaidByEmployeeMonth returns approved paid requests whose start
	// date falls in yearMonth ("YYYY-MM"). Requests starting in an earlier month
	// are not returned even if they run into this one.
	ListApprovedPaidByEmployeeMonth(ctx context.Context, employeeID string, yearMonth string) ([]LeaveRequest, error)
}
