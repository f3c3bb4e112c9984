package leave

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "Pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "Approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "Rejected"
)

type LeaveType string

const (
	LeaveTypePaid   LeaveType = "Paid"
	LeaveTypeUnpaid LeaveType = "Unpaid"
	LeaveTypeSick   LeaveType = "Sick"
)

// LeaveRequest entity. StartDate and EndDate are inclusive "YYYY-MM-DD" values.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	Status     LeaveRequestStatus
	StartDate  string
	EndDate    string
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Days returns the inclusive day count of the span: ceil(|end - start| in days) + 1.
func (r LeaveRequest) Days() (int, error) {
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		return 0, fmt.Errorf("%w: start date %q", ErrInvalidLeaveDates, r.StartDate)
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		return 0, fmt.Errorf("%w: end date %q", ErrInvalidLeaveDates, r.EndDate)
	}
	diff := math.Abs(end.Sub(start).Hours() / 24)
	return int(math.Ceil(diff)) + 1, nil
}
