package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// AggregateAttendance counts the employee's Present days in the month given by
// prefix ("YYYY-MM") and sums their worked hours. Entries whose clock-out is
// before clock-in still count as present but contribute no hours.
func AggregateAttendance(ctx context.Context, repo attendance.AttendanceRepository, employeeID, prefix string) (payroll.AttendanceSummary, error) {
	entries, err := repo.ListByEmployeeMonth(ctx, employeeID, prefix)
	if err != nil {
		return payroll.AttendanceSummary{}, storageError("load attendance", err)
	}

	summary := payroll.AttendanceSummary{TotalWorkingHours: decimal.Zero}
	for _, entry := range entries {
		if entry.Status != attendance.StatusPresent || !strings.HasPrefix(entry.Date, prefix) {
			continue
		}
		summary.PresentDays++

		hours, ok := entry.WorkedHours()
		if !ok {
			summary.SkippedEntries++
			continue
		}
		summary.TotalWorkingHours = summary.TotalWorkingHours.Add(decimal.NewFromFloat(hours))
	}
	summary.TotalWorkingHours = summary.TotalWorkingHours.Round(2)

	return summary, nil
}

// AggregateLeave sums the inclusive day counts of approved paid leave requests
// starting in the month given by prefix. A request spanning into the next month
// is credited in full to its start month.
func AggregateLeave(ctx context.Context, repo leave.LeaveRequestRepository, employeeID, prefix string, logger *slog.Logger) (payroll.LeaveSummary, error) {
	requests, err := repo.ListApprovedPaidByEmployeeMonth(ctx, employeeID, prefix)
	if err != nil {
		return payroll.LeaveSummary{}, storageError("load leave requests", err)
	}

	var summary payroll.LeaveSummary
	for _, req := range requests {
		if req.Status != leave.LeaveRequestStatusApproved || req.Type != leave.LeaveTypePaid || !strings.HasPrefix(req.StartDate, prefix) {
			continue
		}
		days, err := req.Days()
		if err != nil {
			if logger != nil {
				logger.Warn("skipping leave request with unreadable dates",
					"leave_request_id", req.ID, "employee_id", employeeID, "error", err)
			}
			continue
		}
		summary.PaidLeaveDays += days
		summary.Requests++
	}

	return summary, nil
}

// calculate runs both aggregations concurrently and feeds them to the calculator.
func (s *PayrollServiceImpl) calculate(ctx context.Context, emp employee.Employee, period payroll.Period) (payroll.PayrollDetails, error) {
	var (
		att payroll.AttendanceSummary
		lv  payroll.LeaveSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		att, err = AggregateAttendance(gctx, s.attendanceRepo, emp.ID, period.Prefix)
		return err
	})
	g.Go(func() error {
		var err error
		lv, err = AggregateLeave(gctx, s.leaveRepo, emp.ID, period.Prefix, s.logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return payroll.PayrollDetails{}, err
	}

	if att.SkippedEntries > 0 {
		s.logger.Warn("attendance entries with clock-out before clock-in contributed no hours",
			"employee_id", emp.ID, "period", period.Key, "count", att.SkippedEntries)
	}

	return payroll.Calculate(emp.BaseSalary, att, lv), nil
}

func storageError(op string, err error) error {
	if errors.Is(err, payroll.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", payroll.ErrStorage, op, err)
}
