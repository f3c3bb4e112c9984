package payroll

import "context"

// PayrollRepository persists payroll records. Implementations enforce
// uniqueness of (EmployeeID, PeriodKey) themselves.
type PayrollRepository interface {
	// UpsertPayrollRecord inserts record when no row exists for its employee and
	// period, otherwise recomputes the existing row. The bool reports creation.
	UpsertPayrollRecord(ctx context.Context, record PayrollRecord, statusOverride *PayrollStatus) (PayrollRecord, bool, error)
	GetPayrollRecordByID(ctx context.Context, id string) (PayrollRecord, error)
	GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, periodKey string) (PayrollRecord, error)
	UpdatePayrollStatus(ctx context.Context, id string, status PayrollStatus) (PayrollRecord, error)
	// ListPayrollRecords returns records newest first.
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, error)
}
