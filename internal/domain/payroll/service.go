package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
	// Commit returns the stored record and whether it was newly created.
	Commit(ctx context.Context, req CommitRequest) (PayrollRecordResponse, bool, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (PayrollRecordResponse, error)
	GetRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecordResponse, error)
	Summary(ctx context.Context, filter PayrollFilter) (PayrollSummaryResponse, error)

	// Documents
	Payslip(ctx context.Context, id string) ([]byte, string, error)
	ExportRecords(ctx context.Context, filter PayrollFilter, w io.Writer) error

	// RunPeriod commits the period for every active employee.
	RunPeriod(ctx context.Context, month string, year int) (RunResult, error)
}
