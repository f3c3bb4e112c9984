package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// runConcurrency bounds how many employees RunPeriod commits at once.
const runConcurrency = 4

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	publisher      events.Publisher
	logger         *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	publisher events.Publisher,
	logger *slog.Logger,
) payroll.PayrollService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		publisher:      publisher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          newRecordID,
	}
}

func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.PreviewRequest) (payroll.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PreviewResponse{}, err
	}

	period, err := payroll.ResolvePeriod(req.Month, req.Year)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	details, err := s.calculate(ctx, emp, period)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	return payroll.PreviewResponse{
		Employee:    emp.Summary(),
		Period:      period.Key,
		PeriodStart: period.Start.Format(time.DateOnly),
		PeriodEnd:   period.End.Format(time.DateOnly),
		Details:     details,
		Amount:      details.CalculatedAmount,
	}, nil
}

func (s *PayrollServiceImpl) Commit(ctx context.Context, req payroll.CommitRequest) (payroll.PayrollRecordResponse, bool, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, false, err
	}

	period, err := payroll.ResolvePeriod(req.Month, req.Year)
	if err != nil {
		return payroll.PayrollRecordResponse{}, false, err
	}

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, false, err
	}

	record, created, err := s.commitPeriod(ctx, emp, period, req.StatusOverride())
	if err != nil {
		return payroll.PayrollRecordResponse{}, false, err
	}

	return record.ToResponse(), created, nil
}

// commitPeriod computes and upserts one employee's record for period.
func (s *PayrollServiceImpl) commitPeriod(ctx context.Context, emp employee.Employee, period payroll.Period, override *payroll.PayrollStatus) (payroll.PayrollRecord, bool, error) {
	// Paid records are final, no need to aggregate for them
	existing, err := s.payrollRepo.GetPayrollRecordByEmployeePeriod(ctx, emp.ID, period.Key)
	switch {
	case err == nil && existing.Status.IsTerminal():
		return payroll.PayrollRecord{}, false, payroll.ErrPayrollRecordAlreadyPaid
	case err != nil && !errors.Is(err, payroll.ErrPayrollRecordNotFound):
		return payroll.PayrollRecord{}, false, passThrough(err, "load payroll record")
	}

	details, err := s.calculate(ctx, emp, period)
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}

	record := payroll.PayrollRecord{
		ID:          s.newID(),
		EmployeeID:  emp.ID,
		PeriodKey:   period.Key,
		PeriodYear:  period.Year,
		PeriodMonth: int(period.Month),
		Amount:      details.CalculatedAmount,
		Details:     details,
	}

	stored, created, err := s.payrollRepo.UpsertPayrollRecord(ctx, record, override)
	if err != nil {
		return payroll.PayrollRecord{}, false, passThrough(err, "commit payroll record")
	}

	s.logger.Info("payroll record committed",
		"record_id", stored.ID,
		"employee_id", stored.EmployeeID,
		"period", stored.PeriodKey,
		"amount", stored.Amount.String(),
		"status", stored.Status,
		"created", created,
	)
	s.publish(ctx, events.PayrollRecordEvent{
		EventType: events.EventPayrollCommitted,
		Created:   created,
	}, stored)

	return stored, created, nil
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, req payroll.UpdateStatusRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	status, err := payroll.ParseStatus(req.Status)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	current, err := s.loadRecord(ctx, req.ID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if err := payroll.ValidateTransition(current.Status, status); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	updated, err := s.payrollRepo.UpdatePayrollStatus(ctx, req.ID, status)
	if err != nil {
		return payroll.PayrollRecordResponse{}, passThrough(err, "update payroll status")
	}

	s.logger.Info("payroll status changed",
		"record_id", updated.ID,
		"from", current.Status,
		"to", updated.Status,
	)
	s.publish(ctx, events.PayrollRecordEvent{
		EventType:      events.EventPayrollStatusChanged,
		PreviousStatus: string(current.Status),
	}, updated)

	return updated.ToResponse(), nil
}

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.loadRecord(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return record.ToResponse(), nil
}

// loadRecord fetches a record by id. Every store holds UUIDv7 ids, so any
// other id is reported as not found without a lookup.
func (s *PayrollServiceImpl) loadRecord(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: %q", payroll.ErrPayrollRecordNotFound, id)
	}
	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecord{}, passThrough(err, "load payroll record")
	}
	return record, nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecordResponse, error) {
	records, err := s.listRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, r.ToResponse())
	}
	return result, nil
}

func (s *PayrollServiceImpl) listRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	filter, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	records, err := s.payrollRepo.ListPayrollRecords(ctx, filter)
	if err != nil {
		return nil, passThrough(err, "list payroll records")
	}
	return records, nil
}

// Summary totals the filtered records, broken down per status in lifecycle order.
func (s *PayrollServiceImpl) Summary(ctx context.Context, filter payroll.PayrollFilter) (payroll.PayrollSummaryResponse, error) {
	records, err := s.listRecords(ctx, filter)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	statuses := []payroll.PayrollStatus{
		payroll.PayrollStatusPending,
		payroll.PayrollStatusProcessing,
		payroll.PayrollStatusPaid,
	}
	byStatus := make(map[payroll.PayrollStatus]*payroll.StatusSummary, len(statuses))
	summary := payroll.PayrollSummaryResponse{
		TotalAmount: decimal.Zero,
		ByStatus:    make([]payroll.StatusSummary, len(statuses)),
	}
	for i, st := range statuses {
		summary.ByStatus[i] = payroll.StatusSummary{Status: string(st), Amount: decimal.Zero}
		byStatus[st] = &summary.ByStatus[i]
	}

	for _, r := range records {
		summary.TotalRecords++
		summary.TotalAmount = summary.TotalAmount.Add(r.Amount)
		if bucket, ok := byStatus[r.Status]; ok {
			bucket.Count++
			bucket.Amount = bucket.Amount.Add(r.Amount)
		}
	}

	return summary, nil
}

// ========== BATCH ==========

// RunPeriod commits the period for every active employee. Employees whose
// record is already Paid are reported as skipped rather than failing the run.
func (s *PayrollServiceImpl) RunPeriod(ctx context.Context, month string, year int) (payroll.RunResult, error) {
	period, err := payroll.ResolvePeriod(month, year)
	if err != nil {
		return payroll.RunResult{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.RunResult{}, storageError("list active employees", err)
	}

	type outcome struct {
		created bool
		skipped bool
	}
	outcomes := make([]outcome, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runConcurrency)
	for i, emp := range employees {
		g.Go(func() error {
			_, created, err := s.commitPeriod(gctx, emp, period, nil)
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid) {
				outcomes[i].skipped = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			outcomes[i].created = created
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.RunResult{}, err
	}

	result := payroll.RunResult{Period: period.Key}
	for i, o := range outcomes {
		if o.skipped {
			result.Skipped = append(result.Skipped, employees[i].ID)
			continue
		}
		result.Committed++
		if o.created {
			result.Created++
		}
	}

	s.logger.Info("payroll run finished",
		"period", result.Period,
		"committed", result.Committed,
		"created", result.Created,
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// ========== HELPERS ==========

func (s *PayrollServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, storageError("load employee", err)
	}
	return emp, nil
}

// publish emits a record event. Delivery failures are logged and never undo the
// stored change.
func (s *PayrollServiceImpl) publish(ctx context.Context, event events.PayrollRecordEvent, record payroll.PayrollRecord) {
	event.RecordID = record.ID
	event.EmployeeID = record.EmployeeID
	event.Period = record.PeriodKey
	event.Amount = record.Amount.String()
	event.Status = string(record.Status)
	event.OccurredAt = s.now()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish payroll event",
			"event_type", event.EventType,
			"record_id", record.ID,
			"error", err,
		)
	}
}

// passThrough keeps domain errors intact and classifies anything else as a
// storage failure.
func passThrough(err error, op string) error {
	switch {
	case errors.Is(err, payroll.ErrPayrollRecordNotFound),
		errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid),
		errors.Is(err, payroll.ErrInvalidTransition),
		errors.Is(err, payroll.ErrInvalidStatus),
		errors.Is(err, payroll.ErrInvalidPeriod):
		return err
	default:
		return storageError(op, err)
	}
}
