// Package memory provides in-process implementations of the payroll
// repositories for tests and local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

type periodKey struct {
	EmployeeID string
	PeriodKey  string
}

// Store holds employees, attendance, leave requests and payroll records behind
// one mutex. It implements every repository the payroll service consumes.
type Store struct {
	mu          sync.RWMutex
	employees   map[string]employee.Employee
	attendances []attendance.Attendance
	leaves      []leave.LeaveRequest
	records     map[string]payroll.PayrollRecord
	byPeriod    map[periodKey]string
	now         func() time.Time
}

var (
	_ employee.EmployeeRepository     = (*Store)(nil)
	_ attendance.AttendanceRepository = (*Store)(nil)
	_ leave.LeaveRequestRepository    = (*Store)(nil)
	_ payroll.PayrollRepository       = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		employees: make(map[string]employee.Employee),
		records:   make(map[string]payroll.PayrollRecord),
		byPeriod:  make(map[periodKey]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// =============================================================================
// SOURCE DATA
// =============================================================================

func (s *Store) AddEmployee(emp employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	s.employees[emp.ID] = emp
}

func (s *Store) AddAttendance(entries ...attendance.Attendance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendances = append(s.attendances, entries...)
}

func (s *Store) AddLeaveRequest(requests ...leave.LeaveRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves = append(s.leaves, requests...)
}

func (s *Store) GetByID(_ context.Context, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Store) ListActive(_ context.Context) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []employee.Employee
	for _, emp := range s.employees {
		if emp.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) ListByEmployeeMonth(_ context.Context, employeeID string, yearMonth string) ([]attendance.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []attendance.Attendance
	for _, a := range s.attendances {
		if a.EmployeeID == employeeID && a.Status == attendance.StatusPresent && strings.HasPrefix(a.Date, yearMonth) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListApprovedPaidByEmployeeMonth(_ context.Context, employeeID string, yearMonth string) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []leave.LeaveRequest
	for _, l := range s.leaves {
		if l.EmployeeID == employeeID &&
			l.Status == leave.LeaveRequestStatusApproved &&
			l.Type == leave.LeaveTypePaid &&
			strings.HasPrefix(l.StartDate, yearMonth) {
			out = append(out, l)
		}
	}
	return out, nil
}

// =============================================================================
// PAYROLL RECORDS
// =============================================================================

func (s *Store) withEmployee(rec payroll.PayrollRecord) payroll.PayrollRecord {
	if emp, ok := s.employees[rec.EmployeeID]; ok {
		name, email := emp.FullName, emp.Email
		rec.EmployeeName = &name
		rec.EmployeeEmail = &email
		rec.EmployeeDepartment = emp.Department
	}
	return rec
}

func (s *Store) UpsertPayrollRecord(_ context.Context, record payroll.PayrollRecord, statusOverride *payroll.PayrollStatus) (payroll.PayrollRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	k := periodKey{EmployeeID: record.EmployeeID, PeriodKey: record.PeriodKey}

	if id, ok := s.byPeriod[k]; ok {
		existing := s.records[id]
		if err := existing.ApplyRecompute(record, statusOverride, now); err != nil {
			return payroll.PayrollRecord{}, false, err
		}
		s.records[id] = existing
		return s.withEmployee(existing), false, nil
	}

	record.Status = payroll.InitialStatus(statusOverride)
	if record.Status == payroll.PayrollStatusPaid {
		paidAt := now
		record.PaidAt = &paidAt
	}
	record.CreatedAt, record.UpdatedAt = now, now
	s.records[record.ID] = record
	s.byPeriod[k] = record.ID
	return s.withEmployee(record), true, nil
}

func (s *Store) GetPayrollRecordByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return s.withEmployee(rec), nil
}

func (s *Store) GetPayrollRecordByEmployeePeriod(_ context.Context, employeeID string, periodKeyValue string) (payroll.PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPeriod[periodKey{EmployeeID: employeeID, PeriodKey: periodKeyValue}]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return s.withEmployee(s.records[id]), nil
}

func (s *Store) UpdatePayrollStatus(_ context.Context, id string, status payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if err := rec.TransitionTo(status, s.now()); err != nil {
		return payroll.PayrollRecord{}, err
	}
	s.records[id] = rec
	return s.withEmployee(rec), nil
}

func (s *Store) ListPayrollRecords(_ context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]payroll.PayrollRecord, 0)
	for _, rec := range s.records {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		if filter.PeriodKey != nil && rec.PeriodKey != *filter.PeriodKey {
			continue
		}
		out = append(out, s.withEmployee(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
