package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seeder writes the HR source data the payroll engine reads. It exists for the
// CLI and tests; production data is owned by the HR system.
type Seeder struct {
	db *sql.DB
}

func NewSeeder(db *sql.DB) *Seeder {
	return &Seeder{db: db}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Seeder) InsertEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	if emp.ID == "" {
		emp.ID = newID()
	}
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	now := time.Now().UTC()
	emp.CreatedAt, emp.UpdatedAt = now, now

	var salary interface{}
	if emp.BaseSalary != nil {
		salary = emp.BaseSalary.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, full_name, email, department, base_salary, employment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, emp.ID, emp.FullName, emp.Email, emp.Department, salary, emp.EmploymentStatus, formatTime(now), formatTime(now))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}
	return emp, nil
}

func (s *Seeder) InsertAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if att.ID == "" {
		att.ID = newID()
	}
	now := time.Now().UTC()
	att.CreatedAt, att.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendances (id, employee_id, date, clock_in, clock_out, working_hours, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, att.ID, att.EmployeeID, att.Date, formatTimePtr(att.ClockIn), formatTimePtr(att.ClockOut),
		att.WorkingHours, att.Status, formatTime(now), formatTime(now))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return att, nil
}

func (s *Seeder) InsertLeaveRequest(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	if req.ID == "" {
		req.ID = newID()
	}
	if _, err := req.Days(); err != nil {
		return leave.LeaveRequest{}, err
	}
	now := time.Now().UTC()
	req.CreatedAt, req.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests (id, employee_id, leave_type, status, start_date, end_date, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.ID, req.EmployeeID, req.Type, req.Status, req.StartDate, req.EndDate, req.Reason, formatTime(now), formatTime(now))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to insert leave request: %w", err)
	}
	return req, nil
}

type SeedResult struct {
	Employees     int
	Attendances   int
	LeaveRequests int
}

type sampleEmployee struct {
	name, email, department string
	salary                  int64
}

var sampleEmployees = []sampleEmployee{
	{"John Doe", "john@test.com", "Engineering", 60000},
	{"Jane Smith", "jane@test.com", "Marketing", 55000},
	{"Mike Johnson", "mike@test.com", "Sales", 75000},
	{"Sarah Williams", "sarah@test.com", "HR", 50000},
	{"Tom Brown", "tom@test.com", "Engineering", 65000},
}

var sampleLeaveReasons = []string{
	"Family emergency",
	"Medical appointment",
	"Personal work",
	"Vacation",
	"Sick leave",
	"Wedding to attend",
}

// SeedSample clears attendance, leave and payroll rows, creates the sample
// employees when none exist, and generates weekday attendance for period up
// to and including until, plus two or three leave requests per employee.
func (s *Seeder) SeedSample(ctx context.Context, period payroll.Period, until time.Time, rng *rand.Rand) (SeedResult, error) {
	var result SeedResult

	for _, table := range []string{"payroll_records", "leave_requests", "attendances"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return result, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	employees, err := NewEmployeeRepository(s.db).ListActive(ctx)
	if err != nil {
		return result, err
	}
	if len(employees) == 0 {
		for _, sample := range sampleEmployees {
			department := sample.department
			salary := decimal.NewFromInt(sample.salary)
			emp, err := s.InsertEmployee(ctx, employee.Employee{
				FullName:   sample.name,
				Email:      sample.email,
				Department: &department,
				BaseSalary: &salary,
			})
			if err != nil {
				return result, err
			}
			employees = append(employees, emp)
		}
	}
	result.Employees = len(employees)

	for _, emp := range employees {
		for day := period.Start; !day.After(period.End); day = day.AddDate(0, 0, 1) {
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}
			if day.After(until) {
				break
			}
			// Roughly one absence in five working days
			if rng.Float64() < 0.2 {
				continue
			}

			clockIn := day.Add(time.Duration(8+rng.Intn(2))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)
			worked := 8 + rng.Float64()*3
			clockOut := clockIn.Add(time.Duration(worked * float64(time.Hour)))
			hours := clockOut.Sub(clockIn).Hours()

			if _, err := s.InsertAttendance(ctx, attendance.Attendance{
				EmployeeID:   emp.ID,
				Date:         day.Format("2006-01-02"),
				ClockIn:      &clockIn,
				ClockOut:     &clockOut,
				WorkingHours: &hours,
				Status:       attendance.StatusPresent,
			}); err != nil {
				return result, err
			}
			result.Attendances++
		}

		types := []leave.LeaveType{leave.LeaveTypePaid, leave.LeaveTypeUnpaid, leave.LeaveTypeSick}
		statuses := []leave.LeaveRequestStatus{leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved, leave.LeaveRequestStatusRejected}
		lastDay := period.End.Day()
		for i, n := 0, 2+rng.Intn(2); i < n; i++ {
			from := 1 + rng.Intn(lastDay)
			to := from + rng.Intn(3)
			if to > lastDay {
				to = lastDay
			}
			reason := sampleLeaveReasons[rng.Intn(len(sampleLeaveReasons))]
			if _, err := s.InsertLeaveRequest(ctx, leave.LeaveRequest{
				EmployeeID: emp.ID,
				Type:       types[rng.Intn(len(types))],
				Status:     statuses[rng.Intn(len(statuses))],
				StartDate:  fmt.Sprintf("%s-%02d", period.Prefix, from),
				EndDate:    fmt.Sprintf("%s-%02d", period.Prefix, to),
				Reason:     &reason,
			}); err != nil {
				return result, err
			}
			result.LeaveRequests++
		}
	}

	return result, nil
}
