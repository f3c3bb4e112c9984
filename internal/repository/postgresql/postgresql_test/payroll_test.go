package postgresql_test

import (
	"context"
	"sync"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEmployee(t *testing.T, ctx context.Context, db *database.DB, salary string) string {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := db.Exec(ctx, `
		INSERT INTO employees (id, full_name, email, department, base_salary, employment_status)
		VALUES ($1, 'Ayu Lestari', $2, 'Finance', $3, 'active')
	`, id, id+"@example.com", decimal.RequireFromString(salary))
	require.NoError(t, err)
	return id
}

func newRecord(employeeID string, amount int64) payroll.PayrollRecord {
	period := payroll.NewPeriod(2025, 10)
	salary := decimal.NewFromInt(60000)
	details := payroll.Calculate(&salary, payroll.AttendanceSummary{PresentDays: 20}, payroll.LeaveSummary{PaidLeaveDays: 2})
	details.CalculatedAmount = decimal.NewFromInt(amount)
	return payroll.PayrollRecord{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeID:  employeeID,
		PeriodKey:   period.Key,
		PeriodYear:  period.Year,
		PeriodMonth: int(period.Month),
		Amount:      decimal.NewFromInt(amount),
		Details:     details,
	}
}

func TestPayrollRepository_UpsertCreatesThenRecomputes(t *testing.T) {
	db := requireDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)
	empID := createTestEmployee(t, ctx, db, "60000")

	first, created, err := repo.UpsertPayrollRecord(ctx, newRecord(empID, 44000), nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, payroll.PayrollStatusPending, first.Status)
	assert.Equal(t, "October 2025", first.PeriodKey)
	require.NotNil(t, first.EmployeeName)
	assert.Equal(t, "Ayu Lestari", *first.EmployeeName)
	assert.Equal(t, 22, first.Details.TotalPayableDays)

	second, created, err := repo.UpsertPayrollRecord(ctx, newRecord(empID, 46000), nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, decimal.NewFromInt(46000).Equal(second.Amount))

	list, err := repo.ListPayrollRecords(ctx, payroll.PayrollFilter{EmployeeID: &empID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPayrollRepository_UpsertConcurrent(t *testing.T) {
	db := requireDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)
	empID := createTestEmployee(t, ctx, db, "60000")

	const workers = 8
	var wg sync.WaitGroup
	ids := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, _, err := repo.UpsertPayrollRecord(ctx, newRecord(empID, 44000), nil)
			ids[i], errs[i] = rec.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	list, err := repo.ListPayrollRecords(ctx, payroll.PayrollFilter{EmployeeID: &empID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPayrollRepository_StatusLifecycle(t *testing.T) {
	db := requireDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)
	empID := createTestEmployee(t, ctx, db, "60000")

	rec, _, err := repo.UpsertPayrollRecord(ctx, newRecord(empID, 44000), nil)
	require.NoError(t, err)

	rec, err = repo.UpdatePayrollStatus(ctx, rec.ID, payroll.PayrollStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusProcessing, rec.Status)

	_, err = repo.UpdatePayrollStatus(ctx, rec.ID, payroll.PayrollStatusPending)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	rec, err = repo.UpdatePayrollStatus(ctx, rec.ID, payroll.PayrollStatusPaid)
	require.NoError(t, err)
	assert.NotNil(t, rec.PaidAt)

	_, _, err = repo.UpsertPayrollRecord(ctx, newRecord(empID, 1), nil)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)

	_, err = repo.UpdatePayrollStatus(ctx, uuid.Must(uuid.NewV7()).String(), payroll.PayrollStatusPaid)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	db := requireDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)
	empID := createTestEmployee(t, ctx, db, "52000.50")

	emp, err := repo.GetByID(ctx, empID)
	require.NoError(t, err)
	require.NotNil(t, emp.BaseSalary)
	assert.True(t, decimal.RequireFromString("52000.50").Equal(*emp.BaseSalary))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceAndLeaveRepositories_MonthFilters(t *testing.T) {
	db := requireDatabase(t)
	ctx := context.Background()
	empID := createTestEmployee(t, ctx, db, "60000")

	_, err := db.Exec(ctx, `
		INSERT INTO attendances (id, employee_id, date, clock_in, clock_out, status) VALUES
			($1, $4, '2025-10-01', '2025-10-01T09:00:00Z', '2025-10-01T18:00:00Z', 'Present'),
			($2, $4, '2025-10-02', NULL, NULL, 'Half-day'),
			($3, $4, '2025-11-01', NULL, NULL, 'Present')
	`, uuid.NewString(), uuid.NewString(), uuid.NewString(), empID)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO leave_requests (id, employee_id, leave_type, status, start_date, end_date) VALUES
			($1, $4, 'Paid', 'Approved', '2025-10-10', '2025-10-12'),
			($2, $4, 'Sick', 'Approved', '2025-10-20', '2025-10-20'),
			($3, $4, 'Paid', 'Approved', '2025-09-29', '2025-10-02')
	`, uuid.NewString(), uuid.NewString(), uuid.NewString(), empID)
	require.NoError(t, err)

	entries, err := postgresql.NewAttendanceRepository(db).ListByEmployeeMonth(ctx, empID, "2025-10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-10-01", entries[0].Date)
	hours, ok := entries[0].WorkedHours()
	assert.True(t, ok)
	assert.InDelta(t, 9.0, hours, 1e-9)

	leaves, err := postgresql.NewLeaveRequestRepository(db).ListApprovedPaidByEmployeeMonth(ctx, empID, "2025-10")
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	days, err := leaves[0].Days()
	require.NoError(t, err)
	assert.Equal(t, 3, days)
}
