package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(employeeID string) payroll.PayrollRecord {
	return payroll.PayrollRecord{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		PeriodKey:   "October 2025",
		PeriodYear:  2025,
		PeriodMonth: 10,
		Amount:      decimal.NewFromInt(44000),
	}
}

func TestStore_UpsertConcurrentCreatesOneRecord(t *testing.T) {
	s := NewStore()
	s.AddEmployee(employee.Employee{ID: "emp-1", FullName: "John Doe"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, isNew, err := s.UpsertPayrollRecord(context.Background(), record("emp-1"), nil)
			assert.NoError(t, err)
			if isNew {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	all, err := s.ListPayrollRecords(context.Background(), payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "John Doe", *all[0].EmployeeName)
}

func TestStore_UpdatePayrollStatus(t *testing.T) {
	s := NewStore()
	rec, _, err := s.UpsertPayrollRecord(context.Background(), record("emp-1"), nil)
	require.NoError(t, err)

	_, err = s.UpdatePayrollStatus(context.Background(), rec.ID, payroll.PayrollStatusPending)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	paid, err := s.UpdatePayrollStatus(context.Background(), rec.ID, payroll.PayrollStatusPaid)
	require.NoError(t, err)
	assert.NotNil(t, paid.PaidAt)

	_, _, err = s.UpsertPayrollRecord(context.Background(), record("emp-1"), nil)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)

	_, err = s.UpdatePayrollStatus(context.Background(), "missing", payroll.PayrollStatusPaid)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}
