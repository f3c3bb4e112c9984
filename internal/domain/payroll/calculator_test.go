package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name        string
		salary      *decimal.Decimal
		present     int
		paidLeave   int
		hours       string
		wantAmount  string
		wantPerDay  string
		wantPayable int
	}{
		{"worked example", dec("60000"), 20, 2, "160", "44000", "2000", 22},
		{"no data", dec("60000"), 0, 0, "0", "0", "2000", 0},
		{"nil salary", nil, 20, 2, "160", "0", "0", 22},
		{"zero salary", dec("0"), 10, 0, "80", "0", "0", 10},
		{"rounds half up", dec("45"), 1, 0, "8", "2", "1.5", 1},
		{"rounds down below half", dec("55000"), 22, 0, "176", "40333", "1833.33", 22},
		{"rounds up above half", dec("50000"), 1, 0, "8", "1667", "1666.67", 1},
		{"paid leave only", dec("30000"), 0, 3, "0", "3000", "1000", 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Calculate(c.salary,
				AttendanceSummary{PresentDays: c.present, TotalWorkingHours: decimal.RequireFromString(c.hours)},
				LeaveSummary{PaidLeaveDays: c.paidLeave},
			)
			assert.True(t, decimal.RequireFromString(c.wantAmount).Equal(got.CalculatedAmount), "amount %s", got.CalculatedAmount)
			assert.True(t, decimal.RequireFromString(c.wantPerDay).Equal(got.PerDaySalary), "per day %s", got.PerDaySalary)
			assert.Equal(t, c.wantPayable, got.TotalPayableDays)
			assert.Equal(t, c.present, got.PresentDays)
			assert.Equal(t, c.paidLeave, got.PaidLeaveDays)
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	att := AttendanceSummary{PresentDays: 17, TotalWorkingHours: decimal.RequireFromString("135.25")}
	lv := LeaveSummary{PaidLeaveDays: 4}
	first := Calculate(dec("73500"), att, lv)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Calculate(dec("73500"), att, lv))
	}
}

func TestPayrollDetails_ScanValueRoundTrip(t *testing.T) {
	details := Calculate(dec("60000"), AttendanceSummary{PresentDays: 20, TotalWorkingHours: decimal.RequireFromString("160.5")}, LeaveSummary{PaidLeaveDays: 2})

	v, err := details.Value()
	assert.NoError(t, err)
	assert.Contains(t, v, `"calculatedAmount":"44000"`)
	assert.Contains(t, v, `"totalPayableDays":22`)

	var scanned PayrollDetails
	assert.NoError(t, scanned.Scan(v))
	assert.True(t, details.CalculatedAmount.Equal(scanned.CalculatedAmount))
	assert.True(t, details.TotalWorkingHours.Equal(scanned.TotalWorkingHours))

	var fromBytes PayrollDetails
	assert.NoError(t, fromBytes.Scan([]byte(v.(string))))
	assert.Equal(t, 20, fromBytes.PresentDays)

	assert.Error(t, fromBytes.Scan(42))
}
