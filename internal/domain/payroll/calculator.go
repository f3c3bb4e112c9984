package payroll

import (
	"github.com/shopspring/decimal"
)

// DaysPerMonth is the flat month length used for the per-day rate regardless
// of the calendar month's actual length.
const DaysPerMonth = 30

var daysPerMonth = decimal.NewFromInt(DaysPerMonth)

// Calculate reduces salary, attendance and leave into the payable amount:
//
//	perDaySalary     = salary / 30
//	totalPayableDays = presentDays + paidLeaveDays
//	amount           = round(perDaySalary * totalPayableDays)
//
// The product is taken before the division so the amount is exact before the
// final half-up rounding to a whole unit.
// A nil salary is treated as zero.
func Calculate(baseSalary *decimal.Decimal, att AttendanceSummary, leave LeaveSummary) PayrollDetails {
	salary := decimal.Zero
	if baseSalary != nil {
		salary = *baseSalary
	}
	totalPayableDays := att.PresentDays + leave.PaidLeaveDays

	amount := salary.
		Mul(decimal.NewFromInt(int64(totalPayableDays))).
		Div(daysPerMonth).
		Round(0)

	return PayrollDetails{
		Basic:             salary,
		PresentDays:       att.PresentDays,
		PaidLeaveDays:     leave.PaidLeaveDays,
		TotalPayableDays:  totalPayableDays,
		TotalWorkingHours: att.TotalWorkingHours,
		PerDaySalary:      salary.Div(daysPerMonth).Round(2),
		CalculatedAmount:  amount,
	}
}
