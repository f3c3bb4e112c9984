package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending    PayrollStatus = "Pending"
	PayrollStatusProcessing PayrollStatus = "Processing"
	PayrollStatusPaid       PayrollStatus = "Paid"
)

// PayrollDetails is the calculation snapshot captured when a record is committed.
type PayrollDetails struct {
	Basic             decimal.Decimal `json:"basic"`
	PresentDays       int             `json:"presentDays"`
	PaidLeaveDays     int             `json:"paidLeaveDays"`
	TotalPayableDays  int             `json:"totalPayableDays"`
	TotalWorkingHours decimal.Decimal `json:"totalWorkingHours"`
	PerDaySalary      decimal.Decimal `json:"perDaySalary"`
	CalculatedAmount  decimal.Decimal `json:"calculatedAmount"`
}

// Value implements driver.Valuer for database storage
func (d PayrollDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (d *PayrollDetails) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return errors.New("failed to scan PayrollDetails: invalid type")
	}
}

// PayrollRecord - persisted payroll result, unique per (EmployeeID, PeriodKey)
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	PeriodKey   string
	PeriodYear  int
	PeriodMonth int
	Amount      decimal.Decimal
	Status      PayrollStatus
	Details     PayrollDetails
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName       *string
	EmployeeEmail      *string
	EmployeeDepartment *string
}

// AttendanceSummary - present days and worked hours for one employee-month
type AttendanceSummary struct {
	PresentDays       int
	TotalWorkingHours decimal.Decimal
	// SkippedEntries counts entries whose clock-out precedes clock-in.
	SkippedEntries int
}

// LeaveSummary - payable leave days for one employee-month
type LeaveSummary struct {
	PaidLeaveDays int
	Requests      int
}
