package payroll

import "errors"

var (
	ErrPayrollRecordNotFound    = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyPaid = errors.New("payroll record already paid, cannot modify")
	ErrInvalidPeriod            = errors.New("invalid payroll period")
	ErrInvalidStatus            = errors.New("invalid payroll status")
	ErrInvalidTransition        = errors.New("invalid payroll status transition")
	ErrStorage                  = errors.New("payroll storage failure")
)
