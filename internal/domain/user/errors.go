package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeScopeRequired   = errors.New("token is not linked to an employee")
	ErrForeignPayrollRecord    = errors.New("payroll record belongs to another employee")
)
