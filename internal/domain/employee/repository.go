package employee

import "context"

// EmployeeRepository is the read-only employee lookup consumed by payroll.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the id does not resolve.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns every employee whose employment status is active.
	ListActive(ctx context.Context) ([]Employee, error)
}
